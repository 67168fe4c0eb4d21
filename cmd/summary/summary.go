// Package summary handles the summary report command
package summary

import (
	"fjacquet/sheet-ledger/cmd/common"
	"fjacquet/sheet-ledger/cmd/root"
	"fjacquet/sheet-ledger/internal/report"

	"github.com/spf13/cobra"
)

// Cmd represents the summary command
var Cmd = &cobra.Command{
	Use:   "summary",
	Short: "Report balance, income, expense, net and savings rate",
	Long: `Report the current all-time balance and the income, expense, net and savings
rate of the selected window, compared with the window of equal length just
before it.`,
	Args: cobra.NoArgs,
	RunE: summaryFunc,
}

func summaryFunc(cmd *cobra.Command, args []string) error {
	req, err := root.NewRequest(report.SectionSummary)
	if err != nil {
		return err
	}
	return common.RunSection(cmd.Context(), root.AppContainer.GetLoader(), root.AppContainer.GetGenerator(), req, cmd.OutOrStdout(), root.Log)
}
