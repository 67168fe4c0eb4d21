// Package monthly handles the monthly report command
package monthly

import (
	"fjacquet/sheet-ledger/cmd/common"
	"fjacquet/sheet-ledger/cmd/root"
	"fjacquet/sheet-ledger/internal/report"

	"github.com/spf13/cobra"
)

// Cmd represents the monthly command
var Cmd = &cobra.Command{
	Use:   "monthly",
	Short: "Report income, expense and net per calendar month",
	Long: `Report income, expense and net per calendar month of the selected window,
oldest month first.`,
	Args: cobra.NoArgs,
	RunE: monthlyFunc,
}

func monthlyFunc(cmd *cobra.Command, args []string) error {
	req, err := root.NewRequest(report.SectionMonthly)
	if err != nil {
		return err
	}
	return common.RunSection(cmd.Context(), root.AppContainer.GetLoader(), root.AppContainer.GetGenerator(), req, cmd.OutOrStdout(), root.Log)
}
