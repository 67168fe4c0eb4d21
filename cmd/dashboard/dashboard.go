// Package dashboard handles the dashboard report command
package dashboard

import (
	"fjacquet/sheet-ledger/cmd/common"
	"fjacquet/sheet-ledger/cmd/root"
	"fjacquet/sheet-ledger/internal/report"

	"github.com/spf13/cobra"
)

// Cmd represents the dashboard command
var Cmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Report the complete dashboard",
	Long: `Report the complete dashboard for the selected window: headline figures,
monthly summary, expense totals by category, top expenses and transactions.`,
	Args: cobra.NoArgs,
	RunE: dashboardFunc,
}

func dashboardFunc(cmd *cobra.Command, args []string) error {
	req, err := root.NewRequest(report.SectionAll)
	if err != nil {
		return err
	}
	return common.RunSection(cmd.Context(), root.AppContainer.GetLoader(), root.AppContainer.GetGenerator(), req, cmd.OutOrStdout(), root.Log)
}
