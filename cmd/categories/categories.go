// Package categories handles the categories report command
package categories

import (
	"fjacquet/sheet-ledger/cmd/common"
	"fjacquet/sheet-ledger/cmd/root"
	"fjacquet/sheet-ledger/internal/report"

	"github.com/spf13/cobra"
)

// Cmd represents the categories command
var Cmd = &cobra.Command{
	Use:   "categories",
	Short: "Report expense totals by category",
	Long:  `Report expense totals by category for the selected window, largest first.`,
	Args:  cobra.NoArgs,
	RunE:  categoriesFunc,
}

func categoriesFunc(cmd *cobra.Command, args []string) error {
	req, err := root.NewRequest(report.SectionCategories)
	if err != nil {
		return err
	}
	return common.RunSection(cmd.Context(), root.AppContainer.GetLoader(), root.AppContainer.GetGenerator(), req, cmd.OutOrStdout(), root.Log)
}
