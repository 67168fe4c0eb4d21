// Package top handles the top report command
package top

import (
	"fjacquet/sheet-ledger/cmd/common"
	"fjacquet/sheet-ledger/cmd/root"
	"fjacquet/sheet-ledger/internal/report"

	"github.com/spf13/cobra"
)

// Cmd represents the top command
var Cmd = &cobra.Command{
	Use:   "top",
	Short: "Report the largest expenses",
	Long: `Report the largest expenses of the selected window. Use --limit to change
how many are listed.`,
	Args: cobra.NoArgs,
	RunE: topFunc,
}

func topFunc(cmd *cobra.Command, args []string) error {
	req, err := root.NewRequest(report.SectionTop)
	if err != nil {
		return err
	}
	return common.RunSection(cmd.Context(), root.AppContainer.GetLoader(), root.AppContainer.GetGenerator(), req, cmd.OutOrStdout(), root.Log)
}
