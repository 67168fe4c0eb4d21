// Package transactions handles the transactions report command
package transactions

import (
	"fjacquet/sheet-ledger/cmd/common"
	"fjacquet/sheet-ledger/cmd/root"
	"fjacquet/sheet-ledger/internal/report"

	"github.com/spf13/cobra"
)

// Cmd represents the transactions command
var Cmd = &cobra.Command{
	Use:   "transactions",
	Short: "List the selected transactions",
	Long: `List the transactions of the selected window with their running balance
over the whole ledger.`,
	Args: cobra.NoArgs,
	RunE: transactionsFunc,
}

func transactionsFunc(cmd *cobra.Command, args []string) error {
	req, err := root.NewRequest(report.SectionTransactions)
	if err != nil {
		return err
	}
	return common.RunSection(cmd.Context(), root.AppContainer.GetLoader(), root.AppContainer.GetGenerator(), req, cmd.OutOrStdout(), root.Log)
}
