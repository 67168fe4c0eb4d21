// Package export writes the selected transactions as CSV
package export

import (
	"fjacquet/sheet-ledger/cmd/common"
	"fjacquet/sheet-ledger/cmd/root"
	"fjacquet/sheet-ledger/internal/factory"
	"fjacquet/sheet-ledger/internal/report"
	"fjacquet/sheet-ledger/internal/server"

	"github.com/spf13/cobra"
)

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export the selected transactions as CSV",
	Long: `Export the transactions of the selected window as CSV, with their signed
amount and running balance over the whole ledger. Dates are written DD-MM-YYYY
so the file can be read back with --file.

Example:
  sheet-ledger export --preset all --type Expense -o ` + server.ExportFileName,
	Args: cobra.NoArgs,
	RunE: exportFunc,
}

func exportFunc(cmd *cobra.Command, args []string) error {
	req, err := root.NewRequest(report.SectionTransactions)
	if err != nil {
		return err
	}
	_, err = common.ExportSelection(cmd.Context(), root.AppContainer.GetLoader(), req, factory.Delimiter(root.AppConfig), cmd.OutOrStdout(), root.Log)
	return err
}
