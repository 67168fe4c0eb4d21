// Package validate checks that a sheet can be read as a ledger
package validate

import (
	"fmt"
	"io"
	"time"

	"fjacquet/sheet-ledger/cmd/root"
	"fjacquet/sheet-ledger/internal/dateutils"
	"fjacquet/sheet-ledger/internal/loader"

	"github.com/spf13/cobra"
)

// Cmd represents the validate command
var Cmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the sheet is a well-formed ledger",
	Long: `Fetch the configured sheet and validate it: the required columns must be
present, every date must be DD-MM-YYYY, every type Income or Expense and every
amount numeric. Problems are reported with example rows so the sheet can be
fixed.`,
	Args: cobra.NoArgs,
	RunE: validateFunc,
}

func validateFunc(cmd *cobra.Command, args []string) error {
	res, err := root.AppContainer.GetLoader().Load(cmd.Context(), root.AppContainer.Source())
	if err != nil {
		return err
	}
	return WriteResult(cmd.OutOrStdout(), res, root.AppConfig.Location())
}

// WriteResult prints a one-paragraph description of a loaded ledger.
func WriteResult(w io.Writer, res loader.Result, loc *time.Location) error {
	l := res.Ledger
	if l.IsEmpty() {
		_, err := fmt.Fprintln(w, "No transactions found in the sheet. Add rows to your Google Sheet and refresh.")
		return err
	}

	first, last, _ := l.Bounds()
	if loc == nil {
		loc = time.UTC
	}
	fetched := res.FetchedAt.In(loc)
	_, err := fmt.Fprintf(w, "Sheet is valid: %d transactions from %s to %s in %d categories.\nLast refreshed: %s %s\n",
		l.Len(),
		dateutils.FormatDayFirst(first),
		dateutils.FormatDayFirst(last),
		len(l.Categories()),
		dateutils.FormatDayFirst(fetched),
		fetched.Format("15:04:05"))
	return err
}
