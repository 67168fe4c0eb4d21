package main

import (
	"context"
	"fmt"
	"os"

	"fjacquet/sheet-ledger/cmd/categories"
	"fjacquet/sheet-ledger/cmd/dashboard"
	"fjacquet/sheet-ledger/cmd/export"
	"fjacquet/sheet-ledger/cmd/monthly"
	"fjacquet/sheet-ledger/cmd/root"
	"fjacquet/sheet-ledger/cmd/serve"
	"fjacquet/sheet-ledger/cmd/summary"
	"fjacquet/sheet-ledger/cmd/top"
	"fjacquet/sheet-ledger/cmd/transactions"
	"fjacquet/sheet-ledger/cmd/validate"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(validate.Cmd)
	root.Cmd.AddCommand(dashboard.Cmd)
	root.Cmd.AddCommand(summary.Cmd)
	root.Cmd.AddCommand(monthly.Cmd)
	root.Cmd.AddCommand(categories.Cmd)
	root.Cmd.AddCommand(top.Cmd)
	root.Cmd.AddCommand(transactions.Cmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	if err := root.Cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
