package transactions_test

import (
	"testing"

	"fjacquet/sheet-ledger/cmd/transactions"

	"github.com/stretchr/testify/assert"
)

func TestTransactionsCommand_Metadata(t *testing.T) {
	assert.Equal(t, "transactions", transactions.Cmd.Use)
	assert.Contains(t, transactions.Cmd.Short, "selected transactions")
	assert.NotEmpty(t, transactions.Cmd.Long)
	assert.NotNil(t, transactions.Cmd.RunE)
	assert.NoError(t, transactions.Cmd.Args(transactions.Cmd, nil))
	assert.Error(t, transactions.Cmd.Args(transactions.Cmd, []string{"extra"}))
}
