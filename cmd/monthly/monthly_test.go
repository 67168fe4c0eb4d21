package monthly_test

import (
	"testing"

	"fjacquet/sheet-ledger/cmd/monthly"

	"github.com/stretchr/testify/assert"
)

func TestMonthlyCommand_Metadata(t *testing.T) {
	assert.Equal(t, "monthly", monthly.Cmd.Use)
	assert.Contains(t, monthly.Cmd.Short, "calendar month")
	assert.NotEmpty(t, monthly.Cmd.Long)
	assert.NotNil(t, monthly.Cmd.RunE)
	assert.NoError(t, monthly.Cmd.Args(monthly.Cmd, nil))
	assert.Error(t, monthly.Cmd.Args(monthly.Cmd, []string{"extra"}))
}
