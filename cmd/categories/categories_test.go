package categories_test

import (
	"testing"

	"fjacquet/sheet-ledger/cmd/categories"

	"github.com/stretchr/testify/assert"
)

func TestCategoriesCommand_Metadata(t *testing.T) {
	assert.Equal(t, "categories", categories.Cmd.Use)
	assert.Contains(t, categories.Cmd.Short, "by category")
	assert.NotEmpty(t, categories.Cmd.Long)
	assert.NotNil(t, categories.Cmd.RunE)
	assert.NoError(t, categories.Cmd.Args(categories.Cmd, nil))
	assert.Error(t, categories.Cmd.Args(categories.Cmd, []string{"extra"}))
}
