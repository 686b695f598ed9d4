package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/grocery-list-converter/internal/types"
)

func TestValidateItems(t *testing.T) {
	items := []types.GroceryItem{
		{Category: "Meats", Item: "Chicken", Quantity: 2},
		{Category: "", Item: "Rice", Quantity: 1},
		{Category: "Pantry", Item: "Beans", Quantity: 0},
	}

	result := ValidateItems(items, 1)

	assert.False(t, result.IsValid)
	assert.Equal(t, 3, result.RecordsValidated)
	require.Equal(t, 2, result.ErrorCount)

	assert.Equal(t, "category", result.Errors[0].Field)
	assert.Equal(t, "required", result.Errors[0].Rule)
	assert.Equal(t, 2, result.Errors[0].RowNumber)

	assert.Equal(t, "quantity", result.Errors[1].Field)
	assert.Equal(t, "min", result.Errors[1].Rule)
	assert.Equal(t, "0", result.Errors[1].Value)
	assert.Equal(t, 3, result.Errors[1].RowNumber)

	assert.Error(t, result.Err())
}

func TestValidateItems_AllValid(t *testing.T) {
	result := ValidateItems([]types.GroceryItem{{Category: "Meats", Item: "Ham", Quantity: 1}}, 1)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.NoError(t, result.Err())
}

func TestValidateItems_EmptyWarns(t *testing.T) {
	result := ValidateItems(nil, 1)

	assert.True(t, result.IsValid)
	assert.Equal(t, 0, result.ErrorCount)
	assert.Equal(t, 1, result.WarningCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, SeverityWarning, result.Errors[0].Severity)
	assert.Equal(t, "not_empty", result.Errors[0].Rule)
	assert.NoError(t, result.Err())
}

func TestValidateTable(t *testing.T) {
	headers := []string{"category", " item", "quantity "}
	rows := [][]string{
		{"Meats", "Chicken Breast", "2"},
		{"Pantry", "Olive Oil", "abc"},
		{"Pantry", "", "1"},
		{"Toiletries", "Soap", "-1"},
		{"Toiletries", "Toothpaste"},
	}

	items, result := ValidateTable(headers, rows)

	assert.Equal(t, []types.GroceryItem{{Category: "Meats", Item: "Chicken Breast", Quantity: 2}}, items)
	assert.Equal(t, 5, result.RecordsValidated)
	require.Equal(t, 4, result.ErrorCount)

	assert.Equal(t, "integer", result.Errors[0].Rule)
	assert.Equal(t, 3, result.Errors[0].RowNumber)
	assert.Equal(t, "item", result.Errors[1].Field)
	assert.Equal(t, 4, result.Errors[1].RowNumber)
	assert.Equal(t, "min", result.Errors[2].Rule)
	assert.Equal(t, "integer", result.Errors[3].Rule)
	assert.Equal(t, 6, result.Errors[3].RowNumber)
}

func TestValidateTable_WrongHeader(t *testing.T) {
	items, result := ValidateTable([]string{"item", "category", "quantity"}, [][]string{{"a", "b", "1"}})

	assert.Nil(t, items)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "header", result.Errors[0].Rule)
	assert.False(t, result.IsValid)
}

func TestValidateTable_NoRows(t *testing.T) {
	_, result := ValidateTable(types.Columns, nil)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "not_empty", result.Errors[0].Rule)
	assert.Contains(t, result.Errors[0].Error(), "no records")
}

func TestFormatErrors(t *testing.T) {
	assert.Equal(t, "No validation errors.", FormatErrors(nil))

	out := FormatErrors([]*ValidationError{{
		Severity:  SeverityError,
		Field:     "quantity",
		Value:     "x",
		Message:   "must be an integer",
		RowNumber: 4,
	}})
	assert.Contains(t, out, "1 error(s)")
	assert.Contains(t, out, "[ERROR] Row 4, Field 'quantity': must be an integer (value: 'x')")
}

func TestWriteErrorLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.txt")

	err := WriteErrorLog([]*ValidationError{{Severity: SeverityWarning, Message: "file contains no records"}}, path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[WARNING] Row 0: file contains no records")
}
