package csvparser

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/grocery-list-converter/internal/types"
)

var sampleItems = []types.GroceryItem{
	{Category: "Meats", Item: "Chicken Breast", Quantity: 2},
	{Category: "Pantry", Item: "Beans, canned", Quantity: 3},
	{Category: "Pantry", Item: `12" tortillas`, Quantity: 1},
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleItems))

	expected := "category,item,quantity\n" +
		"Meats,Chicken Breast,2\n" +
		"Pantry,\"Beans, canned\",3\n" +
		"Pantry,\"12\"\" tortillas\",1\n"
	assert.Equal(t, expected, buf.String())
}

func TestWrite_NoItems(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil))
	assert.Equal(t, "category,item,quantity\n", buf.String())
}

func TestWriteFileAndReadItems(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "grocery-list.csv")
	require.NoError(t, WriteFile(path, sampleItems))

	items, result, err := ReadItems(path)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Equal(t, sampleItems, items)
}

func TestParseReader_SkipsEmptyRowsAndBOM(t *testing.T) {
	input := "\ufeffcategory, item ,quantity\nMeats,Ham,1\n,,\nPantry,Rice,2\n"

	data, err := ParseReader(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, types.Columns, data.Headers)
	assert.Equal(t, 2, data.RowCount)
	assert.Equal(t, []string{"Pantry", "Rice", "2"}, data.Rows[1])
}

func TestParseReader_Empty(t *testing.T) {
	_, err := ParseReader(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestReadItems_InvalidRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("category,item,quantity\nMeats,Ham,two\n"), 0o644))

	items, result, err := ReadItems(path)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.False(t, result.IsValid)
	assert.Equal(t, 1, result.ErrorCount)
}

func TestParse_MissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
