package xmlwriter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/grocery-list-converter/internal/types"
)

func TestGenerate_Structure(t *testing.T) {
	items := []types.GroceryItem{
		{Category: "Meats", Item: "Chicken Breast", Quantity: 2},
		{Category: "Pantry", Item: "Salt & Pepper", Quantity: 1},
	}

	out, err := Generate(items)
	require.NoError(t, err)

	want := `<?xml version="1.0" encoding="UTF-8"?>
<groceryList>
  <item n="1">
    <category>Meats</category>
    <name>Chicken Breast</name>
    <quantity>2</quantity>
  </item>
  <item n="2">
    <category>Pantry</category>
    <name>Salt &amp; Pepper</name>
    <quantity>1</quantity>
  </item>
</groceryList>
`
	assert.Equal(t, want, string(out))
}

func TestGenerate_EmptyList(t *testing.T) {
	opts := DefaultGenerateOptions()
	opts.IncludeXMLDeclaration = false
	opts.RootAttributes["source"] = "weekly.txt"

	out, err := GenerateWithOptions(nil, opts)
	require.NoError(t, err)
	assert.Equal(t, "<groceryList source=\"weekly.txt\"/>\n", string(out))
}

func TestEscapeXML(t *testing.T) {
	assert.Equal(t, "&lt;a href=&quot;x&quot;&gt;&apos;&amp;", escapeXML(`<a href="x">'&`))
	assert.Equal(t, "Café", escapeXML("Café"))
	assert.Equal(t, "Beans\uFFFDcanned", escapeXML("Beans\x0bcanned"))
	assert.Equal(t, "a&#x9;b", escapeXML("a\tb"))
}

func TestWriteFile_ControlCharactersReadBack(t *testing.T) {
	items := []types.GroceryItem{
		{Category: "Pantry\x00", Item: "Beans\x0bcanned", Quantity: 2},
	}
	path := filepath.Join(t.TempDir(), "list.xml")

	require.NoError(t, WriteFile(path, items))

	got, result, err := ReadItems(path)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	expected := []types.GroceryItem{
		{Category: "Pantry\uFFFD", Item: "Beans\uFFFDcanned", Quantity: 2},
	}
	assert.Equal(t, expected, got)
}

func TestWriteFileAndReadItems(t *testing.T) {
	items := []types.GroceryItem{
		{Category: "Cleaning Supplies", Item: "Bleach <large>", Quantity: 3},
		{Category: "Toiletries", Item: "Soap", Quantity: 1},
	}
	path := filepath.Join(t.TempDir(), "nested", "list.xml")

	require.NoError(t, WriteFile(path, items))

	got, result, err := ReadItems(path)
	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Equal(t, items, got)
}

func TestReadItems_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xml")
	require.NoError(t, os.WriteFile(path, []byte(`<groceryList>
  <item n="1"><category>Meats</category><name>Ham</name><quantity>two</quantity></item>
</groceryList>`), 0o644))

	items, result, err := ReadItems(path)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "integer", result.Errors[0].Rule)

	require.NoError(t, os.WriteFile(path, []byte("<groceryList>"), 0o644))
	_, _, err = ReadItems(path)
	assert.Error(t, err)
}
