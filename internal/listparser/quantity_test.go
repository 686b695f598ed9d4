package listparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindQuantityToken(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		found  bool
		token  string
		digits string
	}{
		{name: "parenthesized with x", line: "Chicken Breast (2x)", found: true, token: "(2x)", digits: "2"},
		{name: "parenthesized", line: "Eggs (12)", found: true, token: "(12)", digits: "12"},
		{name: "bare", line: "2x Avocado", found: true, token: "2x", digits: "2"},
		{name: "bare glued to word", line: "Limes 10x", found: true, token: "10x", digits: "10"},
		{name: "first occurrence wins", line: "Soda 3x (2x)", found: true, token: "3x", digits: "3"},
		{name: "parenthesized before later bare", line: "Milk (2x) 3x", found: true, token: "(2x)", digits: "2"},
		{name: "bare inside unclosed parenthesis", line: "Water (6x pack)", found: true, token: "6x", digits: "6"},
		{name: "no closing parenthesis", line: "Water (24 pack)", found: false},
		{name: "no digits", line: "Batteries (x)", found: false},
		{name: "uppercase x is not a marker", line: "AA 10X", found: false},
		{name: "plain", line: "Olive Oil", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, ok := FindQuantityToken(tt.line)
			require.Equal(t, tt.found, ok)
			if !tt.found {
				return
			}
			assert.Equal(t, tt.token, tok.Text(tt.line))
			assert.Equal(t, tt.digits, tok.Digits)
		})
	}
}

func TestFindQuantityToken_Span(t *testing.T) {
	tok, ok := FindQuantityToken("a1b23x")
	require.True(t, ok)
	assert.Equal(t, 3, tok.Start)
	assert.Equal(t, 6, tok.End)
}

func TestExtractQuantityAndCleanItemName(t *testing.T) {
	tests := []struct {
		line     string
		quantity int
		name     string
	}{
		{line: "Chicken Breast (2x)", quantity: 2, name: "Chicken Breast"},
		{line: "Eggs (12)", quantity: 12, name: "Eggs"},
		{line: "3x Canned Beans", quantity: 3, name: "Canned Beans"},
		{line: "Olive Oil", quantity: 1, name: "Olive Oil"},
		{line: "Milk (2x) 3x", quantity: 2, name: "Milk  3x"},
		{line: "Rice (99999999999999999999x)", quantity: 1, name: "Rice"},
		{line: "Napkins (0)", quantity: 1, name: "Napkins"},
		{line: "12x", quantity: 12, name: ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.quantity, ExtractQuantity(tt.line))
			assert.Equal(t, tt.name, CleanItemName(tt.line))
		})
	}
}

func TestCleanItemName_RemovesExtractedSpan(t *testing.T) {
	line := "Soda 3x (2x)"

	tok, ok := FindQuantityToken(line)
	require.True(t, ok)

	assert.Equal(t, 3, ExtractQuantity(line))
	assert.Equal(t, "Soda  (2x)", CleanItemName(line))
	assert.Equal(t, "3x", tok.Text(line))
}
