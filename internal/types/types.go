// =============================================================================
// Grocery List Converter - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - listparser  (produces GroceryItem records)
//   - csvparser, xlsxparser, xmlwriter (serialize them)
//   - validation  (checks them)
//   - store, formserver, submitter (replay and persist them)
//
// =============================================================================

package types

import "strconv"

// Column names of the serialized record, in their fixed output order.
const (
	ColumnCategory = "category"
	ColumnItem     = "item"
	ColumnQuantity = "quantity"
)

// Columns is the fixed header ordering for every tabular output.
var Columns = []string{ColumnCategory, ColumnItem, ColumnQuantity}

// =============================================================================
// RECORD TYPES
// =============================================================================

// GroceryItem is one normalized record: the category it was listed under, the
// cleaned item name and its quantity.
type GroceryItem struct {
	// Category is the label of the header line the item appeared under.
	Category string `json:"category" validate:"required"`

	// Item is the item name with the quantity token and bullet dots removed.
	Item string `json:"item" validate:"required"`

	// Quantity is always a positive integer. It defaults to 1 when the line
	// carries no quantity token.
	Quantity int `json:"quantity" validate:"min=1"`
}

// Row returns the record as string fields in Columns order.
func (g GroceryItem) Row() []string {
	return []string{g.Category, g.Item, strconv.Itoa(g.Quantity)}
}
