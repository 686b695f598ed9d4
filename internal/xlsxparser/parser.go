// =============================================================================
// Grocery List Converter - XLSX Module
// =============================================================================
//
// This module writes grocery records to an Excel workbook and reads them back
// for verification.
//
// WORKBOOK LAYOUT:
//   Sheet "Grocery List"
//   Row 1:   category | item | quantity   (bold header)
//   Row 2..: one record per row, quantity stored as a number
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/grocery-list-converter/internal/types"
	"github.com/ginjaninja78/grocery-list-converter/internal/validation"
)

// SheetName is the name of the sheet holding the records.
const SheetName = "Grocery List"

// =============================================================================
// WRITER
// =============================================================================

// WriteFile writes items to a new workbook at path.
func WriteFile(path string, items []types.GroceryItem) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, h := range types.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, item := range items {
		r := i + 2
		set := func(col int, value any) error {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			return f.SetCellValue(SheetName, cell, value)
		}

		if err := set(1, item.Category); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i+1, err)
		}
		if err := set(2, item.Item); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i+1, err)
		}
		if err := set(3, item.Quantity); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i+1, err)
		}
	}

	_ = f.SetColWidth(SheetName, "A", "B", 28)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return f.SaveAs(path)
}

// =============================================================================
// READER
// =============================================================================

// Parse reads the header and data rows from the first sheet of a workbook.
func Parse(path string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("sheet '%s' is empty", sheetName)
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isRowEmpty(row) {
			continue
		}
		data = append(data, row)
	}

	return rows[0], data, nil
}

// ReadItems reads a workbook written by WriteFile and validates it.
func ReadItems(path string) ([]types.GroceryItem, *validation.ValidationResult, error) {
	headers, rows, err := Parse(path)
	if err != nil {
		return nil, nil, err
	}

	items, result := validation.ValidateTable(headers, rows)
	return items, result, nil
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
