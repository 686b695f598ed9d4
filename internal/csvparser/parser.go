// =============================================================================
// Grocery List Converter - CSV Module
// =============================================================================
//
// This module writes grocery records as CSV and reads them back.
//
// FORMAT:
//   category,item,quantity
//   Meats,Chicken Breast,2
//   Pantry,"Beans, canned",3
//
//   - The header row is always category, item, quantity in that order
//   - Values are written verbatim; encoding/csv adds quotes when a value
//     contains a comma, a quote or a newline
//   - Quantity is written as its decimal representation
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/grocery-list-converter/internal/types"
	"github.com/ginjaninja78/grocery-list-converter/internal/validation"
)

// =============================================================================
// CSV DATA STRUCTURE
// =============================================================================

// CSVData represents a parsed CSV file.
type CSVData struct {
	// Headers contains the column headers from the first row.
	Headers []string

	// Rows contains the data rows in file order, empty rows removed.
	Rows [][]string

	// SourceFile is the path to the source CSV file ("" for readers).
	SourceFile string

	// RowCount is the total number of data rows (excluding the header).
	RowCount int
}

// =============================================================================
// WRITER
// =============================================================================

// Write serializes items to w with the fixed header row.
func Write(w io.Writer, items []types.GroceryItem) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(types.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, item := range items {
		if err := writer.Write(item.Row()); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile serializes items to a new file at path, creating parent
// directories as needed.
func WriteFile(path string, items []types.GroceryItem) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	buffered := bufio.NewWriter(file)
	if err := Write(buffered, items); err != nil {
		file.Close()
		return err
	}
	if err := buffered.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("failed to flush file: %w", err)
	}

	return file.Close()
}

// =============================================================================
// READER
// =============================================================================

// Parse reads a CSV file from disk.
func Parse(filePath string) (*CSVData, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := ParseReader(bufio.NewReader(file))
	if err != nil {
		return nil, err
	}
	data.SourceFile = filePath

	return data, nil
}

// ParseReader reads CSV content from r. The first row is the header.
func ParseReader(r io.Reader) (*CSVData, error) {
	csvReader := csv.NewReader(r)
	configureReader(csvReader)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	headers := cleanHeaders(allRows[0])

	rows := make([][]string, 0, len(allRows)-1)
	for _, row := range allRows[1:] {
		if isRowEmpty(row) {
			continue
		}
		rows = append(rows, row)
	}

	return &CSVData{
		Headers:  headers,
		Rows:     rows,
		RowCount: len(rows),
	}, nil
}

// ReadItems reads a CSV file written by Write and validates it.
//
// RETURNS:
//   - The records that passed validation, in file order.
//   - The validation result (check IsValid).
//   - An error if the file cannot be read.
func ReadItems(filePath string) ([]types.GroceryItem, *validation.ValidationResult, error) {
	data, err := Parse(filePath)
	if err != nil {
		return nil, nil, err
	}

	items, result := validation.ValidateTable(data.Headers, data.Rows)
	return items, result, nil
}

// configureReader configures the CSV reader for record files.
func configureReader(reader *csv.Reader) {
	reader.Comma = ','

	// Allow variable number of fields per row; short rows are reported by
	// validation instead of aborting the read.
	reader.FieldsPerRecord = -1

	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// cleanHeaders trims header values and strips a UTF-8 byte order mark.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		if i == 0 {
			header = strings.TrimPrefix(header, "\ufeff")
		}
		cleaned[i] = strings.TrimSpace(header)
	}

	return cleaned
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
