// =============================================================================
// Grocery List Converter - Validation Engine
// =============================================================================
//
// This module validates grocery records at two points of the pipeline:
//   1. After parsing: every emitted record must have a category, a name and
//      a positive quantity (struct tags on types.GroceryItem)
//   2. After serialization: a CSV/XLSX output read back from disk must have
//      the fixed three-column header and well-formed rows
//
// ERROR HANDLING:
//   - Errors are collected, not returned one by one
//   - Each error carries the row number and field for troubleshooting
//   - Errors can be warnings (continue processing) or fatal (stop processing)
//
// =============================================================================

package validation

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ginjaninja78/grocery-list-converter/internal/types"
)

// =============================================================================
// SEVERITY LEVELS
// =============================================================================

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation error.
type ValidationError struct {
	// Severity indicates the severity of the error.
	// "error" = fatal, processing should stop
	// "warning" = non-fatal, processing can continue
	Severity string

	// Field is the column that failed validation ("" for whole-file problems).
	Field string

	// Value is the actual value that failed validation.
	Value string

	// Rule is the validation rule that was violated.
	Rule string

	// Message is a human-readable error message.
	Message string

	// RowNumber is the row of the record in its source (0 when not applicable).
	RowNumber int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("[%s] Row %d: %s", strings.ToUpper(e.Severity), e.RowNumber, e.Message)
	}
	return fmt.Sprintf("[%s] Row %d, Field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.RowNumber,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no fatal errors.
	IsValid bool

	// Errors contains all validation errors (including warnings).
	Errors []*ValidationError

	// ErrorCount is the number of fatal errors.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int

	// RecordsValidated is the number of records checked.
	RecordsValidated int
}

func newResult() *ValidationResult {
	return &ValidationResult{IsValid: true}
}

func (r *ValidationResult) add(e *ValidationError) {
	r.Errors = append(r.Errors, e)
	if e.Severity == SeverityWarning {
		r.WarningCount++
		return
	}
	r.ErrorCount++
	r.IsValid = false
}

// Err returns the result as an error, nil when IsValid.
func (r *ValidationResult) Err() error {
	if r.IsValid {
		return nil
	}
	return fmt.Errorf("validation failed with %d error(s)", r.ErrorCount)
}

// =============================================================================
// STRUCT VALIDATOR
// =============================================================================

var (
	engineOnce sync.Once
	engine     *validator.Validate
)

// Engine returns the shared validator instance. Field names in its errors
// come from json tags, falling back to yaml tags and then the Go name.
func Engine() *validator.Validate {
	engineOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, key := range []string{"json", "yaml"} {
				tag := fld.Tag.Get(key)
				if idx := strings.Index(tag, ","); idx >= 0 {
					tag = tag[:idx]
				}
				if tag != "" && tag != "-" {
					return tag
				}
			}
			return fld.Name
		})
		engine = v
	})
	return engine
}

// Struct validates v against its `validate` tags and converts the failures
// into ValidationErrors attributed to rowNumber.
func Struct(v any, rowNumber int) []*ValidationError {
	err := Engine().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []*ValidationError{{
			Severity:  SeverityError,
			Rule:      "struct",
			Message:   err.Error(),
			RowNumber: rowNumber,
		}}
	}

	out := make([]*ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, &ValidationError{
			Severity:  SeverityError,
			Field:     fe.Field(),
			Value:     fmt.Sprint(fe.Value()),
			Rule:      fe.Tag(),
			Message:   describeRule(fe),
			RowNumber: rowNumber,
		})
	}
	return out
}

// describeRule renders a short message for a failed tag.
func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "value is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "url":
		return "must be a valid URL"
	case "gtefield":
		return fmt.Sprintf("must not be less than %s", fe.Param())
	default:
		return fmt.Sprintf("failed '%s' check", fe.Tag())
	}
}

// =============================================================================
// RECORD VALIDATION
// =============================================================================

// ValidateItems checks parsed records. firstRow is the row number given to
// items[0]; following records are numbered consecutively. An empty slice is
// valid but carries a warning.
func ValidateItems(items []types.GroceryItem, firstRow int) *ValidationResult {
	result := newResult()

	if len(items) == 0 {
		result.add(&ValidationError{
			Severity: SeverityWarning,
			Rule:     "not_empty",
			Message:  "file contains no records",
		})
		return result
	}

	for i := range items {
		for _, ve := range Struct(items[i], firstRow+i) {
			result.add(ve)
		}
		result.RecordsValidated++
	}

	return result
}

// ValidateTable checks a serialized record table read back from disk and
// converts its rows to records.
//
// CHECKS:
//   - The header is exactly category, item, quantity
//   - The table has at least one data row
//   - Each row has a non-empty category and item
//   - Each quantity is a positive base-10 integer
//
// Rows are numbered from 2 (row 1 is the header).
func ValidateTable(headers []string, rows [][]string) ([]types.GroceryItem, *ValidationResult) {
	result := newResult()

	if !headerMatches(headers) {
		result.add(&ValidationError{
			Severity:  SeverityError,
			Rule:      "header",
			Value:     strings.Join(headers, ","),
			Message:   fmt.Sprintf("header must be %s, got %s", strings.Join(types.Columns, ","), strings.Join(headers, ",")),
			RowNumber: 1,
		})
		return nil, result
	}

	if len(rows) == 0 {
		result.add(&ValidationError{
			Severity: SeverityError,
			Rule:     "not_empty",
			Message:  "file contains no records",
		})
		return nil, result
	}

	items := make([]types.GroceryItem, 0, len(rows))
	for i, row := range rows {
		rowNumber := i + 2
		item, errs := rowToItem(row, rowNumber)
		for _, ve := range errs {
			result.add(ve)
		}
		result.RecordsValidated++
		if len(errs) == 0 {
			items = append(items, item)
		}
	}

	return items, result
}

// headerMatches compares a header row to types.Columns, ignoring surrounding
// whitespace.
func headerMatches(headers []string) bool {
	if len(headers) != len(types.Columns) {
		return false
	}
	for i, h := range headers {
		if strings.TrimSpace(h) != types.Columns[i] {
			return false
		}
	}
	return true
}

// rowToItem converts one row in Columns order.
func rowToItem(row []string, rowNumber int) (types.GroceryItem, []*ValidationError) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	item := types.GroceryItem{
		Category: cell(0),
		Item:     cell(1),
	}

	quantity, err := strconv.Atoi(cell(2))
	if err != nil {
		return item, []*ValidationError{{
			Severity:  SeverityError,
			Field:     types.ColumnQuantity,
			Value:     cell(2),
			Rule:      "integer",
			Message:   "must be an integer",
			RowNumber: rowNumber,
		}}
	}
	item.Quantity = quantity

	return item, Struct(item, rowNumber)
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats validation errors for display or logging.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d error(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}

// WriteErrorLog writes validation errors to a log file.
func WriteErrorLog(errors []*ValidationError, filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "Grocery List Converter - Validation Log\nGenerated: %s\n\n",
		time.Now().Format("2006-01-02 15:04:05"))
	writer.WriteString(FormatErrors(errors))

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush error log: %w", err)
	}
	return nil
}
