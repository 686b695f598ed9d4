// =============================================================================
// Grocery List Converter - List Parser
// =============================================================================
//
// This package turns a hand-written grocery list into GroceryItem records.
//
// INPUT FORMAT:
//   Meats -                 <- header (trailing dash)
//   .Chicken Breast (2x)    <- item, dot bullet, quantity 2
//   Ground Beef             <- item, quantity 1
//   .                       <- separator, ignored
//   Pantry                  <- header (keyword)
//   3x Canned Beans         <- item, quantity 3
//
// PARSING PROCESS:
//   1. Split the text into lines, trim them and drop blank ones
//   2. Walk the lines in order carrying the current category
//   3. Header lines replace the current category
//   4. Item lines under a category become one record each
//
// The parser performs no I/O and never fails: lines it cannot use are
// skipped and reported in Result.Skipped.
//
// =============================================================================

package listparser

import (
	"strings"

	"github.com/ginjaninja78/grocery-list-converter/internal/types"
)

// =============================================================================
// INPUT AND STATE
// =============================================================================

// Line is one non-blank input line with its 1-based position in the source.
type Line struct {
	Number int
	Text   string
}

// State is the running state of a single parse: the category that item lines
// are currently assigned to. An empty Category means no header has been seen
// yet (or the last header normalized to an empty label).
type State struct {
	Category string
}

// InCategory reports whether item lines are currently being collected.
func (s *State) InCategory() bool {
	return s.Category != ""
}

// =============================================================================
// RESULT
// =============================================================================

// SkipReason explains why a line produced no record.
type SkipReason string

const (
	SkipSeparator  SkipReason = "separator"
	SkipNoCategory SkipReason = "no_category"
	SkipEmptyItem  SkipReason = "empty_item"
)

// SkippedLine is an item line the driver dropped.
type SkippedLine struct {
	Line   Line
	Reason SkipReason
}

// Result holds the records emitted by one parse, in input order.
type Result struct {
	// Items are the emitted records. Their order is the order of the source
	// lines and must be preserved by every consumer.
	Items []types.GroceryItem

	// Skipped lists the lines that were dropped, with the reason.
	Skipped []SkippedLine

	// Headers is the number of header lines seen.
	Headers int
}

// Categories returns the distinct category labels in first-seen order.
func (r *Result) Categories() []string {
	seen := make(map[string]bool)
	var categories []string

	for _, item := range r.Items {
		if !seen[item.Category] {
			seen[item.Category] = true
			categories = append(categories, item.Category)
		}
	}

	return categories
}

func (r *Result) skip(line Line, reason SkipReason) {
	r.Skipped = append(r.Skipped, SkippedLine{Line: line, Reason: reason})
}

// CategoryCounts returns the number of records per category label.
func (r *Result) CategoryCounts() map[string]int {
	counts := make(map[string]int)
	for _, item := range r.Items {
		counts[item.Category]++
	}
	return counts
}

// =============================================================================
// PARSE DRIVER
// =============================================================================

// SplitLines splits text on newlines, trims every line and drops blank ones.
// Each kept line remembers its 1-based position in text.
func SplitLines(text string) []Line {
	raw := strings.Split(text, "\n")
	lines := make([]Line, 0, len(raw))

	for i, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		lines = append(lines, Line{Number: i + 1, Text: s})
	}

	return lines
}

// ParseText parses a whole list held in memory.
func ParseText(text string) *Result {
	return ParseLines(SplitLines(text))
}

// Parse parses raw lines, numbering them from 1.
func Parse(lines []string) *Result {
	numbered := make([]Line, 0, len(lines))
	for i, s := range lines {
		numbered = append(numbered, Line{Number: i + 1, Text: s})
	}
	return ParseLines(numbered)
}

// ParseLines runs the driver over already split lines. Every call owns a
// fresh State, so concurrent calls never share anything.
func ParseLines(lines []Line) *Result {
	result := &Result{Items: []types.GroceryItem{}}
	state := &State{}

	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}

		if isSeparator(text) {
			result.skip(line, SkipSeparator)
			continue
		}

		if IsHeader(text) {
			state.Category = NormalizeCategory(text)
			result.Headers++
			continue
		}

		if !state.InCategory() {
			result.skip(line, SkipNoCategory)
			continue
		}

		item, ok := parseItem(text, state.Category)
		if !ok {
			result.skip(line, SkipEmptyItem)
			continue
		}
		result.Items = append(result.Items, item)
	}

	return result
}

// parseItem builds a record from an item line under category.
func parseItem(text, category string) (types.GroceryItem, bool) {
	text = stripBullet(text)
	if text == "" {
		return types.GroceryItem{}, false
	}

	name := CleanItemName(text)
	if name == "" {
		return types.GroceryItem{}, false
	}

	return types.GroceryItem{
		Category: category,
		Item:     name,
		Quantity: ExtractQuantity(text),
	}, true
}

// isSeparator reports whether a trimmed line is pure decoration.
func isSeparator(text string) bool {
	return text == "." || strings.TrimSpace(text) == ""
}

// stripBullet removes a leading run of dots and the whitespace after it.
func stripBullet(text string) string {
	return strings.TrimSpace(strings.TrimLeft(text, "."))
}
