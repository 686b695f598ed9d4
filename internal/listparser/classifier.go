package listparser

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// headerKeywords is the closed set of substrings that mark a category header.
// Matching is plain substring containment on the lowercased line, so an item
// such as "pantry moths trap" is also read as a header.
var headerKeywords = []string{
	"meats",
	"pantry",
	"seasonings",
	"cleaning supplies",
	"toiletries",
	"miscellaneous",
	"bagged lunch",
}

// headerRule identifies which classifier rule recognised a header line.
type headerRule int

const (
	ruleNone headerRule = iota
	ruleTrailingDash
	ruleKeyword
)

// IsHeader reports whether a trimmed line is a category header.
func IsHeader(line string) bool {
	return classify(line) != ruleNone
}

// classify applies the header rules in order; the first match wins.
func classify(line string) headerRule {
	if strings.HasSuffix(line, "-") {
		return ruleTrailingDash
	}

	// A Caser holds state; one per call.
	lower := cases.Lower(language.Und).String(line)
	for _, keyword := range headerKeywords {
		if strings.Contains(lower, keyword) {
			return ruleKeyword
		}
	}

	return ruleNone
}

// NormalizeCategory turns a header line into a category label.
//
// A line made only of dashes collapses to "". A header recognised by its
// trailing dash loses the dash run and surrounding whitespace ("Meats -"
// becomes "Meats"). Any other header is only trimmed.
func NormalizeCategory(line string) string {
	line = strings.TrimSpace(line)

	if classify(line) == ruleTrailingDash {
		return strings.TrimSpace(strings.TrimRight(line, "-"))
	}

	return line
}
