package listparser

import (
	"strconv"
	"strings"
)

// DefaultQuantity is used for item lines without a quantity token.
const DefaultQuantity = 1

// Token is a quantity marker found inside an item line.
//
// Start and End delimit the whole token (line[Start:End]), so "(2x)" includes
// both parentheses. Digits holds only the numeric part.
type Token struct {
	Start  int
	End    int
	Digits string
}

// Text returns the matched token as it appears in line.
func (t Token) Text(line string) string {
	return line[t.Start:t.End]
}

// Quantity parses the token digits as a base-10 integer. Values that do not
// fit an int, and zero, fall back to DefaultQuantity so records always carry
// a positive count.
func (t Token) Quantity() int {
	n, err := strconv.Atoi(t.Digits)
	if err != nil || n < 1 {
		return DefaultQuantity
	}
	return n
}

// FindQuantityToken returns the first quantity token in line.
//
// Two surface forms are recognised:
//
//	(12) or (2x)   a parenthesized integer with an optional x suffix
//	2x             an integer immediately followed by x
//
// Positions are scanned left to right. At each position the parenthesized
// form is tried before the bare form, and the first position that matches
// either one wins.
func FindQuantityToken(line string) (Token, bool) {
	for i := 0; i < len(line); i++ {
		if tok, ok := matchParenthesized(line, i); ok {
			return tok, true
		}
		if tok, ok := matchBare(line, i); ok {
			return tok, true
		}
	}
	return Token{}, false
}

// matchParenthesized matches "(" digits ["x"] ")" starting at i.
func matchParenthesized(line string, i int) (Token, bool) {
	if line[i] != '(' {
		return Token{}, false
	}

	end := scanDigits(line, i+1)
	if end == i+1 {
		return Token{}, false
	}
	digits := line[i+1 : end]

	if end < len(line) && line[end] == 'x' {
		end++
	}
	if end >= len(line) || line[end] != ')' {
		return Token{}, false
	}

	return Token{Start: i, End: end + 1, Digits: digits}, true
}

// matchBare matches digits "x" starting at i.
func matchBare(line string, i int) (Token, bool) {
	end := scanDigits(line, i)
	if end == i || end >= len(line) || line[end] != 'x' {
		return Token{}, false
	}
	return Token{Start: i, End: end + 1, Digits: line[i:end]}, true
}

// scanDigits returns the index just past the run of ASCII digits at i.
func scanDigits(line string, i int) int {
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	return i
}

// ExtractQuantity returns the count carried by the first quantity token in
// line, or DefaultQuantity when there is none.
func ExtractQuantity(line string) int {
	tok, ok := FindQuantityToken(line)
	if !ok {
		return DefaultQuantity
	}
	return tok.Quantity()
}

// CleanItemName removes the first quantity token from line and trims the
// result. The removed span is the same one ExtractQuantity reads.
func CleanItemName(line string) string {
	tok, ok := FindQuantityToken(line)
	if !ok {
		return strings.TrimSpace(line)
	}
	return strings.TrimSpace(line[:tok.Start] + line[tok.End:])
}
