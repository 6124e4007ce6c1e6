package expr

import (
	"math"
	"strconv"
	"strings"
)

const (
	charSpace    = ' '
	charEq       = '='
	charDblQuote = '"'
)

// AutoConvert turns a non-formula string into the primitive it spells.
// Whitespace-only input, NaN and infinities stay strings.
func AutoConvert(input string) any {
	t := strings.TrimSpace(input)

	if len(t) >= 2 && t[0] == charDblQuote && t[len(t)-1] == charDblQuote {
		return t[1 : len(t)-1]
	}

	switch t {
	case "true":
		return true
	case "false":
		return false
	case "":
		return input
	}

	if v, err := strconv.ParseFloat(t, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		return v
	}

	return input
}

// expressionSource returns the formula text following a leading '=' that is
// preceded only by spaces.
func expressionSource(input string) (string, bool) {
	for i := 0; i < len(input); i++ {
		switch input[i] {
		case charEq:
			return input[i+1:], true
		case charSpace:
			continue
		default:
			return "", false
		}
	}
	return "", false
}

// IsFormula reports whether a field string is compiled as a formula.
func IsFormula(input string) bool {
	_, ok := expressionSource(input)
	return ok
}
