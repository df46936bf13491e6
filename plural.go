package msgformat

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/feature/plural"
)

// pluralCategory resolves the CLDR plural category keyword for the operand
// under the compiled message's locale.
func (c *CompiledMessage) pluralCategory(ordinal bool, operand float64) string {
	rules := plural.Cardinal
	if ordinal {
		rules = plural.Ordinal
	}

	i, v, w, f, t := pluralOperands(operand)
	return categoryKeyword(rules.MatchPlural(c.tag, i, v, w, f, t))
}

// pluralOperands derives the CLDR plural operands (i, v, w, f, t) from a
// numeric value. Trailing zeros are not recoverable from float64, so v==w
// and f==t.
func pluralOperands(n float64) (i, v, w, f, t int) {
	n = math.Abs(n)
	i = int(n)

	formatted := strconv.FormatFloat(n, 'f', -1, 64)
	if idx := strings.IndexByte(formatted, '.'); idx >= 0 {
		fraction := formatted[idx+1:]
		v = len(fraction)
		w = v
		if parsed, err := strconv.Atoi(fraction); err == nil {
			f = parsed
			t = parsed
		}
	}
	return i, v, w, f, t
}

func categoryKeyword(form plural.Form) string {
	switch form {
	case plural.Zero:
		return "zero"
	case plural.One:
		return "one"
	case plural.Two:
		return "two"
	case plural.Few:
		return "few"
	case plural.Many:
		return "many"
	default:
		return "other"
	}
}
