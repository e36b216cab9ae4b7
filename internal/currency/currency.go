// Package currency converts between amounts and Brazilian Real display text.
package currency

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	// Symbol is the currency symbol placed before every amount.
	Symbol = "R$"

	nbsp             = "\u00a0"
	groupSeparator   = '.'
	decimalSeparator = ','
)

// Format renders v as "R$ 1.234,56" (the space is U+00A0). The amount is
// rounded to two decimals, half away from zero, on the shortest decimal
// form of v, so 1.005 renders as "R$ 1,01". NaN and infinities render as zero.
func Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	d := decimal.NewFromFloat(v).Round(2)

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + Symbol + nbsp + group(d.StringFixed(2))
}

// group inserts thousands separators into a plain "1234.56" string and swaps
// the decimal point for a comma.
func group(fixed string) string {
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.Grow(len(fixed) + len(intPart)/3)
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte(groupSeparator)
		b.WriteString(intPart[i : i+3])
	}
	b.WriteByte(decimalSeparator)
	b.WriteString(frac)
	return b.String()
}

// Parse reads currency text typed by a user or produced by Format.
// It never fails: empty or unreadable text yields 0.
//
// The first "R$" and one whitespace after it are removed, every "." is
// dropped as a thousands separator and the first "," becomes the decimal
// point. The longest numeric prefix of what remains is the value, so
// "12abc" is 12.
func Parse(text string) float64 {
	s := text
	if i := strings.Index(s, Symbol); i >= 0 {
		rest := s[i+len(Symbol):]
		if r, size := utf8.DecodeRuneInString(rest); size > 0 && unicode.IsSpace(r) {
			rest = rest[size:]
		}
		s = s[:i] + rest
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)

	v, err := strconv.ParseFloat(numericPrefix(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// numericPrefix returns the longest leading run of s that reads as a decimal
// number: optional sign, digits, an optional fraction and an optional
// exponent. Leading whitespace is skipped.
func numericPrefix(s string) string {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intDigits := digitsAt(s, i)
	i += intDigits
	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		fracDigits = digitsAt(s, i+1)
		if fracDigits > 0 || intDigits > 0 {
			i += 1 + fracDigits
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return ""
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if n := digitsAt(s, j); n > 0 {
			i = j + n
		}
	}
	return s[:i]
}

func digitsAt(s string, i int) int {
	n := 0
	for i+n < len(s) && s[i+n] >= '0' && s[i+n] <= '9' {
		n++
	}
	return n
}
