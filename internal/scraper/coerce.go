package scraper

import (
	"math"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/webschema/internal/document"
	"github.com/GriffinCanCode/webschema/internal/schema"
)

// coerce converts a query result to the Go value of a property type:
// string -> string, integer -> int64, float -> float64, node -> *document.Result.
func coerce(t schema.Type, res *document.Result) any {
	switch t {
	case schema.TypeInteger:
		return ParseInt(res.Text())
	case schema.TypeFloat:
		return ParseFloat(res.Text())
	case schema.TypeNode:
		return res
	default:
		return strings.TrimSpace(res.Text())
	}
}

// ParseInt reads the leading integer of s and ignores the rest. Leading whitespace, a
// sign, and underscores between digits are accepted. Text without a leading integer
// yields 0; values beyond int64 saturate.
func ParseInt(s string) int64 {
	i := skipSpace(s, 0)

	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}

	digits, _ := scanDigits(s, i)
	if digits == "" {
		return 0
	}

	v, err := strconv.ParseUint(digits, 10, 64)
	if neg {
		if err != nil || v >= 1<<63 {
			return math.MinInt64
		}
		return -int64(v)
	}
	if err != nil || v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

// ParseFloat reads the leading decimal number of s (optional fraction and exponent)
// and ignores the rest. Text without a leading number yields 0.
func ParseFloat(s string) float64 {
	i := skipSpace(s, 0)

	var num strings.Builder
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		num.WriteByte(s[i])
		i++
	}

	whole, i := scanDigits(s, i)
	num.WriteString(whole)

	var frac string
	if i+1 < len(s) && s[i] == '.' && isDigit(s[i+1]) {
		frac, i = scanDigits(s, i+1)
		num.WriteByte('.')
		num.WriteString(frac)
	}
	if whole == "" && frac == "" {
		return 0
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		sign := ""
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			sign = s[j : j+1]
			j++
		}
		if exp, _ := scanDigits(s, j); exp != "" {
			num.WriteString("e" + sign + exp)
		}
	}

	// out of range values come back as ±Inf, which is what we want
	v, _ := strconv.ParseFloat(num.String(), 64)
	return v
}

func skipSpace(s string, i int) int {
	for i < len(s) {
		switch s[i] {
		case ' ', '\t', '\n', '\v', '\f', '\r':
			i++
		default:
			return i
		}
	}
	return i
}

// scanDigits collects a run of digits starting at i, dropping single underscores
// that sit between two digits.
func scanDigits(s string, i int) (string, int) {
	var b strings.Builder
	for i < len(s) {
		c := s[i]
		if isDigit(c) {
			b.WriteByte(c)
			i++
			continue
		}
		if c == '_' && b.Len() > 0 && i+1 < len(s) && isDigit(s[i+1]) {
			i++
			continue
		}
		break
	}
	return b.String(), i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
