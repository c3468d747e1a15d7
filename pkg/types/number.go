package types

import (
	"math"
	"strconv"
	"strings"
)

// Number is a value parsed from free text. An unparsable input yields an
// invalid Number whose Value is always 0, so range checks and sorting treat
// it as zero.
type Number struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

func validNumber(v float64) Number {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{}
	}
	return Number{Value: v, Valid: true}
}

func (n Number) InRange(r Range) bool {
	return r.Contains(n.Value)
}

// ParseLeadingFloat parses the longest numeric prefix of s, "1000 USD" -> 1000.
func ParseLeadingFloat(s string) Number {
	s = strings.TrimLeft(s, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := 0
	for end < len(s) && isDigit(s[end]) {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && isDigit(s[end]) {
			end++
			digits++
		}
	}
	if digits == 0 {
		return Number{}
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '+' || s[exp] == '-') {
			exp++
		}
		if exp < len(s) && isDigit(s[exp]) {
			for exp < len(s) && isDigit(s[exp]) {
				exp++
			}
			end = exp
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return Number{}
	}
	return validNumber(v)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// ParsePrice reads a price that may be a JSON number or text.
func ParsePrice(v any) Number {
	switch val := v.(type) {
	case string:
		return ParseLeadingFloat(val)
	default:
		return numericValue(v)
	}
}

// ParseMeasure reads power and speed values such as "50W" or "1,200 mm/s".
// Everything except digits, dots and minus signs is stripped first.
func ParseMeasure(v any) Number {
	switch val := v.(type) {
	case string:
		return ParseLeadingFloat(strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' {
				return r
			}
			return -1
		}, val))
	default:
		return numericValue(v)
	}
}

func numericValue(v any) Number {
	switch val := v.(type) {
	case float64:
		return validNumber(val)
	case float32:
		return validNumber(float64(val))
	case int:
		return validNumber(float64(val))
	case int64:
		return validNumber(float64(val))
	case int32:
		return validNumber(float64(val))
	case uint:
		return validNumber(float64(val))
	case uint64:
		return validNumber(float64(val))
	case interface{ Float64() (float64, error) }:
		f, err := val.Float64()
		if err != nil {
			return Number{}
		}
		return validNumber(f)
	}
	return Number{}
}
