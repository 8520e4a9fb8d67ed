package pricing

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var nan = math.NaN()

// ParsePrice reads a price out of listing text such as "A$1,299.00" or
// "$24.99 now". Every rune other than a digit or '.' is dropped, then the
// longest leading decimal literal is read, so "1.299.00" yields 1.299.
// Literals too large for a float64 are rejected.
func ParsePrice(text string) (float64, bool) {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	literal := leadingDecimal(b.String())
	if literal == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(literal)
	if err != nil {
		return 0, false
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// ParsePrices keeps the parseable prices of texts in order.
func ParsePrices(texts []string) []float64 {
	out := make([]float64, 0, len(texts))
	for _, t := range texts {
		if p, ok := ParsePrice(t); ok {
			out = append(out, p)
		}
	}
	return out
}

func leadingDecimal(s string) string {
	end := 0
	seenDot := false
	digits := 0
	for end < len(s) {
		c := s[end]
		if c == '.' {
			if seenDot {
				break
			}
			seenDot = true
			end++
			continue
		}
		digits++
		end++
	}
	if digits == 0 {
		return ""
	}
	literal := strings.TrimSuffix(s[:end], ".")
	if strings.HasPrefix(literal, ".") {
		literal = "0" + literal
	}
	return literal
}
