package pricing

import (
	"math"
	"math/big"
	"strings"
)

// Round2 rounds to two decimals, halves toward positive infinity.
func Round2(v float64) float64 {
	return roundHalfUp(float64(v*100)) / 100
}

func roundHalfUp(v float64) float64 {
	f := math.Floor(v)
	if v-f >= 0.5 {
		return f + 1
	}
	return f
}

// FormatFixed renders v with exactly digits decimals. The exact binary
// value of v is rounded half away from zero, so 0.125 renders as "0.13"
// while 1.005 (stored just below) renders as "1.00".
func FormatFixed(v float64, digits int) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if math.IsInf(v, 0) {
		if v < 0 {
			return "-Infinity"
		}
		return "Infinity"
	}
	neg := v < 0
	r := new(big.Rat).SetFloat64(math.Abs(v))
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	r.Mul(r, new(big.Rat).SetInt(scale))
	r.Add(r, big.NewRat(1, 2))
	n := new(big.Int).Quo(r.Num(), r.Denom())

	s := n.String()
	if digits > 0 {
		if len(s) <= digits {
			s = strings.Repeat("0", digits-len(s)+1) + s
		}
		s = s[:len(s)-digits] + "." + s[len(s)-digits:]
	}
	if neg {
		s = "-" + s
	}
	return s
}

// Scale redistributes target across parts in proportion to base: each part
// is multiplied by target/base. A zero base yields zero parts.
func Scale(parts []float64, base, target float64) []float64 {
	out := make([]float64, len(parts))
	if base == 0 {
		return out
	}
	ratio := target / base
	for i, p := range parts {
		out[i] = p * ratio
	}
	return out
}
