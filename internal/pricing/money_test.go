package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{10.556, 10.56},
		{10.554, 10.55},
		{0, 0},
		{1.005, 1.00},
		{2.675, 2.68},
		{0.125, 0.13},
		{-0.025, -0.02},
		{108, 108},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Round2(tc.in), "Round2(%v)", tc.in)
	}
}

func TestFormatFixed(t *testing.T) {
	cases := []struct {
		in     float64
		digits int
		want   string
	}{
		{108, 2, "108.00"},
		{0, 2, "0.00"},
		{0.125, 2, "0.13"},
		{1.005, 2, "1.00"},
		{0.05, 2, "0.05"},
		{12.25, 1, "12.3"},
		{2.5, 0, "3"},
		{-3.14159, 2, "-3.14"},
		{-0.001, 2, "-0.00"},
		{1234567.891, 2, "1234567.89"},
		{3, 1, "3.0"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, FormatFixed(tc.in, tc.digits), "FormatFixed(%v, %d)", tc.in, tc.digits)
	}
}

func TestScale(t *testing.T) {
	out := Scale([]float64{120, 180}, 300, 200)
	require.InDelta(t, 80, out[0], 1e-10)
	require.InDelta(t, 120, out[1], 1e-10)

	require.Equal(t, []float64{0, 0}, Scale([]float64{5, 7}, 0, 100))
	require.Empty(t, Scale(nil, 10, 5))
}
