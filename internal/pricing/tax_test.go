package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/orderreport/internal/catalog"
)

func TestTaxAllTaxable(t *testing.T) {
	e := NewEngine(DefaultRules(), fixtureTables())
	items := []catalog.Order{order("O1", "C1", "P1", 2, 0)}

	require.Equal(t, 20.0, e.Tax(items, 100))
	require.Zero(t, e.Tax(items, 0))
	require.Equal(t, 6.67, e.Tax(items, 33.33))
}

func TestTaxUnknownProductCountsAsTaxable(t *testing.T) {
	e := NewEngine(DefaultRules(), fixtureTables())
	items := []catalog.Order{
		order("O1", "C1", "P1", 1, 0),
		order("O2", "C1", "PX", 1, 40),
	}
	require.Equal(t, 24.69, e.Tax(items, 123.45))
}

func TestTaxMixed(t *testing.T) {
	e := NewEngine(DefaultRules(), fixtureTables())

	single := []catalog.Order{
		order("O1", "C1", "P1", 1, 0),
		order("O2", "C1", "P2", 1, 0),
	}
	require.Equal(t, 20.0, e.Tax(single, 100))

	discounted := []catalog.Order{
		order("O1", "C1", "P1", 1, 0),
		order("O2", "C1", "P3", 2, 0),
		order("O3", "C1", "P2", 3, 0),
	}
	require.Equal(t, 36.0, e.Tax(discounted, 180))

	withUnknown := []catalog.Order{
		order("O1", "C1", "PX", 1, 40),
		order("O2", "C1", "P2", 1, 0),
	}
	require.Equal(t, 8.0, e.Tax(withUnknown, 40))
}

func TestTaxNothingTaxable(t *testing.T) {
	e := NewEngine(DefaultRules(), fixtureTables())
	items := []catalog.Order{order("O1", "C1", "P2", 4, 0)}
	require.Zero(t, e.Tax(items, 200))
}

func TestTaxBranchesAgree(t *testing.T) {
	e := NewEngine(DefaultRules(), fixtureTables())
	taxableOnly := []catalog.Order{
		order("O1", "C1", "P1", 3, 0),
		order("O2", "C1", "P3", 1, 0),
	}
	mixed := append([]catalog.Order{order("O0", "C1", "P2", 1, 0)}, taxableOnly...)

	for _, taxable := range []float64{350, 297.5, 123.4} {
		require.InDelta(t, e.Tax(taxableOnly, taxable), e.Tax(mixed, taxable), 0.011, "taxable %v", taxable)
	}
}
