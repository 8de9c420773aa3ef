package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultRulesValid(t *testing.T) {
	require.NoError(t, DefaultRules().Validate())
}

func TestCurrencyRate(t *testing.T) {
	r := DefaultRules()
	require.Equal(t, 1.0, r.CurrencyRate("EUR"))
	require.Equal(t, 1.1, r.CurrencyRate("USD"))
	require.Equal(t, 0.85, r.CurrencyRate("GBP"))
	require.Equal(t, 1.0, r.CurrencyRate("XXX"))
	require.Equal(t, 1.0, r.CurrencyRate(""))
}

func TestParseRulesOverlaysDefaults(t *testing.T) {
	rules, err := ParseRules([]byte(`
tax_rate: 0.1
currency_rates:
  CHF: 0.95
volume_tiers:
  - threshold: 10
    rate: 0.02
shipping:
  handling_fee: 3
`))
	require.NoError(t, err)
	require.Equal(t, 0.1, rules.TaxRate)
	require.Equal(t, []VolumeTier{{Threshold: 10, Rate: 0.02}}, rules.VolumeTiers)
	require.Equal(t, 0.95, rules.CurrencyRate("CHF"))
	require.Equal(t, 1.1, rules.CurrencyRate("USD"))
	require.Equal(t, 3.0, rules.Shipping.HandlingFee)
	require.Equal(t, 50.0, rules.Shipping.FreeThreshold)
	require.Equal(t, DefaultRules().LoyaltyTiers, rules.LoyaltyTiers)
}

func TestParseRulesRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"rate above one":      "tax_rate: 1.5",
		"non positive cap":    "max_discount: 0",
		"descending tiers":    "volume_tiers: [{threshold: 100, rate: 0.1}, {threshold: 50, rate: 0.05}]",
		"zero currency rate":  "currency_rates: {JPY: 0}",
		"handling descending": "shipping: {handling_tiers: [{min_items: 20, multiplier: 2}, {min_items: 10, multiplier: 1}]}",
	}
	for name, doc := range cases {
		_, err := ParseRules([]byte(doc))
		require.ErrorIs(t, err, ErrInvalidRules, name)
	}

	_, err := ParseRules([]byte("tax_rate: [oops"))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidRules)
}

func TestLoadRules(t *testing.T) {
	rules, err := LoadRules("")
	require.NoError(t, err)
	require.Equal(t, DefaultRules(), rules)

	rules, err = LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultRules(), rules)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_discount: 150\n"), 0o600))
	rules, err = LoadRules(path)
	require.NoError(t, err)
	require.Equal(t, 150.0, rules.MaxDiscount)
}

func TestRulesYAMLRoundTrip(t *testing.T) {
	data, err := DefaultRules().YAML()
	require.NoError(t, err)
	parsed, err := ParseRules(data)
	require.NoError(t, err)
	require.Equal(t, DefaultRules(), parsed)
}

func TestEngineCopiesRules(t *testing.T) {
	rules := DefaultRules()
	e := NewEngine(rules, fixtureTables())
	rules.VolumeTiers[0].Rate = 0.9
	rules.CurrencyRates["USD"] = 9

	require.Equal(t, 3.0, e.VolumeDiscount(60, "BASIC", tuesday))
	require.Equal(t, 1.1, e.CurrencyRate("USD"))
}
