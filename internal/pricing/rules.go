package pricing

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"sync"

	validator "github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/orderreport/internal/catalog"
	"github.com/noah-isme/orderreport/internal/shipping"
)

// ErrInvalidRules wraps every rule validation failure.
var ErrInvalidRules = errors.New("invalid pricing rules")

// VolumeTier grants Rate on the whole subtotal once it strictly exceeds
// Threshold. A non-empty Level restricts the tier to that customer level.
type VolumeTier struct {
	Threshold float64 `yaml:"threshold" json:"threshold" validate:"gte=0"`
	Rate      float64 `yaml:"rate" json:"rate" validate:"gte=0,lte=1"`
	Level     string  `yaml:"level,omitempty" json:"level,omitempty"`
}

// LoyaltyTier grants Rate on the point balance, capped at Cap, once the
// balance strictly exceeds Threshold.
type LoyaltyTier struct {
	Threshold float64 `yaml:"threshold" json:"threshold" validate:"gte=0"`
	Rate      float64 `yaml:"rate" json:"rate" validate:"gte=0,lte=1"`
	Cap       float64 `yaml:"cap" json:"cap" validate:"gte=0"`
}

// Rules is the full set of pricing constants for a run. Tier lists must be
// sorted by ascending threshold.
type Rules struct {
	TaxRate      float64 `yaml:"tax_rate" json:"tax_rate" validate:"gte=0,lte=1"`
	LoyaltyRatio float64 `yaml:"loyalty_ratio" json:"loyalty_ratio" validate:"gte=0"`
	MaxDiscount  float64 `yaml:"max_discount" json:"max_discount" validate:"gt=0"`

	MorningBonusHour int     `yaml:"morning_bonus_hour" json:"morning_bonus_hour" validate:"gte=0,lte=24"`
	MorningBonusRate float64 `yaml:"morning_bonus_rate" json:"morning_bonus_rate" validate:"gte=0,lte=1"`

	WeekendDiscountBonus float64 `yaml:"weekend_discount_bonus" json:"weekend_discount_bonus" validate:"gte=0"`

	VolumeTiers  []VolumeTier  `yaml:"volume_tiers" json:"volume_tiers" validate:"dive"`
	LoyaltyTiers []LoyaltyTier `yaml:"loyalty_tiers" json:"loyalty_tiers" validate:"dive"`

	CurrencyRates map[string]float64 `yaml:"currency_rates" json:"currency_rates" validate:"dive,keys,required,endkeys,gt=0"`

	Shipping shipping.Rules `yaml:"shipping" json:"shipping"`
}

// DefaultRules returns the reference constants.
func DefaultRules() Rules {
	return Rules{
		TaxRate:              0.2,
		LoyaltyRatio:         0.01,
		MaxDiscount:          200,
		MorningBonusHour:     10,
		MorningBonusRate:     0.03,
		WeekendDiscountBonus: 1.05,
		VolumeTiers: []VolumeTier{
			{Threshold: 50, Rate: 0.05},
			{Threshold: 100, Rate: 0.10},
			{Threshold: 500, Rate: 0.15},
			{Threshold: 1000, Rate: 0.20, Level: catalog.PremiumLevel},
		},
		LoyaltyTiers: []LoyaltyTier{
			{Threshold: 100, Rate: 0.10, Cap: 50},
			{Threshold: 500, Rate: 0.15, Cap: 100},
		},
		CurrencyRates: map[string]float64{
			"EUR": 1.0,
			"USD": 1.1,
			"GBP": 0.85,
		},
		Shipping: shipping.DefaultRules(),
	}
}

// Clone returns a deep copy.
func (r Rules) Clone() Rules {
	r.VolumeTiers = slices.Clone(r.VolumeTiers)
	r.LoyaltyTiers = slices.Clone(r.LoyaltyTiers)
	r.CurrencyRates = maps.Clone(r.CurrencyRates)
	r.Shipping = r.Shipping.Clone()
	return r
}

// CurrencyRate returns the conversion multiplier for a currency code.
// Unknown codes convert at 1.0.
func (r Rules) CurrencyRate(code string) float64 {
	if rate, ok := r.CurrencyRates[code]; ok {
		return rate
	}
	return 1.0
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func rulesValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks field ranges and tier ordering.
func (r Rules) Validate() error {
	if err := rulesValidator().Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	for i := 1; i < len(r.VolumeTiers); i++ {
		if r.VolumeTiers[i].Threshold < r.VolumeTiers[i-1].Threshold {
			return fmt.Errorf("%w: volume_tiers[%d] threshold below previous tier", ErrInvalidRules, i)
		}
	}
	for i := 1; i < len(r.LoyaltyTiers); i++ {
		if r.LoyaltyTiers[i].Threshold < r.LoyaltyTiers[i-1].Threshold {
			return fmt.Errorf("%w: loyalty_tiers[%d] threshold below previous tier", ErrInvalidRules, i)
		}
	}
	for i := 1; i < len(r.Shipping.HandlingTiers); i++ {
		if r.Shipping.HandlingTiers[i].MinItems < r.Shipping.HandlingTiers[i-1].MinItems {
			return fmt.Errorf("%w: shipping.handling_tiers[%d] below previous tier", ErrInvalidRules, i)
		}
	}
	return nil
}

// LoadRules reads a YAML rules file on top of DefaultRules. An empty path
// or a missing file yields the defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return rules, nil
		}
		return Rules{}, fmt.Errorf("read rules: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes YAML rules on top of DefaultRules and validates them.
func ParseRules(data []byte) (Rules, error) {
	rules := DefaultRules()
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parse rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

// YAML renders the rules in the file format LoadRules accepts.
func (r Rules) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}
