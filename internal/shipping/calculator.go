package shipping

import (
	"slices"

	"github.com/noah-isme/orderreport/internal/catalog"
)

// HandlingTier charges Multiplier handling fees once the item count
// strictly exceeds MinItems.
type HandlingTier struct {
	MinItems   int     `yaml:"min_items" json:"min_items" validate:"gte=0"`
	Multiplier float64 `yaml:"multiplier" json:"multiplier" validate:"gte=0"`
}

// Rules holds the shipping and handling constants.
type Rules struct {
	FreeThreshold float64 `yaml:"free_threshold" json:"free_threshold" validate:"gte=0"`

	HeavyWeightThreshold float64 `yaml:"heavy_weight_threshold" json:"heavy_weight_threshold" validate:"gte=0"`
	HeavyPerKg           float64 `yaml:"heavy_per_kg" json:"heavy_per_kg" validate:"gte=0"`

	BaseWeightThreshold         float64 `yaml:"base_weight_threshold" json:"base_weight_threshold" validate:"gte=0"`
	IntermediateWeightThreshold float64 `yaml:"intermediate_weight_threshold" json:"intermediate_weight_threshold" validate:"gte=0,ltefield=BaseWeightThreshold"`
	IntermediatePerKg           float64 `yaml:"intermediate_per_kg" json:"intermediate_per_kg" validate:"gte=0"`

	RemoteZones      []string `yaml:"remote_zones" json:"remote_zones"`
	RemoteMultiplier float64  `yaml:"remote_multiplier" json:"remote_multiplier" validate:"gte=0"`

	FallbackBase  float64 `yaml:"fallback_base" json:"fallback_base" validate:"gte=0"`
	FallbackPerKg float64 `yaml:"fallback_per_kg" json:"fallback_per_kg" validate:"gte=0"`

	HandlingFee   float64        `yaml:"handling_fee" json:"handling_fee" validate:"gte=0"`
	HandlingTiers []HandlingTier `yaml:"handling_tiers" json:"handling_tiers" validate:"dive"`
}

// DefaultRules returns the reference shipping constants.
func DefaultRules() Rules {
	return Rules{
		FreeThreshold:               50,
		HeavyWeightThreshold:        20,
		HeavyPerKg:                  0.25,
		BaseWeightThreshold:         10,
		IntermediateWeightThreshold: 5,
		IntermediatePerKg:           0.3,
		RemoteZones:                 []string{"ZONE3", "ZONE4"},
		RemoteMultiplier:            1.2,
		FallbackBase:                5.0,
		FallbackPerKg:               catalog.DefaultPerKg,
		HandlingFee:                 2.5,
		HandlingTiers: []HandlingTier{
			{MinItems: 10, Multiplier: 1},
			{MinItems: 20, Multiplier: 2},
		},
	}
}

// Clone returns a deep copy.
func (r Rules) Clone() Rules {
	r.RemoteZones = slices.Clone(r.RemoteZones)
	r.HandlingTiers = slices.Clone(r.HandlingTiers)
	return r
}

// Calculator prices shipping and handling for one customer.
type Calculator struct {
	rules Rules
	zones map[string]catalog.ShippingZone
}

// NewCalculator builds a calculator over a copy of rules and the zone table.
func NewCalculator(rules Rules, zones map[string]catalog.ShippingZone) *Calculator {
	if zones == nil {
		zones = map[string]catalog.ShippingZone{}
	}
	return &Calculator{rules: rules.Clone(), zones: zones}
}

// Zone resolves a zone id, falling back to the default base and rate.
func (c *Calculator) Zone(id string) catalog.ShippingZone {
	if z, ok := c.zones[id]; ok {
		return z
	}
	return catalog.ShippingZone{ID: id, Base: c.rules.FallbackBase, PerKg: c.rules.FallbackPerKg}
}

// Cost returns the shipping charge for a customer subtotal and total weight.
// Subtotals at or above the free threshold only pay the heavy parcel
// surcharge. Remote zones are marked up whichever branch applied.
func (c *Calculator) Cost(subtotal, weight float64, zoneID string) float64 {
	r := c.rules
	var ship float64
	if subtotal >= r.FreeThreshold {
		if weight > r.HeavyWeightThreshold {
			ship = (weight - r.HeavyWeightThreshold) * r.HeavyPerKg
		}
	} else {
		z := c.Zone(zoneID)
		ship = z.Base
		switch {
		case weight > r.BaseWeightThreshold:
			ship = z.Base + float64((weight-r.BaseWeightThreshold)*z.PerKg)
		case weight > r.IntermediateWeightThreshold:
			ship = z.Base + float64((weight-r.IntermediateWeightThreshold)*r.IntermediatePerKg)
		}
	}
	if c.IsRemote(zoneID) {
		ship *= r.RemoteMultiplier
	}
	return ship
}

// IsRemote reports whether the zone carries the remote multiplier.
func (c *Calculator) IsRemote(zoneID string) bool {
	return slices.Contains(c.rules.RemoteZones, zoneID)
}

// Handling returns the handling fee for the number of order lines. Tiers
// are scanned in ascending order and the last one exceeded wins.
func (c *Calculator) Handling(itemCount int) float64 {
	var fee float64
	for _, tier := range c.rules.HandlingTiers {
		if itemCount > tier.MinItems {
			fee = c.rules.HandlingFee * tier.Multiplier
		}
	}
	return fee
}
