package pricing

import (
	"math"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006/01/02",
	"01/02/2006",
}

// Discounts is the capped split between volume and loyalty discount.
type Discounts struct {
	Volume  float64
	Loyalty float64
	Total   float64
}

// VolumeDiscount scans the volume tiers in ascending order; every tier whose
// threshold is exceeded (and whose level matches, when set) overwrites the
// amount, so the highest qualifying tier wins. A first order placed on a
// weekend multiplies the result by the weekend bonus.
func (e *Engine) VolumeDiscount(subtotal float64, level, firstOrderDate string) float64 {
	var disc float64
	for _, tier := range e.rules.VolumeTiers {
		if tier.Level != "" && tier.Level != level {
			continue
		}
		if subtotal > tier.Threshold {
			disc = subtotal * tier.Rate
		}
	}
	if IsWeekend(firstOrderDate) {
		disc *= e.rules.WeekendDiscountBonus
	}
	return disc
}

// LoyaltyDiscount applies the highest loyalty tier exceeded by points,
// capped by that tier's cap.
func (e *Engine) LoyaltyDiscount(points float64) float64 {
	var disc float64
	for _, tier := range e.rules.LoyaltyTiers {
		if points > tier.Threshold {
			disc = math.Min(points*tier.Rate, tier.Cap)
		}
	}
	return disc
}

// ApplyCap passes both discounts through when their sum is within the
// maximum. Otherwise both are scaled by the same ratio so they sum to the
// maximum.
func (e *Engine) ApplyCap(volume, loyalty float64) Discounts {
	total := volume + loyalty
	if total <= e.rules.MaxDiscount {
		return Discounts{Volume: volume, Loyalty: loyalty, Total: total}
	}
	scaled := Scale([]float64{volume, loyalty}, total, e.rules.MaxDiscount)
	return Discounts{Volume: scaled[0], Loyalty: scaled[1], Total: e.rules.MaxDiscount}
}

// IsWeekend reports whether a date falls on Saturday or Sunday. An empty
// date counts as Sunday; an unparseable date never counts.
func IsWeekend(date string) bool {
	if date == "" {
		return true
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, date)
		if err != nil {
			continue
		}
		wd := t.Weekday()
		return wd == time.Saturday || wd == time.Sunday
	}
	return false
}
