package promo

import (
	"errors"
	"fmt"

	"github.com/noah-isme/orderreport/internal/catalog"
)

var (
	// ErrNoCode is returned when the order line carries no promo code.
	ErrNoCode = errors.New("promotion code empty")
	// ErrUnknownCode is returned when the code is absent from the promotion table.
	ErrUnknownCode = errors.New("promotion code unknown")
	// ErrInactive is returned when the promotion is flagged inactive.
	ErrInactive = errors.New("promotion not active")
	// ErrUnsupportedKind is returned for kinds other than percentage and fixed.
	ErrUnsupportedKind = errors.New("promotion kind unsupported")
	// ErrInvalidValue is returned when the promotion value is not a decimal.
	ErrInvalidValue = errors.New("promotion value invalid")
)

// Table looks promotions up by code.
type Table interface {
	Promotion(code string) (catalog.Promotion, bool)
}

// Discount is the per-line promotion effect: a rate off the base price
// and a fixed amount off each unit.
type Discount struct {
	Rate  float64
	Fixed float64
}

// None is the zero discount.
var None = Discount{}

// Apply returns the line amount for qty units at basePrice after the discount.
func (d Discount) Apply(qty int, basePrice float64) float64 {
	q := float64(qty)
	return float64(float64(q*basePrice)*(1-d.Rate)) - float64(d.Fixed*q)
}

// Resolve validates a promo code against the table and returns its
// discount. Every failure carries a sentinel error and None; callers that
// only need the amount can ignore the error.
func Resolve(code string, table Table) (Discount, error) {
	if code == "" {
		return None, ErrNoCode
	}
	p, ok := table.Promotion(code)
	if !ok {
		return None, ErrUnknownCode
	}
	if !p.Active {
		return None, ErrInactive
	}
	switch p.Kind {
	case catalog.PromotionPercentage:
		v, err := catalog.ParseDecimal(p.Value)
		if err != nil {
			return None, fmt.Errorf("%w: %q", ErrInvalidValue, p.Value)
		}
		return Discount{Rate: v / 100}, nil
	case catalog.PromotionFixed:
		v, err := catalog.ParseDecimal(p.Value)
		if err != nil {
			return None, fmt.Errorf("%w: %q", ErrInvalidValue, p.Value)
		}
		return Discount{Fixed: v}, nil
	default:
		return None, ErrUnsupportedKind
	}
}
