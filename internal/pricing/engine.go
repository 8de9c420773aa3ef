package pricing

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/noah-isme/orderreport/internal/catalog"
	"github.com/noah-isme/orderreport/internal/promo"
)

// Explicit float64 conversions around products stop the compiler from
// fusing multiply-add, which would change low bits on some architectures.

// Engine computes line prices, per-customer aggregates, discounts and tax
// over one run's reference tables.
type Engine struct {
	rules  Rules
	tables catalog.Tables
}

// NewEngine builds an engine over a copy of rules.
func NewEngine(rules Rules, tables catalog.Tables) *Engine {
	return &Engine{rules: rules.Clone(), tables: tables}
}

// Rules returns a copy of the engine's rules.
func (e *Engine) Rules() Rules { return e.rules.Clone() }

// Tables returns the reference tables the engine prices against.
func (e *Engine) Tables() catalog.Tables { return e.tables }

// CurrencyRate returns the conversion multiplier for a currency code.
func (e *Engine) CurrencyRate(code string) float64 { return e.rules.CurrencyRate(code) }

// LineResult is the priced outcome of one order line. Bonus is already
// subtracted from Total and is reported for display only.
type LineResult struct {
	Total float64
	Bonus float64
}

// PriceLine resolves the base price, applies the promotion and subtracts
// the morning bonus for orders placed before the bonus hour.
func (e *Engine) PriceLine(o catalog.Order) LineResult {
	p, _ := e.tables.ProductFor(o)
	discount, _ := promo.Resolve(o.PromoCode, e.tables)
	total := discount.Apply(o.Qty, p.Price)

	var bonus float64
	if hour, ok := orderHour(o.Time); ok && hour < e.rules.MorningBonusHour {
		bonus = float64(total * e.rules.MorningBonusRate)
	}
	return LineResult{Total: total - bonus, Bonus: bonus}
}

// CustomerTotals accumulates one customer's priced lines in input order.
type CustomerTotals struct {
	CustomerID string
	Subtotal   float64
	Weight     float64
	Bonus      float64
	Items      []catalog.Order
}

// FirstOrderDate returns the date of the first aggregated line in input order.
func (t *CustomerTotals) FirstOrderDate() string {
	if t == nil || len(t.Items) == 0 {
		return ""
	}
	return t.Items[0].Date
}

// Aggregation holds per-customer totals and gross loyalty points.
type Aggregation struct {
	Totals map[string]*CustomerTotals
	Points map[string]float64
}

// CustomerIDs returns the aggregated customer ids in ascending order.
func (a Aggregation) CustomerIDs() []string {
	ids := make([]string, 0, len(a.Totals))
	for id := range a.Totals {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Aggregate groups order lines by customer. Loyalty points accrue on the
// gross line value (quantity times resolved base price), independent of
// promotions and bonuses.
func (e *Engine) Aggregate(orders []catalog.Order) Aggregation {
	agg := Aggregation{
		Totals: make(map[string]*CustomerTotals),
		Points: make(map[string]float64),
	}
	for _, o := range orders {
		p, _ := e.tables.ProductFor(o)
		qty := float64(o.Qty)
		agg.Points[o.CustomerID] += float64(qty * p.Price * e.rules.LoyaltyRatio)

		line := e.PriceLine(o)
		t, ok := agg.Totals[o.CustomerID]
		if !ok {
			t = &CustomerTotals{CustomerID: o.CustomerID}
			agg.Totals[o.CustomerID] = t
		}
		t.Subtotal += line.Total
		t.Weight += float64(p.Weight * qty)
		t.Bonus += line.Bonus
		t.Items = append(t.Items, o)
	}
	return agg
}

// orderHour reads the leading integer of the hour token of an HH:MM time.
func orderHour(value string) (int, bool) {
	token, _, _ := strings.Cut(value, ":")
	token = strings.TrimLeftFunc(token, unicode.IsSpace)
	end := 0
	if end < len(token) && (token[end] == '-' || token[end] == '+') {
		end++
	}
	digits := end
	for end < len(token) && token[end] >= '0' && token[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	hour, err := strconv.Atoi(token[:end])
	if err != nil {
		return 0, false
	}
	return hour, true
}
