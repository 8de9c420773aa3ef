package catalog

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Source names used in diagnostics.
const (
	SourceCustomers  = "customers"
	SourceProducts   = "products"
	SourceZones      = "shipping_zones"
	SourcePromotions = "promotions"
	SourceOrders     = "orders"
)

var errNotFinite = errors.New("value is not finite")

// Row is one tokenized, non-blank data line of a delimited source.
type Row struct {
	Line   int
	Raw    string
	Fields []string
}

// Field returns the i-th field or "" when the row is shorter.
func (r Row) Field(i int) string {
	if i < 0 || i >= len(r.Fields) {
		return ""
	}
	return r.Fields[i]
}

// Skipped describes a row dropped because a numeric field did not parse.
type Skipped struct {
	Source string
	Line   int
	Raw    string
	Reason string
}

func skip(source string, r Row, err error) Skipped {
	return Skipped{Source: source, Line: r.Line, Raw: r.Raw, Reason: err.Error()}
}

// ParseCustomers builds the customer table. Customer rows carry no
// numeric fields and are never skipped.
func ParseCustomers(rows []Row) map[string]Customer {
	out := make(map[string]Customer, len(rows))
	for _, r := range rows {
		id := r.Field(0)
		out[id] = Customer{
			ID:       id,
			Name:     r.Field(1),
			Level:    valueOrDefault(r.Field(2), DefaultLevel),
			Zone:     valueOrDefault(r.Field(3), DefaultZone),
			Currency: valueOrDefault(r.Field(4), DefaultCurrency),
		}
	}
	return out
}

// ParseProducts builds the product table. Rows with an unparseable price
// are dropped; a missing or unparseable weight falls back to the default.
func ParseProducts(rows []Row) (map[string]Product, []Skipped) {
	out := make(map[string]Product, len(rows))
	var skipped []Skipped
	for _, r := range rows {
		price, err := ParseDecimal(r.Field(3))
		if err != nil {
			skipped = append(skipped, skip(SourceProducts, r, fmt.Errorf("price: %w", err)))
			continue
		}
		weight, err := ParseDecimal(r.Field(4))
		if err != nil {
			weight = DefaultProductWeight
		}
		id := r.Field(0)
		out[id] = Product{
			ID:       id,
			Name:     r.Field(1),
			Category: r.Field(2),
			Price:    price,
			Weight:   weight,
			Taxable:  r.Field(5) == "true",
		}
	}
	return out, skipped
}

// ParseZones builds the shipping zone table. Rows with an unparseable base
// cost are dropped; the per-kilogram rate defaults when missing.
func ParseZones(rows []Row) (map[string]ShippingZone, []Skipped) {
	out := make(map[string]ShippingZone, len(rows))
	var skipped []Skipped
	for _, r := range rows {
		base, err := ParseDecimal(r.Field(1))
		if err != nil {
			skipped = append(skipped, skip(SourceZones, r, fmt.Errorf("base: %w", err)))
			continue
		}
		perKg, err := ParseDecimal(r.Field(2))
		if err != nil {
			perKg = DefaultPerKg
		}
		id := r.Field(0)
		out[id] = ShippingZone{ID: id, Base: base, PerKg: perKg}
	}
	return out, skipped
}

// ParsePromotions builds the promotion table. A promotion is active unless
// its flag is literally "false".
func ParsePromotions(rows []Row) map[string]Promotion {
	out := make(map[string]Promotion, len(rows))
	for _, r := range rows {
		code := r.Field(0)
		out[code] = Promotion{
			Code:   code,
			Kind:   PromotionKind(r.Field(1)),
			Value:  r.Field(2),
			Active: r.Field(3) != "false",
		}
	}
	return out
}

// ParseOrders returns order lines in input order. Rows whose quantity or
// unit price do not parse are dropped.
func ParseOrders(rows []Row) ([]Order, []Skipped) {
	out := make([]Order, 0, len(rows))
	var skipped []Skipped
	for _, r := range rows {
		qty, err := strconv.Atoi(strings.TrimSpace(r.Field(3)))
		if err != nil {
			skipped = append(skipped, skip(SourceOrders, r, fmt.Errorf("qty: %w", err)))
			continue
		}
		price, err := ParseDecimal(r.Field(4))
		if err != nil {
			skipped = append(skipped, skip(SourceOrders, r, fmt.Errorf("unit_price: %w", err)))
			continue
		}
		out = append(out, Order{
			ID:         r.Field(0),
			CustomerID: r.Field(1),
			ProductID:  r.Field(2),
			Qty:        qty,
			UnitPrice:  price,
			Date:       r.Field(5),
			PromoCode:  r.Field(6),
			Time:       valueOrDefault(r.Field(7), DefaultOrderTime),
		})
	}
	return out, skipped
}

// ParseDecimal parses a finite decimal, ignoring surrounding spaces.
func ParseDecimal(value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

func valueOrDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
