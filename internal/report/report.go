package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/noah-isme/orderreport/internal/pricing"
)

// SummaryCurrency labels the grand total lines regardless of customer currencies.
const SummaryCurrency = "EUR"

// Row is the structured export record of one customer.
type Row struct {
	CustomerID    string  `json:"customer_id"`
	Name          string  `json:"name"`
	Total         float64 `json:"total"`
	Currency      string  `json:"currency"`
	LoyaltyPoints int64   `json:"loyalty_points"`
}

// Statement is the full pricing breakdown of one customer. Amounts other
// than Tax and Total are in the base currency; Tax is before conversion.
type Statement struct {
	CustomerID string
	Name       string
	Level      string
	Zone       string
	Currency   string
	Rate       float64

	Subtotal     float64
	Discounts    pricing.Discounts
	MorningBonus float64
	Taxable      float64
	Tax          float64
	Weight       float64
	Shipping     float64
	ItemCount    int
	Handling     float64
	Total        float64
	Points       float64
}

// ConvertedTax is the tax expressed in the customer's currency.
func (s Statement) ConvertedTax() float64 {
	return float64(s.Tax * s.Rate)
}

// FlooredPoints returns the loyalty points as reported.
func (s Statement) FlooredPoints() int64 {
	return int64(math.Floor(s.Points))
}

// Row returns the export record of the statement.
func (s Statement) Row() Row {
	return Row{
		CustomerID:    s.CustomerID,
		Name:          s.Name,
		Total:         s.Total,
		Currency:      s.Currency,
		LoyaltyPoints: s.FlooredPoints(),
	}
}

// Lines renders the statement block, terminated by an empty line.
func (s Statement) Lines() []string {
	money := func(v float64) string { return pricing.FormatFixed(v, 2) }

	lines := []string{
		fmt.Sprintf("Customer: %s (%s)", s.Name, s.CustomerID),
		fmt.Sprintf("Level: %s | Zone: %s | Currency: %s", s.Level, s.Zone, s.Currency),
		"Subtotal: " + money(s.Subtotal),
		"Discount: " + money(s.Discounts.Total),
		"  - Volume discount: " + money(s.Discounts.Volume),
		"  - Loyalty discount: " + money(s.Discounts.Loyalty),
	}
	if s.MorningBonus > 0 {
		lines = append(lines, "  - Morning bonus: "+money(s.MorningBonus))
	}
	lines = append(lines,
		"Tax: "+money(s.ConvertedTax()),
		fmt.Sprintf("Shipping (%s, %skg): %s", s.Zone, pricing.FormatFixed(s.Weight, 1), money(s.Shipping)),
	)
	if s.Handling > 0 {
		lines = append(lines, fmt.Sprintf("Handling (%d items): %s", s.ItemCount, money(s.Handling)))
	}
	lines = append(lines,
		fmt.Sprintf("Total: %s %s", money(s.Total), s.Currency),
		fmt.Sprintf("Loyalty Points: %d", s.FlooredPoints()),
		"",
	)
	return lines
}

// Report is the in-memory result of one run.
type Report struct {
	RunID      string
	Statements []Statement
	// GrandTotal sums the rounded customer totals.
	GrandTotal float64
	// TaxCollected sums the converted, unrounded customer taxes.
	TaxCollected float64
}

// Rows returns one export record per customer in report order. The slice
// is never nil.
func (r *Report) Rows() []Row {
	rows := make([]Row, 0, len(r.Statements))
	for _, s := range r.Statements {
		rows = append(rows, s.Row())
	}
	return rows
}

// Text renders the human-readable report. Lines are joined with '\n' and
// the text has no trailing newline.
func (r *Report) Text() string {
	var lines []string
	for _, s := range r.Statements {
		lines = append(lines, s.Lines()...)
	}
	lines = append(lines,
		fmt.Sprintf("Grand Total: %s %s", pricing.FormatFixed(r.GrandTotal, 2), SummaryCurrency),
		fmt.Sprintf("Total Tax Collected: %s %s", pricing.FormatFixed(r.TaxCollected, 2), SummaryCurrency),
	)
	return strings.Join(lines, "\n")
}
