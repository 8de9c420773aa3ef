package report

import (
	"github.com/noah-isme/orderreport/internal/catalog"
	"github.com/noah-isme/orderreport/internal/pricing"
	"github.com/noah-isme/orderreport/internal/shipping"
)

// Assembler turns aggregated orders into customer statements.
type Assembler struct {
	engine  *pricing.Engine
	shipper *shipping.Calculator
}

// NewAssembler wires the pricing engine and the shipping calculator of a run.
func NewAssembler(engine *pricing.Engine, shipper *shipping.Calculator) *Assembler {
	return &Assembler{engine: engine, shipper: shipper}
}

// Assemble aggregates orders and builds the report.
func (a *Assembler) Assemble(orders []catalog.Order) *Report {
	return a.Build(a.engine.Aggregate(orders))
}

// Build prices every aggregated customer in ascending id order.
func (a *Assembler) Build(agg pricing.Aggregation) *Report {
	ids := agg.CustomerIDs()
	rep := &Report{Statements: make([]Statement, 0, len(ids))}
	for _, id := range ids {
		st := a.Statement(agg.Totals[id], agg.Points[id])
		rep.Statements = append(rep.Statements, st)
		rep.GrandTotal += st.Total
		rep.TaxCollected += st.ConvertedTax()
	}
	return rep
}

// Statement runs discounts, tax, shipping, handling and currency conversion
// for one customer's totals.
func (a *Assembler) Statement(totals *pricing.CustomerTotals, points float64) Statement {
	cust := a.engine.Tables().Customer(totals.CustomerID)
	sub := totals.Subtotal

	volume := a.engine.VolumeDiscount(sub, cust.Level, totals.FirstOrderDate())
	loyalty := a.engine.LoyaltyDiscount(points)
	discounts := a.engine.ApplyCap(volume, loyalty)

	taxable := sub - discounts.Total
	tax := a.engine.Tax(totals.Items, taxable)
	ship := a.shipper.Cost(sub, totals.Weight, cust.Zone)
	handling := a.shipper.Handling(len(totals.Items))
	rate := a.engine.CurrencyRate(cust.Currency)

	return Statement{
		CustomerID:   totals.CustomerID,
		Name:         cust.Name,
		Level:        cust.Level,
		Zone:         cust.Zone,
		Currency:     cust.Currency,
		Rate:         rate,
		Subtotal:     sub,
		Discounts:    discounts,
		MorningBonus: totals.Bonus,
		Taxable:      taxable,
		Tax:          tax,
		Weight:       totals.Weight,
		Shipping:     ship,
		ItemCount:    len(totals.Items),
		Handling:     handling,
		Total:        pricing.Round2((taxable + tax + ship + handling) * rate),
		Points:       points,
	}
}
