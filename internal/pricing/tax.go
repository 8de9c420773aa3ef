package pricing

import "github.com/noah-isme/orderreport/internal/catalog"

// Tax computes tax on the discounted taxable subtotal.
//
// When every line is taxable (unknown products count as taxable) the flat
// rate applies to the whole subtotal. Otherwise the subtotal is spread
// over the taxable lines in proportion to their gross value and each share
// is taxed; the sum is rounded once.
func (e *Engine) Tax(items []catalog.Order, taxableSubtotal float64) float64 {
	allTaxable := true
	for _, item := range items {
		if p, _ := e.tables.ProductFor(item); !p.Taxable {
			allTaxable = false
			break
		}
	}
	if allTaxable {
		return Round2(taxableSubtotal * e.rules.TaxRate)
	}

	gross := make([]float64, 0, len(items))
	var grossTotal float64
	for _, item := range items {
		p, _ := e.tables.ProductFor(item)
		if !p.Taxable {
			continue
		}
		line := float64(item.Qty) * p.Price
		gross = append(gross, line)
		grossTotal += line
	}
	if grossTotal == 0 {
		return 0
	}

	var tax float64
	for _, net := range Scale(gross, grossTotal, taxableSubtotal) {
		tax += float64(net * e.rules.TaxRate)
	}
	return Round2(tax)
}
