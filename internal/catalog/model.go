package catalog

// Reference values applied when a row or a lookup leaves a field empty.
const (
	DefaultCustomerName = "Unknown"
	DefaultLevel        = "BASIC"
	DefaultZone         = "ZONE1"
	DefaultCurrency     = "EUR"
	DefaultOrderTime    = "12:00"

	DefaultProductWeight = 1.0
	DefaultPerKg         = 0.5

	// PremiumLevel is the only customer level with pricing impact.
	PremiumLevel = "PREMIUM"
)

// PromotionKind identifies how a promotion value is interpreted.
type PromotionKind string

const (
	PromotionPercentage PromotionKind = "PERCENTAGE"
	PromotionFixed      PromotionKind = "FIXED"
)

// Customer is a row of the customer reference table.
type Customer struct {
	ID       string
	Name     string
	Level    string
	Zone     string
	Currency string
}

// Product is a row of the product reference table.
type Product struct {
	ID       string
	Name     string
	Category string
	Price    float64
	Weight   float64
	Taxable  bool
}

// ShippingZone carries the base cost and per-kilogram rate of a zone.
type ShippingZone struct {
	ID    string
	Base  float64
	PerKg float64
}

// Promotion is a promo code definition. Value is kept raw and parsed by kind.
type Promotion struct {
	Code   string
	Kind   PromotionKind
	Value  string
	Active bool
}

// Order is one order line as read from the orders source.
type Order struct {
	ID         string
	CustomerID string
	ProductID  string
	Qty        int
	UnitPrice  float64
	Date       string
	PromoCode  string
	Time       string
}

// Tables groups the immutable reference data of a run.
type Tables struct {
	Customers  map[string]Customer
	Products   map[string]Product
	Zones      map[string]ShippingZone
	Promotions map[string]Promotion
}

// NewTables returns empty, non-nil tables.
func NewTables() Tables {
	return Tables{
		Customers:  map[string]Customer{},
		Products:   map[string]Product{},
		Zones:      map[string]ShippingZone{},
		Promotions: map[string]Promotion{},
	}
}

// Customer resolves a customer by id. Unknown ids and empty fields are
// filled with the default display values.
func (t Tables) Customer(id string) Customer {
	c, ok := t.Customers[id]
	if !ok {
		c = Customer{ID: id}
	}
	return c.withDefaults()
}

// ProductFor resolves the product referenced by an order line. When the
// product is unknown the returned record prices at the order's own unit
// price, weighs the default weight and is taxable. Known reports whether
// the product table had an entry.
func (t Tables) ProductFor(o Order) (p Product, known bool) {
	p, known = t.Products[o.ProductID]
	if known {
		return p, true
	}
	return Product{
		ID:      o.ProductID,
		Price:   o.UnitPrice,
		Weight:  DefaultProductWeight,
		Taxable: true,
	}, false
}

// Zone looks up a shipping zone by id.
func (t Tables) Zone(id string) (ShippingZone, bool) {
	z, ok := t.Zones[id]
	return z, ok
}

// Promotion looks up a promotion by code.
func (t Tables) Promotion(code string) (Promotion, bool) {
	p, ok := t.Promotions[code]
	return p, ok
}

func (c Customer) withDefaults() Customer {
	if c.Name == "" {
		c.Name = DefaultCustomerName
	}
	if c.Level == "" {
		c.Level = DefaultLevel
	}
	if c.Zone == "" {
		c.Zone = DefaultZone
	}
	if c.Currency == "" {
		c.Currency = DefaultCurrency
	}
	return c
}
