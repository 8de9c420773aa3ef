package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/noah-isme/orderreport/internal/catalog"
)

// File names read from the data directory.
const (
	CustomersFile  = "customers.csv"
	ProductsFile   = "products.csv"
	ZonesFile      = "shipping_zones.csv"
	PromotionsFile = "promotions.csv"
	OrdersFile     = "orders.csv"
)

// ErrRequiredSource marks a run aborted because a required source could not be read.
var ErrRequiredSource = errors.New("required source unreadable")

// RequiredFiles lists the sources without which no report can be produced.
var RequiredFiles = []string{CustomersFile, ProductsFile, ZonesFile, OrdersFile}

// Dataset is the fully loaded, immutable input of one run.
type Dataset struct {
	Tables  catalog.Tables
	Orders  []catalog.Order
	Skipped []catalog.Skipped
	// MissingOptional names optional sources that could not be read.
	MissingOptional []string
}

// SkippedBySource counts skipped rows per source name.
func (d *Dataset) SkippedBySource() map[string]int {
	counts := make(map[string]int)
	for _, s := range d.Skipped {
		counts[s.Source]++
	}
	return counts
}

// Loader reads and parses every source of a run.
type Loader struct {
	Reader    Reader
	Delimiter string
	Logger    zerolog.Logger
}

// NewLoader returns a loader over reader using the default delimiter and a no-op logger.
func NewLoader(reader Reader) *Loader {
	return &Loader{Reader: reader, Delimiter: DefaultDelimiter, Logger: zerolog.Nop()}
}

// Load reads the reference tables first, then the orders. Any read failure
// of a required source aborts with ErrRequiredSource; an unreadable
// promotions file yields an empty promotion table.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	ds := &Dataset{Tables: catalog.NewTables()}

	customers, err := l.required(ctx, CustomersFile)
	if err != nil {
		return nil, err
	}
	ds.Tables.Customers = catalog.ParseCustomers(customers)

	products, err := l.required(ctx, ProductsFile)
	if err != nil {
		return nil, err
	}
	var skipped []catalog.Skipped
	ds.Tables.Products, skipped = catalog.ParseProducts(products)
	ds.Skipped = append(ds.Skipped, skipped...)

	zones, err := l.required(ctx, ZonesFile)
	if err != nil {
		return nil, err
	}
	ds.Tables.Zones, skipped = catalog.ParseZones(zones)
	ds.Skipped = append(ds.Skipped, skipped...)

	promotions, ok := l.optional(ctx, PromotionsFile)
	if !ok {
		ds.MissingOptional = append(ds.MissingOptional, PromotionsFile)
	}
	ds.Tables.Promotions = catalog.ParsePromotions(promotions)

	orders, err := l.required(ctx, OrdersFile)
	if err != nil {
		return nil, err
	}
	ds.Orders, skipped = catalog.ParseOrders(orders)
	ds.Skipped = append(ds.Skipped, skipped...)

	return ds, nil
}

// Check verifies that every required source is readable.
func (l *Loader) Check(ctx context.Context) error {
	for _, name := range RequiredFiles {
		if _, err := l.required(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) required(ctx context.Context, name string) ([]catalog.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := l.Reader.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRequiredSource, name, err)
	}
	return SplitRows(data, l.Delimiter), nil
}

func (l *Loader) optional(ctx context.Context, name string) ([]catalog.Row, bool) {
	if ctx.Err() != nil {
		return nil, false
	}
	data, err := l.Reader.ReadFile(name)
	if err != nil {
		l.Logger.Debug().Err(err).Str("source", name).Msg("optional source missing")
		return nil, false
	}
	return SplitRows(data, l.Delimiter), true
}
