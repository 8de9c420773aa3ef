package source_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/orderreport/internal/catalog"
	"github.com/noah-isme/orderreport/internal/source"
)

func dataFS() fstest.MapFS {
	return fstest.MapFS{
		source.CustomersFile: {Data: []byte("id,name,level,shipping_zone,currency\nC1,Alice,PREMIUM,ZONE2,USD\n")},
		source.ProductsFile: {Data: []byte("id,name,category,price,weight,taxable\n" +
			"P1,Widget,tools,10,1.5,true\n" +
			"P2,Broken,tools,n/a,1,true\n")},
		source.ZonesFile:      {Data: []byte("zone,base,per_kg\nZONE2,6,0.6\n")},
		source.PromotionsFile: {Data: []byte("code,type,value,active\nSAVE,PERCENTAGE,10,true\n")},
		source.OrdersFile: {Data: []byte("id,customer_id,product_id,qty,unit_price,date,promo_code,time\n" +
			"O1,C1,P1,2,10,2024-03-04,SAVE,09:00\n" +
			"O2,C1,P1,x,10,2024-03-04,,\n" +
			"\n" +
			"O3,C1,P9,1,4.5,2024-03-05\n")},
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	ds, err := source.NewLoader(dataFS()).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, ds.Tables.Customers, 1)
	require.Len(t, ds.Tables.Products, 1)
	require.Len(t, ds.Tables.Zones, 1)
	require.Len(t, ds.Tables.Promotions, 1)
	require.Len(t, ds.Orders, 2)
	assert.Equal(t, "O1", ds.Orders[0].ID)
	assert.Equal(t, "O3", ds.Orders[1].ID)
	assert.Empty(t, ds.MissingOptional)

	require.Len(t, ds.Skipped, 2)
	assert.Equal(t, catalog.SourceProducts, ds.Skipped[0].Source)
	assert.Equal(t, 3, ds.Skipped[0].Line)
	assert.Equal(t, catalog.SourceOrders, ds.Skipped[1].Source)
	assert.Equal(t, 3, ds.Skipped[1].Line)
	assert.Equal(t, map[string]int{catalog.SourceProducts: 1, catalog.SourceOrders: 1}, ds.SkippedBySource())
}

func TestLoadOptionalPromotions(t *testing.T) {
	t.Parallel()

	fsys := dataFS()
	delete(fsys, source.PromotionsFile)

	ds, err := source.NewLoader(fsys).Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, ds.Tables.Promotions)
	assert.Empty(t, ds.Tables.Promotions)
	assert.Equal(t, []string{source.PromotionsFile}, ds.MissingOptional)
}

func TestLoadRequiredSourceMissing(t *testing.T) {
	t.Parallel()

	for _, name := range source.RequiredFiles {
		fsys := dataFS()
		delete(fsys, name)

		ds, err := source.NewLoader(fsys).Load(context.Background())
		require.Nil(t, ds, name)
		require.ErrorIs(t, err, source.ErrRequiredSource, name)
		require.ErrorIs(t, err, fs.ErrNotExist, name)
		require.ErrorContains(t, err, name)
	}
}

func TestLoadCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := source.NewLoader(dataFS()).Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, errors.Is(err, source.ErrRequiredSource))
}

func TestLoadCustomDelimiter(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		source.CustomersFile: {Data: []byte("h\nC1;Alice;;;\n")},
		source.ProductsFile:  {Data: []byte("h\nP1;Widget;tools;10;1;true\n")},
		source.ZonesFile:     {Data: []byte("h\n")},
		source.OrdersFile:    {Data: []byte("h\nO1;C1;P1;1;10;2024-03-04\n")},
	}
	loader := source.NewLoader(fsys)
	loader.Delimiter = ";"

	ds, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Alice", ds.Tables.Customer("C1").Name)
	require.Equal(t, 10.0, ds.Tables.Products["P1"].Price)
	require.Len(t, ds.Orders, 1)
}

func TestCheck(t *testing.T) {
	t.Parallel()

	require.NoError(t, source.NewLoader(dataFS()).Check(context.Background()))

	fsys := dataFS()
	delete(fsys, source.OrdersFile)
	require.ErrorIs(t, source.NewLoader(fsys).Check(context.Background()), source.ErrRequiredSource)
}

func TestOSReader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, source.OrdersFile), []byte("h\n"), 0o600))

	data, err := source.OSReader{Dir: dir}.ReadFile(source.OrdersFile)
	require.NoError(t, err)
	require.Equal(t, "h\n", string(data))

	_, err = source.OSReader{Dir: dir}.ReadFile(source.CustomersFile)
	require.ErrorIs(t, err, fs.ErrNotExist)
}
