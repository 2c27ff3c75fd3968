package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vroomi/stocksync/pkg/catalog"
	"github.com/vroomi/stocksync/pkg/errors"
	"github.com/vroomi/stocksync/pkg/tabular"
)

func TestParse(t *testing.T) {
	table := tabular.New("catalog", "Variant SKU", "Variant Inventory Qty", "Vendor")
	table.Append("ABC-123", "5", "NOREV")
	table.Append("DEF-9", "3,0", "SCHUCO")
	table.Append("GHI-1", "not a number", "")

	entries, err := catalog.Parse(table, catalog.DefaultColumns())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, catalog.Entry{SKU: "ABC-123", Quantity: 5, Line: 1}, entries[0])
	assert.Equal(t, 3, entries[1].Quantity, "decimal comma quantities are truncated")
	assert.Equal(t, 0, entries[2].Quantity, "unparseable quantities read as zero")
	assert.True(t, entries[2].MalformedQuantity)
	assert.False(t, entries[0].MalformedQuantity)
}

func TestParseBlankQuantityIsNotMalformed(t *testing.T) {
	table := tabular.New("catalog", "Variant SKU", "Variant Inventory Qty")
	table.Append("ABC-123", "  ")

	entries, err := catalog.Parse(table, catalog.DefaultColumns())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 0, entries[0].Quantity)
	assert.False(t, entries[0].MalformedQuantity)
}

func TestParseWithTrademarkColumn(t *testing.T) {
	table := tabular.New("catalog", "Variant SKU", "Variant Inventory Qty", "Vendor")
	table.Append("ABC-123", "5", "NOREV")

	cols := catalog.DefaultColumns()
	cols.Trademark = "Vendor"

	entries, err := catalog.Parse(table, cols)
	require.NoError(t, err)
	assert.Equal(t, "NOREV", entries[0].Trademark)

	// A configured but absent trademark column is not an error.
	cols.Trademark = "Brand"
	entries, err = catalog.Parse(table, cols)
	require.NoError(t, err)
	assert.Empty(t, entries[0].Trademark)
}

func TestParseMissingRequiredColumn(t *testing.T) {
	table := tabular.New("catalog", "SKU", "Qty")
	table.Append("ABC-123", "5")

	_, err := catalog.Parse(table, catalog.DefaultColumns())
	require.Error(t, err)
	assert.True(t, errors.IsSchema(err))

	var schemaErr *errors.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "catalog", schemaErr.Source)
	assert.Equal(t, "Variant SKU", schemaErr.Column)
}
