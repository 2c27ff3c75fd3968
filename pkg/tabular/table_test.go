package tabular

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vroomi/stocksync/pkg/errors"
)

func TestColumnLookupTrimsHeaders(t *testing.T) {
	table := New("catalog", " Variant SKU ", "Variant Inventory Qty")

	idx, ok := table.Column("Variant SKU")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	_, ok = table.Column("Missing")
	assert.False(t, ok)
}

func TestRequireReturnsSchemaError(t *testing.T) {
	table := New("mcws", "Our Code", "Code")

	_, err := table.Require("Our Code", "Trademark")
	require.Error(t, err)
	assert.True(t, errors.IsSchema(err))
	assert.Contains(t, err.Error(), "mcws")
	assert.Contains(t, err.Error(), "Trademark")

	idxs, err := table.Require("Code", "Our Code")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, idxs)
}

func TestCellHandlesShortRows(t *testing.T) {
	table := New("catalog", "a", "b", "c")
	table.Append("1")

	assert.Equal(t, "1", table.Cell(0, 0))
	assert.Equal(t, "", table.Cell(0, 2))
	assert.Equal(t, "", table.Cell(5, 0))
}

func TestQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"12", 12, true},
		{" 3 ", 3, true},
		{"1,5", 1, true},
		{"1 234,0", 1234, true},
		{"-3", -3, true},
		{"", 0, false},
		{"n/a", 0, false},
	}

	for _, tt := range tests {
		got, ok := Quantity(tt.in)
		assert.Equal(t, tt.want, got, "Quantity(%q)", tt.in)
		assert.Equal(t, tt.ok, ok, "Quantity(%q) ok", tt.in)
	}
}

func TestReadCSVSniffsDelimiter(t *testing.T) {
	comma := "sku,qty\nABC-123,5\n"
	semicolon := "sku;qty\nABC-123;5\n"

	for _, doc := range []string{comma, semicolon} {
		table, err := ReadCSV(strings.NewReader(doc), "catalog")
		require.NoError(t, err)
		assert.Equal(t, []string{"sku", "qty"}, table.Columns)
		require.Equal(t, 1, table.Len())
		assert.Equal(t, "ABC-123", table.Cell(0, 0))
		assert.Equal(t, "5", table.Cell(0, 1))
	}
}

func TestReadCSVEmptyInput(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), "catalog")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header row")
}

func TestCSVRoundTrip(t *testing.T) {
	table := New("updates", "Variant SKU", "Variant Inventory Qty")
	table.Append("ABC-123", "12")
	table.Append("XYZ-9", "0")

	var buf strings.Builder
	require.NoError(t, WriteCSV(&buf, table))

	back, err := ReadCSV(strings.NewReader(buf.String()), "updates")
	require.NoError(t, err)
	assert.Equal(t, table.Columns, back.Columns)
	assert.Equal(t, table.Rows, back.Rows)
}

func TestXLSXRoundTrip(t *testing.T) {
	table := New("bbr", "DescrizioneVariante", "QtaResidua")
	table.Append("BBR123 1:18 Rosso", "2")
	table.Append("BBR456", "-1")

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, table))

	back, err := ReadXLSX(bytes.NewReader(buf.Bytes()), "bbr")
	require.NoError(t, err)
	assert.Equal(t, table.Columns, back.Columns)
	assert.Equal(t, table.Rows, back.Rows)
}
