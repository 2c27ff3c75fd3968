package sources

import (
	"strings"

	"github.com/vroomi/stocksync/pkg/normalize"
	"github.com/vroomi/stocksync/pkg/tabular"
)

// BBRColumns names the columns of the BBR export.
type BBRColumns struct {
	Description string `yaml:"description"`
	Quantity    string `yaml:"quantity"`
}

// DefaultBBRColumns returns the column names of the standard BBR export.
func DefaultBBRColumns() BBRColumns {
	return BBRColumns{
		Description: "DescrizioneVariante",
		Quantity:    "QtaResidua",
	}
}

// TokenFunc extracts the identifying token from a descriptive text field.
// Supplier export formats change, so the extraction rule is a configuration
// point rather than a constant.
type TokenFunc func(s string) string

// LeadingToken returns the first whitespace-delimited token, or the whole
// field when no delimiter is present. This is the rule the current BBR
// export needs: "BBR123 1:18 Rosso Corsa" identifies as "BBR123".
func LeadingToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// WholeField returns the field unchanged, for exports whose description
// column holds a bare code.
func WholeField(s string) string {
	return s
}

// BBRFeed parses the BBR export shape. The identifier lives inside a
// descriptive text column and there is no per-row trademark; brand
// eligibility for BBR matches is a run-level policy decision.
type BBRFeed struct {
	columns BBRColumns
	extract TokenFunc
	norm    *normalize.Normalizer
}

// NewBBRFeed creates a BBR feed. A nil extract falls back to LeadingToken.
func NewBBRFeed(norm *normalize.Normalizer, columns BBRColumns, extract TokenFunc) *BBRFeed {
	if extract == nil {
		extract = LeadingToken
	}
	return &BBRFeed{columns: columns, extract: extract, norm: norm}
}

// ID returns the BBR source ID.
func (f *BBRFeed) ID() ID {
	return BBR
}

// Records converts a BBR table into supplier records.
func (f *BBRFeed) Records(t *tabular.Table) ([]Record, error) {
	idxs, err := t.Require(f.columns.Description, f.columns.Quantity)
	if err != nil {
		return nil, err
	}
	descIdx, qtyIdx := idxs[0], idxs[1]

	records := make([]Record, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		qty, _ := tabular.Quantity(t.Cell(i, qtyIdx))
		rec := Record{
			Source:   BBR,
			Quantity: qty,
			Line:     i + 1,
		}
		if key := f.norm.Code(f.extract(t.Cell(i, descIdx))); key != "" {
			rec.Keys = append(rec.Keys, key)
		}
		records = append(records, rec)
	}
	return records, nil
}
