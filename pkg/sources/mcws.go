package sources

import (
	"github.com/vroomi/stocksync/pkg/normalize"
	"github.com/vroomi/stocksync/pkg/tabular"
)

// MCWSColumns names the columns of the MCWS stocklist export.
type MCWSColumns struct {
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
	Trademark string `yaml:"trademark"`
	Quantity  string `yaml:"quantity"`
}

// DefaultMCWSColumns returns the column names of the standard MCWS export.
func DefaultMCWSColumns() MCWSColumns {
	return MCWSColumns{
		Primary:   "Our Code",
		Secondary: "Code",
		Trademark: "Trademark",
		Quantity:  "Quantity",
	}
}

// MCWSFeed parses the MCWS stocklist shape. Each row carries two competing
// identifier fields, either of which may match a catalog SKU, so each row
// contributes up to two index keys pointing at the same record.
type MCWSFeed struct {
	columns MCWSColumns
	norm    *normalize.Normalizer
}

// NewMCWSFeed creates an MCWS feed. The normalizer must be the same
// instance used on the catalog side of the match.
func NewMCWSFeed(norm *normalize.Normalizer, columns MCWSColumns) *MCWSFeed {
	return &MCWSFeed{columns: columns, norm: norm}
}

// ID returns the MCWS source ID.
func (f *MCWSFeed) ID() ID {
	return MCWS
}

// Records converts an MCWS table into supplier records.
func (f *MCWSFeed) Records(t *tabular.Table) ([]Record, error) {
	idxs, err := t.Require(f.columns.Primary, f.columns.Secondary, f.columns.Trademark, f.columns.Quantity)
	if err != nil {
		return nil, err
	}
	priIdx, secIdx, tmIdx, qtyIdx := idxs[0], idxs[1], idxs[2], idxs[3]

	records := make([]Record, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		qty, _ := tabular.Quantity(t.Cell(i, qtyIdx))
		rec := Record{
			Source:    MCWS,
			Trademark: normalize.Trademark(t.Cell(i, tmIdx)),
			Quantity:  qty,
			Line:      i + 1,
		}

		primary := f.norm.Code(t.Cell(i, priIdx))
		secondary := f.norm.Code(t.Cell(i, secIdx))
		if primary != "" {
			rec.Keys = append(rec.Keys, primary)
		}
		if secondary != "" && secondary != primary {
			rec.Keys = append(rec.Keys, secondary)
		}

		records = append(records, rec)
	}
	return records, nil
}
