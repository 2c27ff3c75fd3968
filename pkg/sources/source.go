// Package sources defines the supplier stock feeds the catalog reconciles
// against. Each feed shape owns its own code-extraction rule; new supplier
// export formats become new Feed implementations, not new branches in the
// reconciler loop.
package sources

import (
	"github.com/vroomi/stocksync/pkg/errors"
	"github.com/vroomi/stocksync/pkg/normalize"
	"github.com/vroomi/stocksync/pkg/tabular"
)

// ID identifies a supplier source.
type ID string

// Known source IDs.
const (
	// MCWS is the stocklist feed with two competing code columns and a
	// per-row trademark.
	MCWS ID = "mcws"

	// BBR is the export feed whose identifier is embedded in a descriptive
	// text column and which carries no per-row trademark.
	BBR ID = "bbr"

	// None marks a catalog entry that matched no supplier source.
	None ID = "none"
)

// String returns the string representation of a source ID.
func (id ID) String() string {
	return string(id)
}

// ParseID validates a configured source name.
func ParseID(s string) (ID, error) {
	switch ID(s) {
	case MCWS, BBR:
		return ID(s), nil
	default:
		return "", errors.NewValidationError("source", s, "unknown supplier source")
	}
}

// Record is one supplier stock row in indexable form.
type Record struct {
	Source ID

	// Keys are the normalized lookup keys derived from the row's code
	// fields. MCWS rows contribute up to two, BBR rows one.
	Keys []normalize.Code

	// Trademark is the normalized per-row brand, empty for feeds that have
	// none.
	Trademark string

	Quantity int
	Line     int // 1-based data row number in the source table
}

// Feed parses one supplier table shape into indexable records.
type Feed interface {
	// ID returns the source this feed belongs to.
	ID() ID

	// Records converts a supplier table into records. A missing required
	// column is a fatal SchemaError.
	Records(t *tabular.Table) ([]Record, error)
}
