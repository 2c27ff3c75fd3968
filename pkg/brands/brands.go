// Package brands implements the trademark allow-list that decides which
// catalog rows are eligible for a supplier-driven quantity update.
package brands

import (
	"github.com/vroomi/stocksync/pkg/normalize"
)

// AllowList is the configured set of brands eligible for quantity updates.
// Membership checks are performed on normalized trademark text, so the list
// accepts whatever casing and spacing the operator's config uses.
type AllowList struct {
	names   []string // normalized, input order, de-duplicated
	members map[string]bool
}

// NewAllowList builds an allow-list from configured brand names.
func NewAllowList(names []string) *AllowList {
	l := &AllowList{
		members: make(map[string]bool, len(names)),
	}
	for _, name := range names {
		key := normalize.Trademark(name)
		if key == "" || l.members[key] {
			continue
		}
		l.members[key] = true
		l.names = append(l.names, key)
	}
	return l
}

// Allows reports whether the trademark belongs to the allow-list.
// Pure predicate; the comparison uses normalized trademark text.
func (l *AllowList) Allows(trademark string) bool {
	return l.members[normalize.Trademark(trademark)]
}

// Names returns the normalized brand names in configuration order.
func (l *AllowList) Names() []string {
	out := make([]string, len(l.names))
	copy(out, l.names)
	return out
}

// Len returns the number of allow-listed brands.
func (l *AllowList) Len() int {
	return len(l.names)
}
