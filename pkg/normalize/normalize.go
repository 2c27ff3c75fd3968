// Package normalize canonicalizes raw product codes and trademark labels so
// that differently-formatted identifiers from the catalog and the supplier
// feeds compare equal. The same Normalizer instance must be shared by every
// indexer and by the reconciler's catalog lookup; applying different rules on
// the two sides silently loses matches.
package normalize

import (
	"strings"
	"unicode"
)

// Code is the canonical form of a product identifier. It is only ever used
// as a lookup key and is never persisted or shown to the user.
type Code string

// Alphabet reports whether a rune belongs to the identifier alphabet.
// Runes outside the alphabet are stripped during normalization.
type Alphabet func(r rune) bool

// DefaultAlphabet keeps letters and digits. Hyphens are stripped like any
// other punctuation: the catalog writes "ABC-123" where the supplier feeds
// write "abc123", and both must land on the same key.
func DefaultAlphabet(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// AlphabetOf builds an Alphabet from a compact set description.
// "A-Z0-9-" expands the A-Z and 0-9 ranges and keeps the trailing hyphen as
// a literal. Matching is performed after case folding, so lowercase ranges
// behave the same as uppercase ones.
func AlphabetOf(set string) Alphabet {
	allowed := make(map[rune]bool)
	runes := []rune(strings.ToUpper(set))
	for i := 0; i < len(runes); i++ {
		// "X-Y" range, unless the hyphen is first or last
		if i+2 < len(runes) && runes[i+1] == '-' {
			for r := runes[i]; r <= runes[i+2]; r++ {
				allowed[r] = true
			}
			i += 2
			continue
		}
		allowed[runes[i]] = true
	}
	return func(r rune) bool { return allowed[r] }
}

// Normalizer canonicalizes identifiers according to a configured alphabet.
// The zero value is not usable; construct with New.
type Normalizer struct {
	alphabet  Alphabet
	trimZeros bool
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithAlphabet sets the identifier alphabet.
func WithAlphabet(a Alphabet) Option {
	return func(n *Normalizer) {
		if a != nil {
			n.alphabet = a
		}
	}
}

// WithTrimLeadingZeros controls whether leading zeros are stripped from the
// normalized code. Supplier exports routinely zero-pad numeric codes, so the
// default is on; "000" normalizes to the empty key like any other
// unmatchable input.
func WithTrimLeadingZeros(trim bool) Option {
	return func(n *Normalizer) {
		n.trimZeros = trim
	}
}

// New creates a Normalizer with the default alphabet (letters and digits)
// and leading-zero trimming enabled.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		alphabet:  DefaultAlphabet,
		trimZeros: true,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Code canonicalizes a raw product code: case-fold, trim, strip everything
// outside the alphabet, optionally trim leading zeros. Deterministic, total
// and idempotent; empty or fully-stripped input yields the empty Code, which
// never matches anything downstream.
func (n *Normalizer) Code(raw string) Code {
	s := strings.ToUpper(strings.TrimSpace(raw))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if n.alphabet(r) {
			b.WriteRune(r)
		}
	}
	out := b.String()

	if n.trimZeros {
		out = strings.TrimLeft(out, "0")
	}
	return Code(out)
}

// Trademark canonicalizes a brand label for allow-list comparison:
// case-fold, trim, collapse internal whitespace runs to single spaces.
// Unlike Code, trademarks keep their punctuation; "ESVAL MODEL" and
// "MITICA-R" are distinct brands.
func Trademark(raw string) string {
	return strings.Join(strings.Fields(strings.ToUpper(raw)), " ")
}
