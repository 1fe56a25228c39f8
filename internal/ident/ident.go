// Package ident validates SQL identifiers before they are allowed into a
// rendered statement.
//
// Identifiers are emitted verbatim by the renderer and never quoted, so this
// package is the only thing standing between caller-supplied names and the
// SQL text. A name passes when it is the wildcard "*", or when it:
//   - is non-empty
//   - matches [A-Za-z_][A-Za-z0-9_]*
//   - is not a reserved keyword (case-insensitive)
//   - is at most MaxLength characters long
//
// Validators are stateless and safe for concurrent use. The keyword set is
// injectable so callers can reject additional dialect-specific words.
package ident

import (
	"regexp"

	"golang.org/x/text/cases"

	"github.com/roach88/sqlsafe/internal/contract"
)

// MaxLength is the longest identifier accepted.
const MaxLength = 63

// Wildcard always passes validation.
const Wildcard = "*"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Kind names what an identifier is used for. It only affects error messages.
type Kind int

const (
	KindTable Kind = iota
	KindColumn
	KindAlias
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindColumn:
		return "column"
	case KindAlias:
		return "alias"
	default:
		return "identifier"
	}
}

// Validator checks a single identifier.
type Validator interface {
	Validate(name string, kind Kind) error
}

// KeywordValidator is the standard Validator backed by a reserved-word set.
type KeywordValidator struct {
	keywords map[string]struct{}
}

// Option configures a KeywordValidator.
type Option func(*KeywordValidator)

// WithKeywords replaces the reserved-word set.
func WithKeywords(words ...string) Option {
	return func(v *KeywordValidator) {
		v.keywords = make(map[string]struct{}, len(words))
		for _, w := range words {
			v.keywords[fold(w)] = struct{}{}
		}
	}
}

// WithExtraKeywords adds words to the reserved-word set.
func WithExtraKeywords(words ...string) Option {
	return func(v *KeywordValidator) {
		for _, w := range words {
			v.keywords[fold(w)] = struct{}{}
		}
	}
}

// New creates a KeywordValidator seeded with Reserved.
func New(opts ...Option) *KeywordValidator {
	v := &KeywordValidator{keywords: make(map[string]struct{}, len(Reserved))}
	for _, w := range Reserved {
		v.keywords[fold(w)] = struct{}{}
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var defaultValidator = New()

// Default returns the shared validator using the Reserved set.
func Default() Validator {
	return defaultValidator
}

// Validate returns a contract violation naming the first rule name breaks.
func (v *KeywordValidator) Validate(name string, kind Kind) error {
	if name == "" {
		return contract.Errorf("%s name must not be empty", kind)
	}
	if name == Wildcard {
		return nil
	}
	if !identifierPattern.MatchString(name) {
		return contract.Errorf("%s name %q must match %s", kind, name, identifierPattern.String())
	}
	if v.IsReserved(name) {
		return contract.Errorf("%s name %q is a reserved keyword", kind, name)
	}
	if len(name) > MaxLength {
		return contract.Errorf("%s name %q exceeds %d characters", kind, name, MaxLength)
	}
	return nil
}

// IsReserved reports whether word is in the validator's keyword set.
func (v *KeywordValidator) IsReserved(word string) bool {
	_, ok := v.keywords[fold(word)]
	return ok
}

// fold normalizes case for keyword lookup. A Caser is stateful, so one is
// created per call.
func fold(s string) string {
	return cases.Fold().String(s)
}
