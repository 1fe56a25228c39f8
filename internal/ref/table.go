package ref

import (
	"github.com/roach88/sqlsafe/internal/ident"
)

// Table is a validated table name with an optional alias.
type Table struct {
	name      string
	alias     string
	validator ident.Validator
}

// NewTable validates name and returns a Table.
func NewTable(v ident.Validator, name string) (Table, error) {
	v = orDefault(v)
	if err := v.Validate(name, ident.KindTable); err != nil {
		return Table{}, err
	}
	return Table{name: name, validator: v}, nil
}

// MustTable is like NewTable with the default validator but panics on error.
// Intended for package-level fixtures and tests.
func MustTable(name string) Table {
	t, err := NewTable(nil, name)
	if err != nil {
		panic(err)
	}
	return t
}

// As returns a copy of t carrying alias.
func (t Table) As(alias string) (Table, error) {
	if err := orDefault(t.validator).Validate(alias, ident.KindAlias); err != nil {
		return Table{}, err
	}
	t.alias = alias
	return t, nil
}

// Name returns the table name.
func (t Table) Name() string { return t.name }

// Alias returns the alias, or "" when none was set.
func (t Table) Alias() string { return t.alias }

// ReferenceName is the name other clauses use to refer to t: the alias when
// present, otherwise the table name.
func (t Table) ReferenceName() string {
	if t.alias != "" {
		return t.alias
	}
	return t.name
}

// IsZero reports whether t is the zero Table.
func (t Table) IsZero() bool { return t.name == "" }

// Equal compares name and alias.
func (t Table) Equal(o Table) bool {
	return t.name == o.name && t.alias == o.alias
}

// String renders t as it appears in FROM and JOIN clauses.
func (t Table) String() string {
	if t.alias != "" {
		return t.name + " AS " + t.alias
	}
	return t.name
}

func orDefault(v ident.Validator) ident.Validator {
	if v == nil {
		return ident.Default()
	}
	return v
}
