package ref

import (
	"fmt"
	"strings"

	"github.com/roach88/sqlsafe/internal/contract"
	"github.com/roach88/sqlsafe/internal/ident"
)

// Aggregate is an aggregate function applied to a column.
type Aggregate int

const (
	AggregateNone Aggregate = iota
	Count
	Sum
	Avg
	Min
	Max
	GroupConcat
)

var aggregateNames = map[Aggregate]string{
	Count:       "COUNT",
	Sum:         "SUM",
	Avg:         "AVG",
	Min:         "MIN",
	Max:         "MAX",
	GroupConcat: "GROUP_CONCAT",
}

// String returns the SQL function name, or "" for AggregateNone.
func (a Aggregate) String() string {
	return aggregateNames[a]
}

// ParseAggregate accepts a function name in any case, e.g. "count" or "GROUP_CONCAT".
func ParseAggregate(s string) (Aggregate, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for agg, name := range aggregateNames {
		if name == upper {
			return agg, nil
		}
	}
	return AggregateNone, contract.Errorf("unknown aggregate function %q", s)
}

// Column is a validated column reference, optionally qualified by a table,
// aliased, and wrapped in an aggregate.
type Column struct {
	name      string
	table     Table
	alias     string
	aggregate Aggregate
	distinct  bool
	validator ident.Validator
}

// NewColumn validates name and returns an unqualified Column.
func NewColumn(v ident.Validator, name string) (Column, error) {
	v = orDefault(v)
	if err := v.Validate(name, ident.KindColumn); err != nil {
		return Column{}, err
	}
	return Column{name: name, validator: v}, nil
}

// NewQualifiedColumn validates name and returns a Column qualified by table.
func NewQualifiedColumn(v ident.Validator, table Table, name string) (Column, error) {
	c, err := NewColumn(v, name)
	if err != nil {
		return Column{}, err
	}
	c.table = table
	return c, nil
}

// ParseColumn accepts "column" or "table.column".
func ParseColumn(v ident.Validator, s string) (Column, error) {
	tableName, colName, qualified := strings.Cut(s, ".")
	if !qualified {
		return NewColumn(v, s)
	}
	t, err := NewTable(v, tableName)
	if err != nil {
		return Column{}, err
	}
	return NewQualifiedColumn(v, t, colName)
}

// MustColumn is like ParseColumn with the default validator but panics on error.
func MustColumn(s string) Column {
	c, err := ParseColumn(nil, s)
	if err != nil {
		panic(err)
	}
	return c
}

// Of returns a copy of c qualified by table.
func (c Column) Of(table Table) Column {
	c.table = table
	return c
}

// As returns a copy of c carrying alias.
func (c Column) As(alias string) (Column, error) {
	if err := orDefault(c.validator).Validate(alias, ident.KindAlias); err != nil {
		return Column{}, err
	}
	c.alias = alias
	return c, nil
}

// WithAggregate returns a copy of c wrapped in fn.
func (c Column) WithAggregate(fn Aggregate, distinct bool) Column {
	c.aggregate = fn
	c.distinct = distinct
	return c
}

// Name returns the bare column name.
func (c Column) Name() string { return c.name }

// Table returns the qualifying table and whether one is set.
func (c Column) Table() (Table, bool) { return c.table, !c.table.IsZero() }

// Alias returns the alias, or "".
func (c Column) Alias() string { return c.alias }

// Aggregate returns the aggregate function, or AggregateNone.
func (c Column) Aggregate() Aggregate { return c.aggregate }

// Distinct reports whether the aggregate applies to distinct values.
func (c Column) Distinct() bool { return c.distinct }

// IsZero reports whether c is the zero Column.
func (c Column) IsZero() bool { return c.name == "" }

// FullName is "table.column" when qualified, otherwise "column". The table
// part is the table's reference name.
func (c Column) FullName() string {
	if c.table.IsZero() {
		return c.name
	}
	return c.table.ReferenceName() + "." + c.name
}

// Expr is FullName wrapped in the aggregate function, if any.
func (c Column) Expr() string {
	if c.aggregate == AggregateNone {
		return c.FullName()
	}
	if c.distinct {
		return fmt.Sprintf("%s(DISTINCT %s)", c.aggregate, c.FullName())
	}
	return fmt.Sprintf("%s(%s)", c.aggregate, c.FullName())
}

// SelectExpr is Expr followed by "AS alias" when an alias is set.
func (c Column) SelectExpr() string {
	if c.alias == "" {
		return c.Expr()
	}
	return c.Expr() + " AS " + c.alias
}

// Equal compares every rendered attribute of c and o.
func (c Column) Equal(o Column) bool {
	return c.name == o.name &&
		c.table.Equal(o.table) &&
		c.alias == o.alias &&
		c.aggregate == o.aggregate &&
		c.distinct == o.distinct
}

// String returns SelectExpr.
func (c Column) String() string {
	return c.SelectExpr()
}
