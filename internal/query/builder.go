package query

import (
	"github.com/roach88/sqlsafe/internal/condition"
	"github.com/roach88/sqlsafe/internal/ref"
)

// Option configures a Builder.
type Option func(*Builder)

// WithParenthesizedGroups wraps nested condition groups in parentheses.
// By default they render inline.
func WithParenthesizedGroups() Option {
	return func(b *Builder) {
		b.render.ParenthesizeGroups = true
	}
}

// Builder is a chainable SELECT builder over an immutable State.
//
// Select, From, FromTables and GroupBy replace earlier values; Where,
// Having, Join and OrderBy accumulate. Limit and Offset check their argument
// immediately: a violation is visible through Err at once and is returned by
// every Build until Reset.
type Builder struct {
	state  State
	params *condition.Params
	render condition.RenderOptions
	err    error
}

// New creates an empty Builder.
func New(opts ...Option) *Builder {
	b := &Builder{params: condition.NewParams()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Select replaces the select list. With no columns the query selects *.
func (b *Builder) Select(cols ...ref.Column) *Builder {
	b.state = b.state.WithSelect(cols...)
	return b
}

// From replaces the FROM list with a single table.
func (b *Builder) From(table ref.Table) *Builder {
	b.state = b.state.WithFrom(table)
	return b
}

// FromTables replaces the FROM list.
func (b *Builder) FromTables(tables ...ref.Table) *Builder {
	b.state = b.state.WithFrom(tables...)
	return b
}

// Join appends a JOIN of the given kind.
func (b *Builder) Join(kind JoinKind, table ref.Table, on condition.Group) *Builder {
	b.state = b.state.WithJoin(Join{Kind: kind, Table: table, On: on})
	return b
}

// InnerJoin appends an INNER JOIN.
func (b *Builder) InnerJoin(table ref.Table, on condition.Group) *Builder {
	return b.Join(InnerJoin, table, on)
}

// LeftJoin appends a LEFT JOIN.
func (b *Builder) LeftJoin(table ref.Table, on condition.Group) *Builder {
	return b.Join(LeftJoin, table, on)
}

// RightJoin appends a RIGHT JOIN.
func (b *Builder) RightJoin(table ref.Table, on condition.Group) *Builder {
	return b.Join(RightJoin, table, on)
}

// FullJoin appends a FULL JOIN.
func (b *Builder) FullJoin(table ref.Table, on condition.Group) *Builder {
	return b.Join(FullJoin, table, on)
}

// CrossJoin appends a CROSS JOIN.
func (b *Builder) CrossJoin(table ref.Table) *Builder {
	return b.Join(CrossJoin, table, condition.Group{})
}

// Where adds a WHERE condition, joined with AND to any existing ones.
func (b *Builder) Where(col ref.Column, op condition.Operator, v condition.Value) *Builder {
	return b.AndWhere(col, op, v)
}

// AndWhere adds a WHERE condition joined with AND.
func (b *Builder) AndWhere(col ref.Column, op condition.Operator, v condition.Value) *Builder {
	b.state = b.state.WithWhere(b.state.where.And(condition.Cond(col, op, v)))
	return b
}

// OrWhere adds a WHERE condition joined with OR.
func (b *Builder) OrWhere(col ref.Column, op condition.Operator, v condition.Value) *Builder {
	b.state = b.state.WithWhere(b.state.where.Or(condition.Cond(col, op, v)))
	return b
}

// WhereExists adds EXISTS (sub), joined with AND.
func (b *Builder) WhereExists(sub condition.Subquery) *Builder {
	b.state = b.state.WithWhere(b.state.where.And(condition.Exists(sub)))
	return b
}

// WhereNotExists adds NOT EXISTS (sub), joined with AND.
func (b *Builder) WhereNotExists(sub condition.Subquery) *Builder {
	b.state = b.state.WithWhere(b.state.where.And(condition.NotExists(sub)))
	return b
}

// WhereGroup appends g to WHERE joined with AND. An empty g is ignored.
func (b *Builder) WhereGroup(g condition.Group) *Builder {
	b.state = b.state.WithWhere(b.state.where.AndGroup(g))
	return b
}

// OrWhereGroup appends g to WHERE joined with OR. An empty g is ignored.
func (b *Builder) OrWhereGroup(g condition.Group) *Builder {
	b.state = b.state.WithWhere(b.state.where.OrGroup(g))
	return b
}

// WhereConditions appends the entries of g to WHERE inline, the first joined
// with AND, without nesting g as a group.
func (b *Builder) WhereConditions(g condition.Group) *Builder {
	b.state = b.state.WithWhere(b.state.where.Extend(g))
	return b
}

// GroupBy replaces the GROUP BY columns.
func (b *Builder) GroupBy(cols ...ref.Column) *Builder {
	b.state = b.state.WithGroupBy(cols...)
	return b
}

// Having adds a HAVING condition, joined with AND to any existing ones.
func (b *Builder) Having(col ref.Column, op condition.Operator, v condition.Value) *Builder {
	return b.AndHaving(col, op, v)
}

// AndHaving adds a HAVING condition joined with AND.
func (b *Builder) AndHaving(col ref.Column, op condition.Operator, v condition.Value) *Builder {
	b.state = b.state.WithHaving(b.state.having.And(condition.Cond(col, op, v)))
	return b
}

// OrHaving adds a HAVING condition joined with OR.
func (b *Builder) OrHaving(col ref.Column, op condition.Operator, v condition.Value) *Builder {
	b.state = b.state.WithHaving(b.state.having.Or(condition.Cond(col, op, v)))
	return b
}

// HavingGroup appends g to HAVING joined with AND. An empty g is ignored.
func (b *Builder) HavingGroup(g condition.Group) *Builder {
	b.state = b.state.WithHaving(b.state.having.AndGroup(g))
	return b
}

// HavingConditions appends the entries of g to HAVING inline, like
// WhereConditions.
func (b *Builder) HavingConditions(g condition.Group) *Builder {
	b.state = b.state.WithHaving(b.state.having.Extend(g))
	return b
}

// OrderBy appends one ORDER BY term.
func (b *Builder) OrderBy(col ref.Column, dir Direction) *Builder {
	b.state = b.state.WithOrderBy(OrderTerm{Column: col, Direction: dir})
	return b
}

// OrderByMultiple appends several ORDER BY terms.
func (b *Builder) OrderByMultiple(terms ...OrderTerm) *Builder {
	b.state = b.state.WithOrderBy(terms...)
	return b
}

// Limit sets LIMIT. n <= 0 is a violation recorded immediately.
func (b *Builder) Limit(n int) *Builder {
	s, err := b.state.WithLimit(n)
	if err != nil {
		b.fail(err)
		return b
	}
	b.state = s
	return b
}

// Offset sets OFFSET. n < 0 is a violation recorded immediately.
func (b *Builder) Offset(n int) *Builder {
	s, err := b.state.WithOffset(n)
	if err != nil {
		b.fail(err)
		return b
	}
	b.state = s
	return b
}

// Distinct turns on SELECT DISTINCT.
func (b *Builder) Distinct() *Builder {
	b.state = b.state.WithDistinct(true)
	return b
}

// Err returns the first violation recorded by Limit or Offset, if any.
func (b *Builder) Err() error {
	return b.err
}

// State returns the current clause snapshot.
func (b *Builder) State() State {
	return b.state
}

// Parameters returns every parameter bound so far, in allocation order.
func (b *Builder) Parameters() []condition.Parameter {
	return b.params.All()
}

// Bound counts the parameters bound so far, including those bound by
// embedded subqueries into their own sets.
func (b *Builder) Bound() int {
	return b.params.Len() + b.params.Detached()
}

// Build validates the current state and renders it. Literals are bound into
// the Builder's parameter set; a failed Build binds nothing.
func (b *Builder) Build() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	if err := Validate(b.state); err != nil {
		return "", err
	}
	return Render(b.state, b.params, b.render)
}

// BuildResult is Build plus the parameter values bound so far.
func (b *Builder) BuildResult() (Result, error) {
	detached := b.params.Detached()
	sql, err := b.Build()
	if err != nil {
		return Result{}, err
	}
	r := newResult(sql, b.params.All())
	r.detached = b.params.Detached() > detached
	return r, nil
}

// Reset clears every clause, the parameter set and any recorded violation.
func (b *Builder) Reset() *Builder {
	b.state = State{}
	b.params.Reset()
	b.err = nil
	return b
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}
