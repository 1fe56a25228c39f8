package querydoc

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/sqlsafe/internal/condition"
	"github.com/roach88/sqlsafe/internal/contract"
	"github.com/roach88/sqlsafe/internal/ident"
	"github.com/roach88/sqlsafe/internal/query"
	"github.com/roach88/sqlsafe/internal/ref"
)

// dateLayouts are tried in order for date operands.
var dateLayouts = []string{time.RFC3339Nano, time.DateTime, time.DateOnly}

// CompileOption configures Compile.
type CompileOption func(*compiler)

// WithValidator validates identifiers with v instead of ident.Default.
func WithValidator(v ident.Validator) CompileOption {
	return func(c *compiler) {
		c.validator = v
	}
}

// WithBuilderOptions passes opts to every Builder Compile creates,
// including subquery builders.
func WithBuilderOptions(opts ...query.Option) CompileOption {
	return func(c *compiler) {
		c.builderOpts = append(c.builderOpts, opts...)
	}
}

type compiler struct {
	validator   ident.Validator
	builderOpts []query.Option
}

// Compile turns doc into a configured Builder. Identifier and operand
// problems are reported with the document path of the offending item, e.g.
// "where[2].group[0]: ...", and still match contract.ErrViolation.
//
// Cross-clause rules such as HAVING without GROUP BY are left to Build.
func Compile(doc *Document, opts ...CompileOption) (*query.Builder, error) {
	c := &compiler{}
	for _, opt := range opts {
		opt(c)
	}
	if c.validator == nil {
		c.validator = ident.Default()
	}
	return c.document(doc)
}

func (c *compiler) document(doc *Document) (*query.Builder, error) {
	if doc == nil {
		return nil, contract.Errorf("query document is empty")
	}
	b := query.New(c.builderOpts...)

	if doc.Distinct {
		b.Distinct()
	}

	if len(doc.Select) > 0 {
		cols, err := c.columns("select", doc.Select)
		if err != nil {
			return nil, err
		}
		b.Select(cols...)
	}

	if len(doc.From) > 0 {
		tables := make([]ref.Table, len(doc.From))
		for i, spec := range doc.From {
			t, err := c.table(spec.Table, spec.Alias)
			if err != nil {
				return nil, fmt.Errorf("from[%d]: %w", i, err)
			}
			tables[i] = t
		}
		b.FromTables(tables...)
	}

	for i, spec := range doc.Joins {
		path := fmt.Sprintf("joins[%d]", i)
		kind, err := query.ParseJoinKind(spec.Kind)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		t, err := c.table(spec.Table, spec.Alias)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		on, err := c.group(path+".on", spec.On)
		if err != nil {
			return nil, err
		}
		b.Join(kind, t, on)
	}

	if len(doc.Where) > 0 {
		where, err := c.group("where", doc.Where)
		if err != nil {
			return nil, err
		}
		b.WhereConditions(where)
	}

	if len(doc.GroupBy) > 0 {
		cols, err := c.columns("group_by", doc.GroupBy)
		if err != nil {
			return nil, err
		}
		b.GroupBy(cols...)
	}

	if len(doc.Having) > 0 {
		having, err := c.group("having", doc.Having)
		if err != nil {
			return nil, err
		}
		b.HavingConditions(having)
	}

	for i, spec := range doc.OrderBy {
		col, err := c.column(ColumnSpec{Column: spec.Column, Aggregate: spec.Aggregate})
		if err != nil {
			return nil, fmt.Errorf("order_by[%d]: %w", i, err)
		}
		dir, err := query.ParseDirection(spec.Dir)
		if err != nil {
			return nil, fmt.Errorf("order_by[%d]: %w", i, err)
		}
		b.OrderBy(col, dir)
	}

	if doc.Limit != nil {
		b.Limit(*doc.Limit)
	}
	if doc.Offset != nil {
		b.Offset(*doc.Offset)
	}
	if err := b.Err(); err != nil {
		return nil, err
	}
	return b, nil
}

func (c *compiler) table(name, alias string) (ref.Table, error) {
	t, err := ref.NewTable(c.validator, name)
	if err != nil {
		return ref.Table{}, err
	}
	if alias == "" {
		return t, nil
	}
	return t.As(alias)
}

func (c *compiler) columns(path string, specs []ColumnSpec) ([]ref.Column, error) {
	cols := make([]ref.Column, len(specs))
	for i, spec := range specs {
		col, err := c.column(spec)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", path, i, err)
		}
		cols[i] = col
	}
	return cols, nil
}

func (c *compiler) column(spec ColumnSpec) (ref.Column, error) {
	col, err := ref.ParseColumn(c.validator, spec.Column)
	if err != nil {
		return ref.Column{}, err
	}
	if spec.Aggregate != "" {
		fn, err := ref.ParseAggregate(spec.Aggregate)
		if err != nil {
			return ref.Column{}, err
		}
		col = col.WithAggregate(fn, spec.Distinct)
	}
	if spec.Alias != "" {
		return col.As(spec.Alias)
	}
	return col, nil
}

// group compiles specs into one Group. An empty list yields an empty Group.
func (c *compiler) group(path string, specs []ConditionSpec) (condition.Group, error) {
	var g condition.Group
	for i, spec := range specs {
		itemPath := fmt.Sprintf("%s[%d]", path, i)

		or, err := parseJoin(spec.Join)
		if err != nil {
			return condition.Group{}, fmt.Errorf("%s: %w", itemPath, err)
		}

		if spec.Group != nil {
			if spec.Op != "" || spec.Column != "" {
				return condition.Group{}, fmt.Errorf("%s: %w", itemPath,
					contract.Errorf("a group item cannot also carry column or op"))
			}
			sub, err := c.group(itemPath+".group", spec.Group)
			if err != nil {
				return condition.Group{}, err
			}
			if or {
				g = g.OrGroup(sub)
			} else {
				g = g.AndGroup(sub)
			}
			continue
		}

		leaf, err := c.leaf(spec)
		if err != nil {
			return condition.Group{}, fmt.Errorf("%s: %w", itemPath, err)
		}
		if or {
			g = g.Or(leaf)
		} else {
			g = g.And(leaf)
		}
	}
	return g, nil
}

func parseJoin(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "and":
		return false, nil
	case "or":
		return true, nil
	default:
		return false, contract.Errorf("unknown join %q, want and or or", s)
	}
}

func (c *compiler) leaf(spec ConditionSpec) (condition.Leaf, error) {
	op, err := condition.ParseOperator(spec.Op)
	if err != nil {
		return condition.Leaf{}, err
	}

	if op == condition.Exists || op == condition.NotExists {
		if spec.Query == nil {
			return condition.Leaf{}, contract.Errorf("operator %s requires a query", op)
		}
		if extra := leafFields(spec); len(extra) > 0 {
			return condition.Leaf{}, contract.Errorf("operator %s takes only a query, got %s", op, strings.Join(extra, ", "))
		}
		sub, err := c.document(spec.Query)
		if err != nil {
			return condition.Leaf{}, fmt.Errorf("query: %w", err)
		}
		if op == condition.Exists {
			return condition.Exists(sub), nil
		}
		return condition.NotExists(sub), nil
	}

	col, err := c.column(ColumnSpec{Column: spec.Column, Aggregate: spec.Aggregate, Distinct: spec.Distinct})
	if err != nil {
		return condition.Leaf{}, err
	}
	operand, err := c.operand(spec)
	if err != nil {
		return condition.Leaf{}, err
	}
	return condition.Cond(col, op, operand), nil
}

// leafFields names the column and scalar operand fields set on spec.
func leafFields(spec ConditionSpec) []string {
	var set []string
	if spec.Column != "" {
		set = append(set, "column")
	}
	if spec.Aggregate != "" {
		set = append(set, "aggregate")
	}
	if spec.Distinct {
		set = append(set, "distinct")
	}
	if spec.Value != nil {
		set = append(set, "value")
	}
	if spec.Values != nil {
		set = append(set, "values")
	}
	if spec.Ref != "" {
		set = append(set, "ref")
	}
	if spec.UUID != "" {
		set = append(set, "uuid")
	}
	if spec.Date != "" {
		set = append(set, "date")
	}
	return set
}

// operand resolves the single operand source of a leaf.
func (c *compiler) operand(spec ConditionSpec) (condition.Value, error) {
	var sources []string
	if spec.Value != nil {
		sources = append(sources, "value")
	}
	if spec.Values != nil {
		sources = append(sources, "values")
	}
	if spec.Ref != "" {
		sources = append(sources, "ref")
	}
	if spec.UUID != "" {
		sources = append(sources, "uuid")
	}
	if spec.Date != "" {
		sources = append(sources, "date")
	}
	if spec.Query != nil {
		sources = append(sources, "query")
	}
	if len(sources) > 1 {
		return nil, contract.Errorf("condition has more than one operand: %s", strings.Join(sources, ", "))
	}

	switch {
	case spec.Values != nil:
		return condition.ListOf(spec.Values...), nil
	case spec.Ref != "":
		col, err := ref.ParseColumn(c.validator, spec.Ref)
		if err != nil {
			return nil, err
		}
		return condition.Col(col), nil
	case spec.UUID != "":
		id, err := uuid.Parse(spec.UUID)
		if err != nil {
			return nil, contract.Errorf("invalid uuid %q: %v", spec.UUID, err)
		}
		return condition.UUID(id), nil
	case spec.Date != "":
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, spec.Date); err == nil {
				return condition.Date(t), nil
			}
		}
		return nil, contract.Errorf("invalid date %q", spec.Date)
	case spec.Query != nil:
		sub, err := c.document(spec.Query)
		if err != nil {
			return nil, fmt.Errorf("query: %w", err)
		}
		return condition.Sub(sub), nil
	default:
		return condition.Of(spec.Value), nil
	}
}
