package condition

import (
	"fmt"
	"strings"

	"github.com/roach88/sqlsafe/internal/contract"
)

// RenderOptions controls group rendering.
type RenderOptions struct {
	// ParenthesizeGroups wraps each nested group in parentheses. When false,
	// nested groups are rendered inline.
	ParenthesizeGroups bool
}

// Render flattens g into SQL text, binding literals into p. On error every
// parameter bound during the call is released.
func Render(g Group, p *Params, opts RenderOptions) (string, error) {
	mark := p.Checkpoint()
	sql, err := renderGroup(g, p, opts)
	if err != nil {
		p.Restore(mark)
		return "", err
	}
	return sql, nil
}

func renderGroup(g Group, p *Params, opts RenderOptions) (string, error) {
	parts := make([]string, 0, len(g.entries)*2)
	for i, e := range g.entries {
		if i > 0 && e.Connective != ConnNone {
			parts = append(parts, e.Connective.String())
		}

		switch node := e.Node.(type) {
		case Leaf:
			sql, err := RenderLeaf(node, p)
			if err != nil {
				return "", err
			}
			parts = append(parts, sql)
		case Group:
			sql, err := renderGroup(node, p, opts)
			if err != nil {
				return "", err
			}
			if opts.ParenthesizeGroups {
				sql = "(" + sql + ")"
			}
			parts = append(parts, sql)
		default:
			return "", contract.Errorf("unsupported condition node %T", e.Node)
		}
	}
	return strings.Join(parts, " "), nil
}

// RenderLeaf renders one comparison, binding its literals into p.
func RenderLeaf(l Leaf, p *Params) (string, error) {
	op := l.Operator
	if !op.valid() {
		return "", contract.Errorf("unknown operator %d", int(op))
	}

	switch op {
	case Exists, NotExists:
		return renderExists(l, p)
	}

	if l.Column.IsZero() {
		return "", contract.Errorf("operator %s requires a column", op)
	}
	col := l.Column.Expr()

	switch {
	case op == IsNull || op == IsNotNull:
		return col + " " + op.String(), nil

	case op == In || op == NotIn:
		list, ok := l.Operand.(List)
		if !ok || len(list) == 0 {
			return "", contract.Errorf("operator %s on %s requires a non-empty list", op, col)
		}
		placeholders := make([]string, len(list))
		for i, elem := range list {
			if err := checkBindable(op, col, elem); err != nil {
				return "", err
			}
			placeholders[i] = p.Bind(elem)
		}
		return fmt.Sprintf("%s %s (%s)", col, op, strings.Join(placeholders, ", ")), nil

	case op == Between || op == NotBetween:
		list, ok := l.Operand.(List)
		if !ok || len(list) != 2 {
			return "", contract.Errorf("operator %s on %s requires a list of exactly 2 values", op, col)
		}
		for _, elem := range list {
			if err := checkBindable(op, col, elem); err != nil {
				return "", err
			}
		}
		low := p.Bind(list[0])
		high := p.Bind(list[1])
		return fmt.Sprintf("%s %s %s AND %s", col, op, low, high), nil

	case op.isPattern():
		if s, ok := l.Operand.(Scalar); !ok || !s.isString() {
			return "", contract.Errorf("operator %s on %s requires a string pattern", op, col)
		}
		return fmt.Sprintf("%s %s %s", col, op, p.Bind(l.Operand)), nil

	case op.isComparison():
		if err := checkBindable(op, col, l.Operand); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", col, op, p.Bind(l.Operand)), nil
	}

	return "", contract.Errorf("unsupported operator %s", op)
}

// renderExists embeds the subquery's SQL. Its literals stay in the
// subquery's own parameter set and are counted as detached in p.
func renderExists(l Leaf, p *Params) (string, error) {
	sub, ok := l.Operand.(SubqueryValue)
	if !ok || sub.Query == nil {
		return "", contract.Errorf("operator %s requires a subquery", l.Operator)
	}
	before := sub.Query.Bound()
	sql, err := sub.Query.Build()
	if err != nil {
		return "", fmt.Errorf("%s subquery: %w", l.Operator, err)
	}
	p.detach(sub.Query.Bound() - before)
	return fmt.Sprintf("%s (%s)", l.Operator, sql), nil
}

// checkBindable rejects operands that have no placeholder form.
func checkBindable(op Operator, col string, v Value) error {
	switch val := v.(type) {
	case nil, None:
		return contract.Errorf("operator %s on %s requires a value", op, col)
	case SubqueryValue:
		return contract.Errorf("operator %s on %s does not accept a subquery", op, col)
	case List:
		for _, elem := range val {
			if err := checkBindable(op, col, elem); err != nil {
				return err
			}
		}
	case Scalar:
		if u, ok := val.v.(uint64); ok {
			return contract.Errorf("operand %d on %s exceeds the int64 range", u, col)
		}
	}
	return nil
}
