package query

import (
	"strconv"
	"strings"

	"github.com/roach88/sqlsafe/internal/condition"
	"github.com/roach88/sqlsafe/internal/ref"
)

// Render serializes s, binding literals into p in clause order: JOIN ... ON,
// WHERE, then HAVING. Render does not validate; call Validate first. On
// error every parameter bound during the call is released.
func Render(s State, p *condition.Params, opts condition.RenderOptions) (string, error) {
	mark := p.Checkpoint()
	sql, err := render(s, p, opts)
	if err != nil {
		p.Restore(mark)
		return "", err
	}
	return sql, nil
}

func render(s State, p *condition.Params, opts condition.RenderOptions) (string, error) {
	tokens := []string{"SELECT"}
	if s.distinct {
		tokens = append(tokens, "DISTINCT")
	}

	if len(s.columns) == 0 {
		tokens = append(tokens, "*")
	} else {
		tokens = append(tokens, joinColumns(s.columns, ref.Column.SelectExpr))
	}

	tokens = append(tokens, "FROM")
	if len(s.from) > 0 {
		names := make([]string, len(s.from))
		for i, t := range s.from {
			names[i] = t.String()
		}
		tokens = append(tokens, strings.Join(names, ", "))
	}

	for _, j := range s.joins {
		tokens = append(tokens, j.Kind.String(), j.Table.String())
		if j.Kind == CrossJoin || j.On.IsEmpty() {
			continue
		}
		on, err := condition.Render(j.On, p, opts)
		if err != nil {
			return "", err
		}
		tokens = append(tokens, "ON", on)
	}

	if !s.where.IsEmpty() {
		where, err := condition.Render(s.where, p, opts)
		if err != nil {
			return "", err
		}
		tokens = append(tokens, "WHERE", where)
	}

	if len(s.groupBy) > 0 {
		tokens = append(tokens, "GROUP BY", joinColumns(s.groupBy, ref.Column.Expr))
	}

	if !s.having.IsEmpty() {
		having, err := condition.Render(s.having, p, opts)
		if err != nil {
			return "", err
		}
		tokens = append(tokens, "HAVING", having)
	}

	if len(s.orderBy) > 0 {
		terms := make([]string, len(s.orderBy))
		for i, term := range s.orderBy {
			terms[i] = term.Column.Expr() + " " + term.Direction.String()
		}
		tokens = append(tokens, "ORDER BY", strings.Join(terms, ", "))
	}

	if s.limit != nil {
		tokens = append(tokens, "LIMIT", strconv.Itoa(*s.limit))
	}
	if s.offset != nil {
		tokens = append(tokens, "OFFSET", strconv.Itoa(*s.offset))
	}

	return strings.TrimSpace(strings.Join(tokens, " ")), nil
}

func joinColumns(cols []ref.Column, expr func(ref.Column) string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = expr(c)
	}
	return strings.Join(parts, ", ")
}
