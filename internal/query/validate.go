package query

import (
	"github.com/roach88/sqlsafe/internal/contract"
	"github.com/roach88/sqlsafe/internal/ref"
)

// Validate checks the cross-clause rules of s in order and returns the
// first violation.
func Validate(s State) error {
	if len(s.from) == 0 && len(s.joins) == 0 {
		return contract.Errorf("at least one FROM table or JOIN is required")
	}

	if !s.having.IsEmpty() && len(s.groupBy) == 0 {
		return contract.Errorf("HAVING requires GROUP BY")
	}

	if s.offset != nil && s.limit == nil {
		return contract.Errorf("OFFSET requires LIMIT")
	}

	declared := declaredTables(s)
	if err := checkTables("SELECT", s.columns, declared); err != nil {
		return err
	}
	if err := checkTables("GROUP BY", s.groupBy, declared); err != nil {
		return err
	}
	for _, term := range s.orderBy {
		if err := checkTable("ORDER BY", term.Column, declared); err != nil {
			return err
		}
	}

	return nil
}

// declaredTables returns the reference names of every FROM and JOIN table.
func declaredTables(s State) map[string]bool {
	declared := make(map[string]bool, len(s.from)+len(s.joins))
	for _, t := range s.from {
		declared[t.ReferenceName()] = true
	}
	for _, j := range s.joins {
		declared[j.Table.ReferenceName()] = true
	}
	return declared
}

func checkTables(clause string, cols []ref.Column, declared map[string]bool) error {
	for _, c := range cols {
		if err := checkTable(clause, c, declared); err != nil {
			return err
		}
	}
	return nil
}

// checkTable passes unqualified columns.
func checkTable(clause string, c ref.Column, declared map[string]bool) error {
	t, ok := c.Table()
	if !ok {
		return nil
	}
	if !declared[t.ReferenceName()] {
		return contract.Errorf("%s column %s references table %q, which is not in FROM or JOIN",
			clause, c.FullName(), t.ReferenceName())
	}
	return nil
}
