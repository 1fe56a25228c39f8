package store

import (
	"context"
	"fmt"

	"github.com/roach88/sqlsafe/internal/query"
)

// Rows is a fully read result set.
type Rows struct {
	Columns []string `json:"columns"`
	Values  [][]any  `json:"values"`
}

// Len returns the number of rows.
func (r *Rows) Len() int {
	return len(r.Values)
}

// Query runs res and reads every row. TEXT and BLOB values are returned as
// strings. A result that embeds subquery literals is rejected with a
// contract violation before anything is sent to SQLite.
//
// Returns empty Values (not nil) when nothing matches.
func (s *Store) Query(ctx context.Context, res query.Result) (*Rows, error) {
	args, err := res.Args()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, res.SQL, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	out := &Rows{Columns: cols, Values: [][]any{}}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		out.Values = append(out.Values, vals)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}
