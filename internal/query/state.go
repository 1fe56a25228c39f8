package query

import (
	"strings"

	"github.com/roach88/sqlsafe/internal/condition"
	"github.com/roach88/sqlsafe/internal/contract"
	"github.com/roach88/sqlsafe/internal/ref"
)

// JoinKind is the type of a JOIN clause.
type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
	RightJoin
	FullJoin
	CrossJoin
)

// String returns the SQL keywords, e.g. "LEFT JOIN".
func (k JoinKind) String() string {
	switch k {
	case InnerJoin:
		return "INNER JOIN"
	case LeftJoin:
		return "LEFT JOIN"
	case RightJoin:
		return "RIGHT JOIN"
	case FullJoin:
		return "FULL JOIN"
	case CrossJoin:
		return "CROSS JOIN"
	default:
		return "JOIN"
	}
}

// ParseJoinKind accepts "inner", "left", "right", "full" or "cross", with
// or without a trailing "join". Empty means inner.
func ParseJoinKind(s string) (JoinKind, error) {
	norm := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), " join")
	switch norm {
	case "", "inner":
		return InnerJoin, nil
	case "left":
		return LeftJoin, nil
	case "right":
		return RightJoin, nil
	case "full":
		return FullJoin, nil
	case "cross":
		return CrossJoin, nil
	default:
		return InnerJoin, contract.Errorf("unknown join kind %q", s)
	}
}

// Join is one JOIN clause. On is ignored for CrossJoin.
type Join struct {
	Kind  JoinKind
	Table ref.Table
	On    condition.Group
}

// Direction is an ORDER BY direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// String returns "ASC" or "DESC".
func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// ParseDirection accepts "asc" or "desc" in any case. Empty means Asc.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	default:
		return Asc, contract.Errorf("unknown sort direction %q", s)
	}
}

// OrderTerm is one ORDER BY entry.
type OrderTerm struct {
	Column    ref.Column
	Direction Direction
}

// State is an immutable snapshot of a query's clauses. The zero State is
// empty. Every WithX method returns a modified copy.
type State struct {
	columns  []ref.Column
	from     []ref.Table
	joins    []Join
	where    condition.Group
	groupBy  []ref.Column
	having   condition.Group
	orderBy  []OrderTerm
	limit    *int
	offset   *int
	distinct bool
}

// WithSelect replaces the select list. An empty list renders as "*".
func (s State) WithSelect(cols ...ref.Column) State {
	s.columns = clone(cols)
	return s
}

// WithFrom replaces the FROM tables.
func (s State) WithFrom(tables ...ref.Table) State {
	s.from = clone(tables)
	return s
}

// WithJoin appends a JOIN.
func (s State) WithJoin(j Join) State {
	s.joins = appendClone(s.joins, j)
	return s
}

// WithWhere replaces the WHERE group.
func (s State) WithWhere(g condition.Group) State {
	s.where = g
	return s
}

// WithGroupBy replaces the GROUP BY columns.
func (s State) WithGroupBy(cols ...ref.Column) State {
	s.groupBy = clone(cols)
	return s
}

// WithHaving replaces the HAVING group.
func (s State) WithHaving(g condition.Group) State {
	s.having = g
	return s
}

// WithOrderBy appends ORDER BY terms.
func (s State) WithOrderBy(terms ...OrderTerm) State {
	s.orderBy = appendClone(s.orderBy, terms...)
	return s
}

// WithLimit sets LIMIT. n must be positive.
func (s State) WithLimit(n int) (State, error) {
	if n <= 0 {
		return s, contract.Errorf("limit must be greater than 0, got %d", n)
	}
	s.limit = &n
	return s, nil
}

// WithOffset sets OFFSET. n must not be negative.
func (s State) WithOffset(n int) (State, error) {
	if n < 0 {
		return s, contract.Errorf("offset must not be negative, got %d", n)
	}
	s.offset = &n
	return s, nil
}

// WithDistinct sets the DISTINCT flag.
func (s State) WithDistinct(distinct bool) State {
	s.distinct = distinct
	return s
}

// Columns returns the select list.
func (s State) Columns() []ref.Column { return clone(s.columns) }

// From returns the FROM tables.
func (s State) From() []ref.Table { return clone(s.from) }

// Joins returns the JOIN clauses in order.
func (s State) Joins() []Join { return clone(s.joins) }

// Where returns the WHERE group.
func (s State) Where() condition.Group { return s.where }

// GroupBy returns the GROUP BY columns.
func (s State) GroupBy() []ref.Column { return clone(s.groupBy) }

// Having returns the HAVING group.
func (s State) Having() condition.Group { return s.having }

// OrderBy returns the ORDER BY terms.
func (s State) OrderBy() []OrderTerm { return clone(s.orderBy) }

// Limit returns LIMIT and whether it is set.
func (s State) Limit() (int, bool) {
	if s.limit == nil {
		return 0, false
	}
	return *s.limit, true
}

// Offset returns OFFSET and whether it is set.
func (s State) Offset() (int, bool) {
	if s.offset == nil {
		return 0, false
	}
	return *s.offset, true
}

// Distinct reports the DISTINCT flag.
func (s State) Distinct() bool { return s.distinct }

// IsEmpty reports whether no clause has been configured.
func (s State) IsEmpty() bool {
	return len(s.columns) == 0 && len(s.from) == 0 && len(s.joins) == 0 &&
		s.where.IsEmpty() && len(s.groupBy) == 0 && s.having.IsEmpty() &&
		len(s.orderBy) == 0 && s.limit == nil && s.offset == nil && !s.distinct
}

func clone[T any](in []T) []T {
	if len(in) == 0 {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func appendClone[T any](in []T, items ...T) []T {
	out := make([]T, len(in), len(in)+len(items))
	copy(out, in)
	return append(out, items...)
}
