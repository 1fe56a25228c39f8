package condition

import (
	"strings"

	"github.com/roach88/sqlsafe/internal/contract"
)

// Operator is a comparison operator in a Leaf.
type Operator int

const (
	Equals Operator = iota
	NotEquals
	GreaterThan
	GreaterThanOrEqual
	LessThan
	LessThanOrEqual
	Like
	NotLike
	ILike
	NotILike
	IsNull
	IsNotNull
	In
	NotIn
	Between
	NotBetween
	Exists
	NotExists
)

type operatorInfo struct {
	sql  string // SQL text
	name string // identifier form accepted by ParseOperator
}

var operators = []operatorInfo{
	Equals:             {"=", "eq"},
	NotEquals:          {"<>", "ne"},
	GreaterThan:        {">", "gt"},
	GreaterThanOrEqual: {">=", "gte"},
	LessThan:           {"<", "lt"},
	LessThanOrEqual:    {"<=", "lte"},
	Like:               {"LIKE", "like"},
	NotLike:            {"NOT LIKE", "not_like"},
	ILike:              {"ILIKE", "ilike"},
	NotILike:           {"NOT ILIKE", "not_ilike"},
	IsNull:             {"IS NULL", "is_null"},
	IsNotNull:          {"IS NOT NULL", "is_not_null"},
	In:                 {"IN", "in"},
	NotIn:              {"NOT IN", "not_in"},
	Between:            {"BETWEEN", "between"},
	NotBetween:         {"NOT BETWEEN", "not_between"},
	Exists:             {"EXISTS", "exists"},
	NotExists:          {"NOT EXISTS", "not_exists"},
}

// Operators lists every operator in declaration order.
func Operators() []Operator {
	ops := make([]Operator, len(operators))
	for i := range operators {
		ops[i] = Operator(i)
	}
	return ops
}

// String returns the SQL text of op.
func (op Operator) String() string {
	if !op.valid() {
		return "UNKNOWN"
	}
	return operators[op].sql
}

// Name returns the identifier form of op, e.g. "not_between".
func (op Operator) Name() string {
	if !op.valid() {
		return "unknown"
	}
	return operators[op].name
}

func (op Operator) valid() bool {
	return op >= 0 && int(op) < len(operators)
}

// ParseOperator accepts either the SQL text ("<>", "not in") or the
// identifier form ("ne", "not_in"), case-insensitively. "!=" is accepted as
// NotEquals.
func ParseOperator(s string) (Operator, error) {
	norm := strings.Join(strings.Fields(strings.ToLower(s)), " ")
	if norm == "!=" {
		return NotEquals, nil
	}
	for i, info := range operators {
		if norm == strings.ToLower(info.sql) || norm == info.name {
			return Operator(i), nil
		}
	}
	return 0, contract.Errorf("unknown operator %q", s)
}

func (op Operator) isComparison() bool {
	return op >= Equals && op <= LessThanOrEqual
}

func (op Operator) isPattern() bool {
	return op >= Like && op <= NotILike
}
