package condition

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/sqlsafe/internal/ref"
)

// Value is a sealed interface over condition operands.
// Only Scalar, List, SubqueryValue, ColumnValue and None implement it.
type Value interface {
	conditionValue()
}

// Scalar is a single literal: string, int64, float64, bool or time.Time.
type Scalar struct {
	v any
}

func (Scalar) conditionValue() {}

// Raw returns the Go value that will be bound.
func (s Scalar) Raw() any { return s.v }

func (s Scalar) isString() bool {
	_, ok := s.v.(string)
	return ok
}

// String creates a string Scalar.
func String(s string) Scalar { return Scalar{v: s} }

// Int creates a numeric Scalar.
func Int(n int64) Scalar { return Scalar{v: n} }

// Uint creates a numeric Scalar. Values above math.MaxInt64 keep their
// unsigned form and fail to render, since no placeholder can carry them.
func Uint(n uint64) Scalar {
	if n > math.MaxInt64 {
		return Scalar{v: n}
	}
	return Int(int64(n))
}

// Float creates a numeric Scalar.
func Float(f float64) Scalar { return Scalar{v: f} }

// Bool creates a boolean Scalar.
func Bool(b bool) Scalar { return Scalar{v: b} }

// Date creates a date Scalar.
func Date(t time.Time) Scalar { return Scalar{v: t} }

// UUID creates a string Scalar holding the canonical UUID text.
func UUID(u uuid.UUID) Scalar { return Scalar{v: u.String()} }

// List is an ordered list of operands, used by IN and BETWEEN.
type List []Value

func (List) conditionValue() {}

// ListOf converts each element with Of.
func ListOf(vals ...any) List {
	l := make(List, len(vals))
	for i, v := range vals {
		l[i] = Of(v)
	}
	return l
}

// Subquery is anything that renders a standalone SELECT. *query.Builder
// satisfies it.
type Subquery interface {
	Build() (string, error)

	// Bound counts every parameter bound so far, including those bound by
	// the subquery's own subqueries.
	Bound() int
}

// SubqueryValue is the operand of EXISTS and NOT EXISTS.
type SubqueryValue struct {
	Query Subquery
}

func (SubqueryValue) conditionValue() {}

// Sub wraps q as an operand.
func Sub(q Subquery) SubqueryValue { return SubqueryValue{Query: q} }

// ColumnValue compares against another column. It is rendered as the
// column's qualified name and never becomes a parameter.
type ColumnValue struct {
	Column ref.Column
}

func (ColumnValue) conditionValue() {}

// Col wraps c as an operand.
func Col(c ref.Column) ColumnValue { return ColumnValue{Column: c} }

// None is the operand of IS NULL and IS NOT NULL.
type None struct{}

func (None) conditionValue() {}

// Of converts a Go value into a Value. Values that already implement Value
// are returned unchanged; unrecognized types become a Scalar that binds as
// a string-typed parameter.
func Of(v any) Value {
	switch val := v.(type) {
	case nil:
		return None{}
	case Value:
		return val
	case string:
		return String(val)
	case int:
		return Int(int64(val))
	case int8:
		return Int(int64(val))
	case int16:
		return Int(int64(val))
	case int32:
		return Int(int64(val))
	case int64:
		return Int(val)
	case uint:
		return Uint(uint64(val))
	case uint8:
		return Uint(uint64(val))
	case uint16:
		return Uint(uint64(val))
	case uint32:
		return Uint(uint64(val))
	case uint64:
		return Uint(val)
	case float32:
		return Float(float64(val))
	case float64:
		return Float(val)
	case bool:
		return Bool(val)
	case time.Time:
		return Date(val)
	case uuid.UUID:
		return UUID(val)
	case ref.Column:
		return Col(val)
	case Subquery:
		return Sub(val)
	case []any:
		return ListOf(val...)
	case []string:
		l := make(List, len(val))
		for i, s := range val {
			l[i] = String(s)
		}
		return l
	case []int:
		l := make(List, len(val))
		for i, n := range val {
			l[i] = Int(int64(n))
		}
		return l
	case []int64:
		l := make(List, len(val))
		for i, n := range val {
			l[i] = Int(n)
		}
		return l
	case []float64:
		l := make(List, len(val))
		for i, f := range val {
			l[i] = Float(f)
		}
		return l
	default:
		return Scalar{v: val}
	}
}

// rawValue unwraps v into the Go value stored in a Parameter.
func rawValue(v Value) any {
	switch val := v.(type) {
	case Scalar:
		return val.v
	case List:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = rawValue(elem)
		}
		return out
	case ColumnValue:
		return val.Column.Expr()
	case None:
		return nil
	default:
		return fmt.Sprintf("%v", v)
	}
}
