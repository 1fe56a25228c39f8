package condition

import (
	"fmt"
	"time"
)

// ParamType is the type tag inferred for a bound value.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
	TypeDate    ParamType = "date"
	TypeList    ParamType = "list"
)

// ParamPrefix starts every generated parameter name.
const ParamPrefix = "param_"

// PlaceholderPrefix marks a parameter reference in SQL text.
const PlaceholderPrefix = "@"

// Parameter is one bound literal.
type Parameter struct {
	Name  string
	Value any
	Type  ParamType
}

// Params is an ordered set of parameters. Names are allocated sequentially
// from param_0 and are never reused until Reset.
//
// Params is not safe for concurrent use.
type Params struct {
	list  []Parameter
	index map[string]int

	// detached counts parameters bound by embedded subqueries into their
	// own sets. Their placeholders appear in the SQL but not in list.
	detached int
}

// Checkpoint is a position in a Params to roll back to.
type Checkpoint struct {
	n, detached int
}

// NewParams creates an empty parameter set.
func NewParams() *Params {
	return &Params{index: make(map[string]int)}
}

// Bind returns the SQL text standing in for v. A ColumnValue yields its
// qualified name and binds nothing; anything else is stored under the next
// param_N name and "@param_N" is returned.
func (p *Params) Bind(v Value) string {
	if col, ok := v.(ColumnValue); ok {
		return col.Column.Expr()
	}
	if p.index == nil {
		p.index = make(map[string]int)
	}
	name := fmt.Sprintf("%s%d", ParamPrefix, len(p.list))
	p.index[name] = len(p.list)
	p.list = append(p.list, Parameter{
		Name:  name,
		Value: rawValue(v),
		Type:  InferType(v),
	})
	return PlaceholderPrefix + name
}

// Len returns the number of bound parameters.
func (p *Params) Len() int { return len(p.list) }

// Get looks up a parameter by name.
func (p *Params) Get(name string) (Parameter, bool) {
	i, ok := p.index[name]
	if !ok {
		return Parameter{}, false
	}
	return p.list[i], true
}

// All returns the parameters in allocation order.
func (p *Params) All() []Parameter {
	out := make([]Parameter, len(p.list))
	copy(out, p.list)
	return out
}

// Values returns name → value, dropping type tags.
func (p *Params) Values() map[string]any {
	out := make(map[string]any, len(p.list))
	for _, param := range p.list {
		out[param.Name] = param.Value
	}
	return out
}

// Detached returns how many placeholders in rendered SQL were bound by
// subqueries rather than by p. Such SQL cannot be executed with p's values.
func (p *Params) Detached() int { return p.detached }

// Checkpoint records the current position for Restore.
func (p *Params) Checkpoint() Checkpoint {
	return Checkpoint{n: len(p.list), detached: p.detached}
}

// Restore drops everything bound after c was taken.
func (p *Params) Restore(c Checkpoint) {
	p.Truncate(c.n)
	p.detached = c.detached
}

func (p *Params) detach(n int) {
	p.detached += n
}

// Truncate drops every parameter allocated after the first n.
func (p *Params) Truncate(n int) {
	if n < 0 || n >= len(p.list) {
		return
	}
	for _, param := range p.list[n:] {
		delete(p.index, param.Name)
	}
	p.list = p.list[:n]
}

// Reset empties the set; the next name allocated is param_0.
func (p *Params) Reset() {
	p.list = nil
	p.index = make(map[string]int)
	p.detached = 0
}

// InferType derives a ParamType from the shape of v. Shapes without a
// specific tag default to TypeString.
func InferType(v Value) ParamType {
	switch val := v.(type) {
	case List:
		return TypeList
	case Scalar:
		switch val.v.(type) {
		case int64, uint64, float64:
			return TypeNumber
		case bool:
			return TypeBoolean
		case time.Time:
			return TypeDate
		default:
			return TypeString
		}
	default:
		return TypeString
	}
}
