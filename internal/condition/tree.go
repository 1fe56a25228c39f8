package condition

import (
	"github.com/roach88/sqlsafe/internal/ref"
)

// Connective joins an entry to the one before it.
type Connective int

const (
	ConnNone Connective = iota
	ConnAnd
	ConnOr
)

// String returns the uppercase keyword, or "" for ConnNone.
func (c Connective) String() string {
	switch c {
	case ConnAnd:
		return "AND"
	case ConnOr:
		return "OR"
	default:
		return ""
	}
}

// Node is a sealed interface: a Leaf or a Group.
type Node interface {
	conditionNode()
}

// Leaf is a single column/operator/operand comparison.
type Leaf struct {
	Column   ref.Column
	Operator Operator
	Operand  Value
}

func (Leaf) conditionNode() {}

// Cond creates a Leaf. A nil operand becomes None.
func Cond(col ref.Column, op Operator, operand Value) Leaf {
	if operand == nil {
		operand = None{}
	}
	return Leaf{Column: col, Operator: op, Operand: operand}
}

// Exists creates an EXISTS leaf over q.
func Exists(q Subquery) Leaf {
	return Leaf{Operator: Exists, Operand: Sub(q)}
}

// NotExists creates a NOT EXISTS leaf over q.
func NotExists(q Subquery) Leaf {
	return Leaf{Operator: NotExists, Operand: Sub(q)}
}

// Entry is one element of a Group.
type Entry struct {
	Connective Connective
	Node       Node
}

// Group is an ordered, connective-joined sequence of leaves and nested groups.
// The first entry always has ConnNone. The zero Group is empty and usable.
type Group struct {
	entries []Entry
}

func (Group) conditionNode() {}

// Where starts a group with leaf.
func Where(leaf Leaf) Group {
	return Group{}.append(ConnNone, leaf)
}

// And appends leaf joined with AND. On an empty group leaf becomes the first
// entry and carries no connective.
func (g Group) And(leaf Leaf) Group {
	return g.append(ConnAnd, leaf)
}

// Or appends leaf joined with OR, seeding an empty group like And.
func (g Group) Or(leaf Leaf) Group {
	return g.append(ConnOr, leaf)
}

// AndGroup appends sub joined with AND. An empty sub is skipped.
func (g Group) AndGroup(sub Group) Group {
	if sub.IsEmpty() {
		return g
	}
	return g.append(ConnAnd, sub)
}

// OrGroup appends sub joined with OR. An empty sub is skipped.
func (g Group) OrGroup(sub Group) Group {
	if sub.IsEmpty() {
		return g
	}
	return g.append(ConnOr, sub)
}

// Extend appends the entries of other inline, the first joined with AND.
func (g Group) Extend(other Group) Group {
	for i, e := range other.entries {
		conn := e.Connective
		if i == 0 {
			conn = ConnAnd
		}
		g = g.append(conn, e.Node)
	}
	return g
}

// Len returns the number of top-level entries.
func (g Group) Len() int { return len(g.entries) }

// IsEmpty reports whether g has no entries.
func (g Group) IsEmpty() bool { return len(g.entries) == 0 }

// Entries returns a copy of the top-level entries.
func (g Group) Entries() []Entry {
	out := make([]Entry, len(g.entries))
	copy(out, g.entries)
	return out
}

// append copies the backing slice so earlier Group values never observe
// later appends.
func (g Group) append(conn Connective, node Node) Group {
	if len(g.entries) == 0 {
		conn = ConnNone
	}
	entries := make([]Entry, len(g.entries), len(g.entries)+1)
	copy(entries, g.entries)
	return Group{entries: append(entries, Entry{Connective: conn, Node: node})}
}
