// Package querydoc reads declarative query documents written in YAML or CUE
// and compiles them into query Builders.
//
// A document mirrors the builder surface one clause per key:
//
//	select: [users.id, {column: users.name, alias: n}]
//	from: [users]
//	joins: [{kind: left, table: orders, on: [{column: orders.user_id, op: "=", ref: users.id}]}]
//	where: [{column: users.status, op: eq, value: active}, {join: or, group: [...]}]
//	group_by: [users.id]
//	order_by: [{column: users.id, dir: desc}]
//	limit: 10
//
// Identifiers go through the same validation as hand-built references, and
// every literal is bound as a parameter.
package querydoc

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is a parsed query document.
type Document struct {
	Distinct bool            `yaml:"distinct,omitempty" json:"distinct,omitempty"`
	Select   []ColumnSpec    `yaml:"select,omitempty" json:"select,omitempty"`
	From     []TableSpec     `yaml:"from,omitempty" json:"from,omitempty"`
	Joins    []JoinSpec      `yaml:"joins,omitempty" json:"joins,omitempty"`
	Where    []ConditionSpec `yaml:"where,omitempty" json:"where,omitempty"`
	GroupBy  []ColumnSpec    `yaml:"group_by,omitempty" json:"group_by,omitempty"`
	Having   []ConditionSpec `yaml:"having,omitempty" json:"having,omitempty"`
	OrderBy  []OrderSpec     `yaml:"order_by,omitempty" json:"order_by,omitempty"`
	Limit    *int            `yaml:"limit,omitempty" json:"limit,omitempty"`
	Offset   *int            `yaml:"offset,omitempty" json:"offset,omitempty"`
}

// ColumnSpec is a column reference. In a document it is either a plain
// string ("users.id") or a mapping with column, alias, aggregate and
// distinct keys.
type ColumnSpec struct {
	Column    string `yaml:"column" json:"column"`
	Alias     string `yaml:"alias,omitempty" json:"alias,omitempty"`
	Aggregate string `yaml:"aggregate,omitempty" json:"aggregate,omitempty"`
	Distinct  bool   `yaml:"distinct,omitempty" json:"distinct,omitempty"`
}

// UnmarshalYAML accepts the string and mapping forms.
func (c *ColumnSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		c.Column = node.Value
		return nil
	}
	if err := checkKeys(node, "column", "alias", "aggregate", "distinct"); err != nil {
		return err
	}
	type plain ColumnSpec
	return node.Decode((*plain)(c))
}

// TableSpec is a table reference: a plain string or {table, alias}.
type TableSpec struct {
	Table string `yaml:"table" json:"table"`
	Alias string `yaml:"alias,omitempty" json:"alias,omitempty"`
}

// UnmarshalYAML accepts the string and mapping forms.
func (t *TableSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		t.Table = node.Value
		return nil
	}
	if err := checkKeys(node, "table", "alias"); err != nil {
		return err
	}
	type plain TableSpec
	return node.Decode((*plain)(t))
}

// JoinSpec is one JOIN. Kind defaults to inner.
type JoinSpec struct {
	Kind  string          `yaml:"kind,omitempty" json:"kind,omitempty"`
	Table string          `yaml:"table" json:"table"`
	Alias string          `yaml:"alias,omitempty" json:"alias,omitempty"`
	On    []ConditionSpec `yaml:"on,omitempty" json:"on,omitempty"`
}

// ConditionSpec is either a leaf condition or, when Group is set, a nested
// group. Join connects the item to the one before it: "and" (default) or
// "or".
//
// A leaf takes at most one operand source: value, values, ref, uuid, date
// or query. IS NULL and IS NOT NULL take none.
type ConditionSpec struct {
	Join string `yaml:"join,omitempty" json:"join,omitempty"`

	Column    string `yaml:"column,omitempty" json:"column,omitempty"`
	Aggregate string `yaml:"aggregate,omitempty" json:"aggregate,omitempty"`
	Distinct  bool   `yaml:"distinct,omitempty" json:"distinct,omitempty"`
	Op        string `yaml:"op,omitempty" json:"op,omitempty"`

	Value  any       `yaml:"value,omitempty" json:"value,omitempty"`
	Values []any     `yaml:"values,omitempty" json:"values,omitempty"`
	Ref    string    `yaml:"ref,omitempty" json:"ref,omitempty"`
	UUID   string    `yaml:"uuid,omitempty" json:"uuid,omitempty"`
	Date   string    `yaml:"date,omitempty" json:"date,omitempty"`
	Query  *Document `yaml:"query,omitempty" json:"query,omitempty"`

	Group []ConditionSpec `yaml:"group,omitempty" json:"group,omitempty"`
}

// OrderSpec is one ORDER BY term. A plain string means ascending.
type OrderSpec struct {
	Column    string `yaml:"column" json:"column"`
	Aggregate string `yaml:"aggregate,omitempty" json:"aggregate,omitempty"`
	Dir       string `yaml:"dir,omitempty" json:"dir,omitempty"`
}

// UnmarshalYAML accepts the string and mapping forms.
func (o *OrderSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		o.Column = node.Value
		return nil
	}
	if err := checkKeys(node, "column", "aggregate", "dir"); err != nil {
		return err
	}
	type plain OrderSpec
	return node.Decode((*plain)(o))
}

// checkKeys rejects mapping keys outside allowed. Node.Decode does not
// inherit the decoder's KnownFields setting, so custom unmarshalers check
// themselves.
func checkKeys(node *yaml.Node, allowed ...string) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a string or a mapping", node.Line)
	}
	for i := 0; i < len(node.Content); i += 2 {
		key := node.Content[i]
		known := false
		for _, a := range allowed {
			if key.Value == a {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("line %d: field %s not found", key.Line, key.Value)
		}
	}
	return nil
}
