// Package condition provides the WHERE/HAVING condition engine for sqlsafe.
//
// A condition is a Group: an ordered sequence of (Connective, Node) entries
// where each Node is either a Leaf comparison or a nested Group. Groups are
// values; every append returns a new Group and leaves the receiver intact.
//
//	g := condition.Where(condition.Cond(age, condition.GreaterThan, condition.Int(18))).
//		Or(condition.Cond(role, condition.Equals, condition.String("admin")))
//
// VALUES:
//
// Operands are a sealed Value variant: Scalar, List, SubqueryValue,
// ColumnValue and None. Only types in this package implement Value, so the
// renderer and the binder switch over a closed set.
//
// PARAMETERS:
//
// Rendering never inlines a literal. Each Scalar (and each List element for
// IN/BETWEEN) is bound into a Params set under the next sequential name
// param_0, param_1, ... and replaced by "@name" in the SQL text. ColumnValue
// operands are emitted as their qualified name and bind nothing. A subquery
// under EXISTS is rendered by its own Build and keeps its own numbering.
//
// NESTED GROUPS:
//
// Nested groups render inline without parentheses unless
// RenderOptions.ParenthesizeGroups is set.
package condition
