// Package ref provides immutable table and column references.
//
// A reference can only be obtained through a constructor that runs an
// ident.Validator, so every name that reaches the renderer has already been
// checked. References are never re-validated and never mutated: As and
// WithAggregate return new values.
//
//	users, _ := ref.NewTable(nil, "users")
//	u, _ := users.As("u")
//	id, _ := ref.NewQualifiedColumn(nil, u, "id")
//	id.FullName()                          // "u.id"
//	id.WithAggregate(ref.Count, true).Expr() // "COUNT(DISTINCT u.id)"
//
// A nil validator selects ident.Default().
package ref
