// Package query builds a single parameterized SQL SELECT statement.
//
// ARCHITECTURE:
//
// State is an immutable snapshot of every clause. Each WithX transition
// returns a new State, so validation and rendering are pure functions of a
// State plus a parameter set:
//
//	[Builder] --WithX--> [State] --Validate--> --Render(Params)--> SQL
//
// Builder is the mutable, chainable façade over State. It owns the
// parameter set shared by WHERE, JOIN ... ON and HAVING for its lifetime.
//
// VALIDATION:
//
// Build checks, in order, failing on the first violation:
//  1. at least one FROM table or JOIN
//  2. HAVING requires GROUP BY
//  3. OFFSET requires LIMIT
//  4. every table-qualified column in SELECT, GROUP BY and ORDER BY names a
//     declared FROM/JOIN table (by alias when present)
//
// WHERE and HAVING columns are not checked against declared tables.
// Limit and offset ranges are checked when they are assigned.
//
// RENDERING:
//
// Clause order is fixed:
//
//	SELECT [DISTINCT] cols|* FROM tables joins [WHERE] [GROUP BY] [HAVING] [ORDER BY] [LIMIT] [OFFSET]
//
// Identifiers are emitted verbatim and never quoted; safety comes from
// ident validation and from binding every literal as an @param_N placeholder.
//
// PARAMETERS:
//
// Parameter numbering runs across the lifetime of a Builder. Building the
// same Builder twice without Reset allocates fresh names on the second call
// and keeps the earlier entries. A subquery used under EXISTS is built by
// its own Builder with its own numbering; its values are not merged into
// the outer Result.
//
// A Builder is meant for one owner at a time and is not safe for concurrent
// use.
package query
