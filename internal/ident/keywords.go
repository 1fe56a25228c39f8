package ident

// Reserved is the closed set of SQL keywords rejected as identifiers.
// Matching is case-insensitive.
var Reserved = []string{
	// Query clauses and operators
	"SELECT", "FROM", "WHERE", "JOIN", "INNER", "LEFT", "RIGHT", "FULL", "OUTER", "CROSS",
	"ON", "AS", "AND", "OR", "NOT", "IN", "IS", "NULL", "LIKE", "ILIKE",
	"BETWEEN", "EXISTS", "DISTINCT", "ALL", "ANY", "SOME", "GROUP", "BY", "HAVING", "ORDER",
	"ASC", "DESC", "LIMIT", "OFFSET", "UNION", "INTERSECT", "EXCEPT", "CASE", "WHEN", "THEN",
	"ELSE", "END", "CAST", "TRUE", "FALSE",

	// Aggregates
	"COUNT", "SUM", "AVG", "MIN", "MAX",

	// DML
	"INSERT", "INTO", "VALUES", "UPDATE", "SET", "DELETE", "MERGE", "TRUNCATE",

	// DDL
	"CREATE", "ALTER", "DROP", "TABLE", "VIEW", "INDEX", "DATABASE", "SCHEMA", "COLUMN", "RENAME",

	// Constraints
	"PRIMARY", "KEY", "FOREIGN", "REFERENCES", "UNIQUE", "CHECK", "DEFAULT", "CONSTRAINT",

	// Transaction control
	"BEGIN", "COMMIT", "ROLLBACK", "TRANSACTION",
}
