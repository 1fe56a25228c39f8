// Package harness runs query scenarios: a query document plus the SQL,
// parameters, error or row count it is expected to produce.
//
// A scenario file looks like:
//
//	name: active_users
//	description: equality filter binds one parameter
//	query:
//	  from: [users]
//	  where: [{column: users.status, op: eq, value: active}]
//	expect:
//	  sql: SELECT * FROM users WHERE users.status = @param_0
//	  params: {param_0: active}
//	  rows: 3
//
// The query may instead live in its own YAML or CUE file referenced by
// query_file, resolved relative to the scenario.
//
// When expect.rows is set the built SQL is executed against a fresh
// in-memory SQLite database seeded with the testutil fixture, so the same
// scenario checks both the rendered text and that a real engine accepts it.
//
// Golden snapshots of {sql, params, error} live in testdata/golden and are
// regenerated with:
//
//	go test ./internal/harness -update
package harness
