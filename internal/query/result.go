package query

import (
	"database/sql"

	"github.com/jackc/pgx/v5"

	"github.com/roach88/sqlsafe/internal/condition"
	"github.com/roach88/sqlsafe/internal/contract"
)

// Result is a rendered statement and its parameter values, ready to hand to
// an execution client that understands @name placeholders.
type Result struct {
	SQL    string
	Params map[string]any

	// names keeps allocation order for Args.
	names []string

	// detached is set when SQL contains placeholders bound by an embedded
	// subquery. Their values are not in Params.
	detached bool
}

func newResult(sql string, params []condition.Parameter) Result {
	r := Result{
		SQL:    sql,
		Params: make(map[string]any, len(params)),
		names:  make([]string, len(params)),
	}
	for i, p := range params {
		r.Params[p.Name] = p.Value
		r.names[i] = p.Name
	}
	return r
}

// Executable reports whether SQL can be run with Params alone. It fails when
// an EXISTS subquery bound literals of its own: those placeholders reuse
// names from Params and would silently receive the wrong values.
func (r Result) Executable() error {
	if r.detached {
		return contract.Errorf("subquery literals are not part of the result parameters; compare subquery columns against outer columns instead")
	}
	return nil
}

// Args returns the parameters as sql.NamedArg values in allocation order,
// for database/sql drivers that bind @name placeholders.
func (r Result) Args() ([]any, error) {
	if err := r.Executable(); err != nil {
		return nil, err
	}
	args := make([]any, len(r.names))
	for i, name := range r.names {
		args[i] = sql.Named(name, r.Params[name])
	}
	return args, nil
}

// NamedArgs returns the parameters as pgx.NamedArgs, which pgx rewrites from
// @name to positional placeholders.
func (r Result) NamedArgs() (pgx.NamedArgs, error) {
	if err := r.Executable(); err != nil {
		return nil, err
	}
	args := make(pgx.NamedArgs, len(r.Params))
	for name, v := range r.Params {
		args[name] = v
	}
	return args, nil
}
