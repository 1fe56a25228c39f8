package harness

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/sqlsafe/internal/ident"
	"github.com/roach88/sqlsafe/internal/query"
	"github.com/roach88/sqlsafe/internal/querydoc"
	"github.com/roach88/sqlsafe/internal/testutil"
)

// Harness holds the settings shared by every scenario run.
type Harness struct {
	validator   ident.Validator
	builderOpts []query.Option
	logger      *slog.Logger
}

// Option configures a run.
type Option func(*Harness)

// WithValidator validates identifiers with v instead of ident.Default.
func WithValidator(v ident.Validator) Option {
	return func(h *Harness) {
		h.validator = v
	}
}

// WithBuilderOptions applies opts to every Builder a scenario creates.
func WithBuilderOptions(opts ...query.Option) Option {
	return func(h *Harness) {
		h.builderOpts = append(h.builderOpts, opts...)
	}
}

// WithLogger sends debug output to logger. By default output is discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// Run builds the scenario's query and checks every expectation.
//
// A build failure is an outcome, compared against expect.error. Run returns
// an error only when the scenario cannot be evaluated at all: an unreadable
// query_file or a fixture database that fails to open.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	h := &Harness{
		validator: ident.Default(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs by default
	}
	for _, opt := range opts {
		opt(h)
	}
	return h.run(scenario)
}

func (h *Harness) run(scenario *Scenario) (*Result, error) {
	doc := scenario.Query
	if scenario.QueryFile != "" {
		loaded, err := querydoc.Load(scenario.QueryFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load query file: %w", err)
		}
		doc = loaded
	}

	builderOpts := h.builderOpts
	if scenario.ParenthesizeGroups {
		builderOpts = append(builderOpts[:len(builderOpts):len(builderOpts)], query.WithParenthesizedGroups())
	}

	result := NewResult()
	built, buildErr := h.build(doc, builderOpts)

	if scenario.Expect.Error != "" {
		// A statement that builds but cannot be executed also counts.
		outcome := buildErr
		if outcome == nil {
			result.SQL, result.Params = built.SQL, built.Params
			outcome = built.Executable()
		}
		if err := assertError(scenario.Expect.Error, outcome); err != nil {
			result.AddError(err.Error())
		}
		if outcome != nil {
			result.Error = outcome.Error()
		}
		h.logger.Debug("scenario finished", "scenario", scenario.Name, "pass", result.Pass)
		return result, nil
	}

	if buildErr != nil {
		result.Error = buildErr.Error()
		result.AddError(fmt.Sprintf("build failed: %v", buildErr))
		h.logger.Debug("scenario build failed", "scenario", scenario.Name, "error", buildErr)
		return result, nil
	}

	result.SQL, result.Params = built.SQL, built.Params
	h.logger.Debug("scenario built", "scenario", scenario.Name, "sql", built.SQL, "params", len(built.Params))

	if err := assertSQL(scenario.Expect.SQL, built.SQL); err != nil {
		result.AddError(err.Error())
	}
	if err := assertParams(scenario.Expect.Params, built.Params); err != nil {
		result.AddError(err.Error())
	}

	if scenario.Expect.Rows != nil {
		// Each scenario gets a fresh database.
		db, err := testutil.OpenFixture()
		if err != nil {
			return nil, fmt.Errorf("failed to open fixture database: %w", err)
		}
		rows, execErr := execute(db, built)
		db.Close()

		if execErr != nil {
			result.AddError(fmt.Sprintf("execute failed: %v", execErr))
		} else {
			result.Rows = rows
			if err := assertRows(scenario.Expect.Rows, rows); err != nil {
				result.AddError(err.Error())
			}
		}
	}

	h.logger.Debug("scenario finished", "scenario", scenario.Name, "pass", result.Pass)
	return result, nil
}

func (h *Harness) build(doc *querydoc.Document, builderOpts []query.Option) (query.Result, error) {
	b, err := querydoc.Compile(doc,
		querydoc.WithValidator(h.validator),
		querydoc.WithBuilderOptions(builderOpts...),
	)
	if err != nil {
		return query.Result{}, err
	}
	return b.BuildResult()
}

// execute runs res against db and counts the returned rows.
func execute(db *sql.DB, res query.Result) (int, error) {
	args, err := res.Args()
	if err != nil {
		return 0, err
	}
	rows, err := db.Query(res.SQL, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	n := 0
	for rows.Next() {
		n++
	}
	return n, rows.Err()
}
