package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlsafe/internal/condition"
	"github.com/roach88/sqlsafe/internal/query"
	"github.com/roach88/sqlsafe/internal/querydoc"
	"github.com/roach88/sqlsafe/internal/store"
)

// Placeholder styles accepted by --placeholders.
const (
	PlaceholdersNamed  = "named"  // @param_N, as rendered
	PlaceholdersDollar = "dollar" // $N, rewritten through pgx
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Placeholders string
	DB           string // SQLite database to execute against
}

// ParamOutput is one bound parameter in build output.
type ParamOutput struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
	Type  string `json:"type,omitempty"`
}

// BuildOutput is the payload of a successful build.
type BuildOutput struct {
	SQL    string        `json:"sql"`
	Params []ParamOutput `json:"params"`
	Rows   *store.Rows   `json:"rows,omitempty"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build <query-file>",
		Short: "Render a query document as parameterized SQL",
		Long: `Compile a YAML or CUE query document and print the SQL with its parameters.

Exit codes:
  0 - Query built
  1 - Invalid identifier or builder contract violation
  2 - Command error (missing file, unreadable document, etc.)

Examples:
  sqlsafe build query.yaml
  sqlsafe build query.cue --format json
  sqlsafe build query.yaml --placeholders dollar
  sqlsafe build query.yaml --db app.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), opts, args[0], cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.Placeholders, "placeholders", PlaceholdersNamed, "placeholder style (named|dollar)")
	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database to run the query against")

	return cmd
}

func runBuild(ctx context.Context, opts *BuildOptions, path string, w io.Writer) error {
	cfg := opts.config()
	log := opts.logger()
	formatter := &OutputFormatter{Format: cfg.Format, Writer: w}

	if opts.Placeholders != PlaceholdersNamed && opts.Placeholders != PlaceholdersDollar {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid placeholders %q: must be named or dollar", opts.Placeholders))
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("query file not found: %s", path), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("query file not found: %s", path))
	}

	doc, err := querydoc.Load(path)
	if err != nil {
		_ = formatter.Error(ErrCodeParse, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid query document", err)
	}
	log.Debug("loaded query document", "file", path, "format", querydoc.FormatForPath(path))

	b, err := querydoc.Compile(doc,
		querydoc.WithValidator(cfg.Validator()),
		querydoc.WithBuilderOptions(cfg.BuilderOptions()...),
	)
	var res query.Result
	if err == nil {
		res, err = b.BuildResult()
	}
	if err != nil {
		_ = formatter.Error(errorCode(err), err.Error(), nil)
		return WrapExitError(ExitFailure, "build failed", err)
	}
	log.Debug("built query", "params", len(res.Params))

	out := BuildOutput{SQL: res.SQL, Params: paramOutputs(b.Parameters())}

	if opts.Placeholders == PlaceholdersDollar {
		if out, err = rewriteDollar(ctx, res); err != nil {
			_ = formatter.Error(errorCode(err), err.Error(), nil)
			return WrapExitError(ExitFailure, "placeholder rewrite failed", err)
		}
	}

	if opts.DB != "" {
		rows, err := executeSQLite(ctx, opts.DB, res)
		if err != nil {
			_ = formatter.Error(errorCode(err), err.Error(), nil)
			return WrapExitError(ExitFailure, "query execution failed", err)
		}
		log.Debug("executed query", "db", opts.DB, "rows", rows.Len())
		out.Rows = rows
	}

	if formatter.IsJSON() {
		return formatter.Success(out)
	}
	writeBuildText(w, out)
	return nil
}

func paramOutputs(params []condition.Parameter) []ParamOutput {
	out := make([]ParamOutput, len(params))
	for i, p := range params {
		out[i] = ParamOutput{Name: p.Name, Value: p.Value, Type: string(p.Type)}
	}
	return out
}

// rewriteDollar converts @param_N placeholders to $N with pgx's named
// argument rewriter. Positions follow first appearance in the SQL.
func rewriteDollar(ctx context.Context, res query.Result) (BuildOutput, error) {
	named, err := res.NamedArgs()
	if err != nil {
		return BuildOutput{}, err
	}
	rewritten, args, err := named.RewriteQuery(ctx, nil, res.SQL, nil)
	if err != nil {
		return BuildOutput{}, err
	}

	out := BuildOutput{SQL: rewritten, Params: make([]ParamOutput, len(args))}
	for i, arg := range args {
		out.Params[i] = ParamOutput{Name: fmt.Sprintf("$%d", i+1), Value: arg}
	}
	return out, nil
}

// executeSQLite runs res against the SQLite database at path.
func executeSQLite(ctx context.Context, path string, res query.Result) (*store.Rows, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	return st.Query(ctx, res)
}

func writeBuildText(w io.Writer, out BuildOutput) {
	fmt.Fprintln(w, out.SQL)
	if len(out.Params) > 0 {
		fmt.Fprintln(w)
		for _, p := range out.Params {
			if p.Type != "" {
				fmt.Fprintf(w, "%s = %v (%s)\n", p.Name, p.Value, p.Type)
			} else {
				fmt.Fprintf(w, "%s = %v\n", p.Name, p.Value)
			}
		}
	}
	if out.Rows != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, strings.Join(out.Rows.Columns, "\t"))
		for _, row := range out.Rows.Values {
			cells := make([]string, len(row))
			for i, v := range row {
				cells[i] = fmt.Sprint(v)
			}
			fmt.Fprintln(w, strings.Join(cells, "\t"))
		}
		fmt.Fprintf(w, "(%d rows)\n", len(out.Rows.Values))
	}
}
