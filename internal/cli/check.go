package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/sqlsafe/internal/ident"
)

// IdentResult is the outcome of checking one identifier.
type IdentResult struct {
	Name  string `json:"name"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <table|column|alias> <name>...",
		Short: "Check identifiers against the validation rules",
		Long: `Check whether names would be accepted as table, column or alias identifiers.

Exit codes:
  0 - All names valid
  1 - At least one name rejected
  2 - Command error (unknown kind)

Examples:
  sqlsafe check table users orders
  sqlsafe check column select --format json
  sqlsafe check alias u --extra-keywords u`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], args[1:], cmd.OutOrStdout())
		},
	}
	return cmd
}

func parseKind(s string) (ident.Kind, error) {
	switch s {
	case "table":
		return ident.KindTable, nil
	case "column":
		return ident.KindColumn, nil
	case "alias":
		return ident.KindAlias, nil
	default:
		return 0, fmt.Errorf("unknown identifier kind %q: must be table, column or alias", s)
	}
}

func runCheck(opts *RootOptions, kindArg string, names []string, w io.Writer) error {
	cfg := opts.config()
	formatter := &OutputFormatter{Format: cfg.Format, Writer: w}

	kind, err := parseKind(kindArg)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid arguments", err)
	}

	validator := cfg.Validator()
	results := make([]IdentResult, len(names))
	invalid := 0
	for i, name := range names {
		results[i] = IdentResult{Name: name, Valid: true}
		if err := validator.Validate(name, kind); err != nil {
			results[i].Valid = false
			results[i].Error = err.Error()
			invalid++
		}
	}
	opts.logger().Debug("checked identifiers", "kind", kind, "count", len(names), "invalid", invalid)

	var cliErr *CLIError
	if invalid > 0 {
		cliErr = &CLIError{
			Code:    ErrCodeInvalidIdent,
			Message: fmt.Sprintf("%d of %d %s names rejected", invalid, len(names), kind),
		}
	}

	if formatter.IsJSON() {
		if err := formatter.Result(results, cliErr); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				fmt.Fprintf(w, "✓ %s\n", r.Name)
			} else {
				fmt.Fprintf(w, "✗ %s: %s\n", r.Name, r.Error)
			}
		}
	}

	if cliErr != nil {
		return NewExitError(ExitFailure, cliErr.Message)
	}
	return nil
}
