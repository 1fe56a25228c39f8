package harness

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sqlsafe/internal/querydoc"
)

// Scenario is one query plus its expectations.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description says what the scenario checks.
	Description string `yaml:"description"`

	// ParenthesizeGroups renders nested condition groups in parentheses.
	ParenthesizeGroups bool `yaml:"parenthesize_groups,omitempty"`

	// Query is an inline query document. Exactly one of Query and
	// QueryFile is set.
	Query *querydoc.Document `yaml:"query,omitempty"`

	// QueryFile is a YAML or CUE query document. Relative paths are
	// resolved against the scenario file's directory by LoadScenario.
	QueryFile string `yaml:"query_file,omitempty"`

	Expect ExpectClause `yaml:"expect"`
}

// ExpectClause lists what the built query must look like. Unset fields are
// not checked.
type ExpectClause struct {
	// SQL is the exact rendered statement.
	SQL string `yaml:"sql,omitempty"`

	// Params is the exact parameter map. An empty mapping asserts that
	// nothing was bound.
	Params map[string]any `yaml:"params,omitempty"`

	// Error is a substring of the expected build error or, when the build
	// succeeds, of the reason the statement cannot be executed. A scenario
	// that sets Error must not set SQL, Params or Rows.
	Error string `yaml:"error,omitempty"`

	// Rows is the number of rows the statement returns against the
	// fixture database.
	Rows *int `yaml:"rows,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.QueryFile != "" && !filepath.IsAbs(scenario.QueryFile) {
		scenario.QueryFile = filepath.Join(filepath.Dir(path), scenario.QueryFile)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and consistent.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Query == nil && s.QueryFile == "":
		return fmt.Errorf("one of query or query_file is required")
	case s.Query != nil && s.QueryFile != "":
		return fmt.Errorf("query and query_file are mutually exclusive")
	}

	e := s.Expect
	if e.Error != "" {
		if e.SQL != "" || e.Params != nil || e.Rows != nil {
			return fmt.Errorf("expect.error cannot be combined with sql, params or rows")
		}
		return nil
	}
	if e.SQL == "" && e.Params == nil && e.Rows == nil {
		return fmt.Errorf("expect needs at least one of sql, params, rows or error")
	}
	if e.Rows != nil && *e.Rows < 0 {
		return fmt.Errorf("expect.rows must not be negative")
	}

	return nil
}

// FindScenarios returns every .yaml/.yml file under dir, sorted. When filter
// is non-empty only files whose base name without extension matches the
// glob are returned.
func FindScenarios(dir, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			if matched, _ := filepath.Match(filter, name); !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
