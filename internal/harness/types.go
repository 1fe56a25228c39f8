package harness

// Result is the outcome of running one scenario.
type Result struct {
	// Pass is true when every expectation matched.
	Pass bool `json:"pass"`

	// SQL and Params are what the scenario's query built. Both are empty
	// when the build failed.
	SQL    string         `json:"sql,omitempty"`
	Params map[string]any `json:"params,omitempty"`

	// Error is the build error message, if any.
	Error string `json:"error,omitempty"`

	// Rows is the number of rows returned when the SQL was executed, or -1
	// when it was not.
	Rows int `json:"rows"`

	// Errors lists every failed expectation.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Rows:   -1,
		Errors: []string{},
	}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
