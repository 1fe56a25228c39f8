package harness

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"
)

// AssertionError describes one failed expectation.
type AssertionError struct {
	Field    string // sql, params, error or rows
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s mismatch\n", e.Field)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// assertSQL compares the rendered statement exactly.
func assertSQL(expected, actual string) error {
	if expected == "" || expected == actual {
		return nil
	}
	return &AssertionError{Field: "sql", Expected: expected, Actual: actual}
}

// assertParams compares parameter maps after normalizing both sides, so a
// YAML int matches a bound int64.
func assertParams(expected, actual map[string]any) error {
	if expected == nil {
		return nil
	}
	want := normalizeParams(expected)
	got := normalizeParams(actual)
	if reflect.DeepEqual(want, got) {
		return nil
	}
	return &AssertionError{Field: "params", Expected: formatParams(want), Actual: formatParams(got)}
}

// assertError checks that err is present and contains want.
func assertError(want string, err error) error {
	if err == nil {
		return &AssertionError{Field: "error", Expected: fmt.Sprintf("error containing %q", want), Actual: "build succeeded"}
	}
	if !strings.Contains(err.Error(), want) {
		return &AssertionError{Field: "error", Expected: fmt.Sprintf("error containing %q", want), Actual: err.Error()}
	}
	return nil
}

// assertRows compares a row count.
func assertRows(expected *int, actual int) error {
	if expected == nil || *expected == actual {
		return nil
	}
	return &AssertionError{Field: "rows", Expected: fmt.Sprint(*expected), Actual: fmt.Sprint(actual)}
}

// normalizeParams returns a copy of params with every value normalized.
func normalizeParams(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = normalize(v)
	}
	return out
}

// normalizeUnsigned keeps values above math.MaxInt64 as uint64.
func normalizeUnsigned(u uint64) any {
	if u > math.MaxInt64 {
		return u
	}
	return int64(u)
}

// normalize maps integer kinds to int64 where they fit, float32 to float64, time.Time to
// its RFC 3339 text, and recurses into slices.
func normalize(v any) any {
	switch val := v.(type) {
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case uint:
		return normalizeUnsigned(uint64(val))
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return normalizeUnsigned(val)
	case float32:
		return float64(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano)
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = normalize(elem)
		}
		return out
	default:
		return v
	}
}

// formatParams renders params with sorted keys for stable messages.
func formatParams(params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%#v", k, params[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
