package querydoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// Format is a document encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatCUE
)

// String returns "yaml" or "cue".
func (f Format) String() string {
	if f == FormatCUE {
		return "cue"
	}
	return "yaml"
}

// FormatForPath picks a Format from a file extension. Anything other than
// .cue is read as YAML, which also covers JSON.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".cue") {
		return FormatCUE
	}
	return FormatYAML
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read query document: %w", err)
	}
	return Parse(data, FormatForPath(path), filepath.Base(path))
}

// Parse decodes data in the given format. name labels CUE positions in
// error messages.
func Parse(data []byte, format Format, name string) (*Document, error) {
	if format == FormatCUE {
		return parseCUE(data, name)
	}
	return parseYAML(data)
}

func parseYAML(data []byte) (*Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: empty document")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &doc, nil
}

// parseCUE evaluates the CUE source, requires it to be concrete, and feeds
// its JSON form through the YAML decoder so both formats share one set of
// field rules.
func parseCUE(data []byte, name string) (*Document, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(name))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile CUE: %w", err)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("CUE document is not concrete: %w", err)
	}
	if value.IncompleteKind() != cue.StructKind {
		return nil, fmt.Errorf("CUE document must be a struct, got %s", value.IncompleteKind())
	}

	js, err := value.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to export CUE: %w", err)
	}

	doc, err := parseYAML(js)
	if err != nil {
		return nil, fmt.Errorf("CUE document %s: %w", name, err)
	}
	return doc, nil
}
