// Package report aggregates path compilation outcomes and prints them as
// text, JSON or YAML.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	yaml "github.com/goccy/go-yaml"
	"github.com/google/uuid"

	"github.com/jacoelho/jpc/internal/compat"
	"github.com/jacoelho/jpc/internal/path"
)

// Format determines how summaries are printed.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Result is the outcome of compiling one path.
type Result struct {
	Name      string             `json:"name" yaml:"name"`
	Path      string             `json:"path" yaml:"path"`
	Canonical string             `json:"canonical,omitempty" yaml:"canonical,omitempty"`
	Definite  bool               `json:"definite" yaml:"definite"`
	Tokens    []path.Description `json:"tokens,omitempty" yaml:"tokens,omitempty"`
	RFC9535   *compat.Result     `json:"rfc9535,omitempty" yaml:"rfc9535,omitempty"`
	Error     string             `json:"error,omitempty" yaml:"error,omitempty"`
	Position  *int               `json:"position,omitempty" yaml:"position,omitempty"`
}

// NewResult builds the result of compiling text. Exactly one of compiled
// and err is expected to be non-nil.
func NewResult(name, text string, compiled *path.CompiledPath, err error) Result {
	result := Result{Name: name, Path: text}

	if err != nil {
		result.Error = err.Error()

		var se *path.SyntaxError
		if errors.As(err, &se) && se.Pos >= 0 {
			pos := se.Pos
			result.Position = &pos
		}
		return result
	}

	result.Canonical = compiled.String()
	result.Definite = compiled.IsDefinite()
	result.Tokens = compiled.Describe()
	return result
}

// Compiled reports whether the path compiled.
func (r Result) Compiled() bool {
	return r.Error == ""
}

// Summary aggregates results across one run.
type Summary struct {
	RunID    string   `json:"run_id" yaml:"run_id"`
	Total    int      `json:"total" yaml:"total"`
	Compiled int      `json:"compiled" yaml:"compiled"`
	Failed   int      `json:"failed" yaml:"failed"`
	Portable int      `json:"portable" yaml:"portable"`
	Results  []Result `json:"results,omitempty" yaml:"results,omitempty"`
}

// New returns an empty summary with a random run id.
func New() *Summary {
	return &Summary{RunID: uuid.NewString()}
}

// HasErrors reports whether any path failed to compile.
func (s *Summary) HasErrors() bool {
	return s.Failed > 0
}

// Add records one result into the summary.
func (s *Summary) Add(result Result) {
	s.Total++
	s.Results = append(s.Results, result)

	if !result.Compiled() {
		s.Failed++
		return
	}

	s.Compiled++
	if result.RFC9535 != nil && result.RFC9535.Portable {
		s.Portable++
	}
}

// Write prints the summary in the requested format.
func (s *Summary) Write(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(s)
	case FormatYAML:
		payload, err := yaml.Marshal(s)
		if err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		_, err = w.Write(payload)
		return err
	case FormatText, "":
		return s.writeText(w)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

func (s *Summary) writeText(w io.Writer) error {
	writef := func(format string, args ...any) error {
		if _, err := fmt.Fprintf(w, format, args...); err != nil {
			return err
		}
		return nil
	}

	for _, r := range s.Results {
		if !r.Compiled() {
			if err := writef("FAIL %s: %s\n", r.Name, r.Error); err != nil {
				return err
			}
			continue
		}

		line := r.Canonical
		if r.Definite {
			line += " (definite)"
		}
		if r.RFC9535 != nil {
			if r.RFC9535.Portable {
				line += " [rfc9535]"
			} else {
				line += " [not rfc9535: " + r.RFC9535.Reason + "]"
			}
		}
		if err := writef("ok   %s: %s\n", r.Name, line); err != nil {
			return err
		}
	}

	if err := writef("\nPath compilation summary (run %s)\n", s.RunID); err != nil {
		return err
	}
	if err := writef("  total paths: %d\n", s.Total); err != nil {
		return err
	}
	if err := writef("  compiled: %d\n", s.Compiled); err != nil {
		return err
	}
	if err := writef("  failed: %d\n", s.Failed); err != nil {
		return err
	}
	return writef("  portable: %d\n", s.Portable)
}
