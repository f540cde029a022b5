// Package manifest reads YAML batch files of named paths.
//
//	paths:
//	  - name: cheap-books
//	    path: $.store.book[?]
//	    predicates: ["?(@.price < 10)"]
package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	yaml "github.com/goccy/go-yaml"

	"github.com/jacoelho/jpc/internal/path"
)

// ErrManifest is the sentinel error for all manifest failures.
var ErrManifest = errors.New("manifest error")

// Manifest is a batch of paths to compile.
type Manifest struct {
	Paths []Entry `yaml:"paths"`
}

// Entry is one named path with the filter criteria bound to its `?`
// placeholders, in order.
type Entry struct {
	Name       string   `yaml:"name,omitempty"`
	Path       string   `yaml:"path"`
	Predicates []string `yaml:"predicates,omitempty"`
}

// Load reads and parses the manifest at filename.
func Load(filename string) (*Manifest, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifest, err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return m, nil
}

// Parse decodes and validates a manifest. Unknown fields are rejected and
// unnamed entries are named "path-<n>", counting from 1.
func Parse(r io.Reader) (*Manifest, error) {
	var m Manifest

	decoder := yaml.NewDecoder(r, yaml.DisallowUnknownField())
	if err := decoder.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no paths defined", ErrManifest)
		}
		return nil, fmt.Errorf("%w: failed to decode YAML: %v", ErrManifest, err)
	}

	if len(m.Paths) == 0 {
		return nil, fmt.Errorf("%w: no paths defined", ErrManifest)
	}

	seen := make(map[string]int, len(m.Paths))
	for i := range m.Paths {
		entry := &m.Paths[i]

		if strings.TrimSpace(entry.Path) == "" {
			return nil, fmt.Errorf("%w: entry %d: missing required 'path' field", ErrManifest, i+1)
		}
		if entry.Name == "" {
			entry.Name = "path-" + strconv.Itoa(i+1)
		}
		if first, ok := seen[entry.Name]; ok {
			return nil, fmt.Errorf("%w: entry %d: name %q already used by entry %d", ErrManifest, i+1, entry.Name, first)
		}
		seen[entry.Name] = i + 1
	}

	return &m, nil
}

// Bind compiles the entry's filter criteria into predicates, in order.
func (e Entry) Bind() ([]path.Predicate, error) {
	return CompilePredicates(e.Predicates)
}

// CompilePredicates compiles filter criteria such as "?(@.price < 10)".
func CompilePredicates(criteria []string) ([]path.Predicate, error) {
	predicates := make([]path.Predicate, 0, len(criteria))
	for i, c := range criteria {
		p, err := path.CompileFilter(c)
		if err != nil {
			return nil, fmt.Errorf("predicate %d: %w", i+1, err)
		}
		predicates = append(predicates, p)
	}
	return predicates, nil
}
