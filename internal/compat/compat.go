// Package compat checks whether compiled paths are portable to RFC 9535
// JSONPath implementations.
package compat

import (
	"github.com/theory/jsonpath"

	"github.com/jacoelho/jpc/internal/path"
)

const (
	reasonPlaceholder  = "placeholder predicates are bound at compile time and have no RFC 9535 equivalent"
	reasonRelativeRoot = "RFC 9535 queries start at the document root '$'"
)

// Result is the outcome of a portability check.
type Result struct {
	Portable bool   `json:"portable" yaml:"portable"`
	Reason   string `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Check reports whether the canonical form of p is accepted by an RFC 9535
// parser. Paths rooted at '@' or holding placeholders are never portable.
func Check(p *path.CompiledPath) Result {
	if root, ok := p.Tokens()[0].(path.RootToken); ok && !root.IsDocument() {
		return Result{Reason: reasonRelativeRoot}
	}
	if p.Placeholders() > 0 {
		return Result{Reason: reasonPlaceholder}
	}

	if _, err := jsonpath.Parse(p.String()); err != nil {
		return Result{Reason: err.Error()}
	}

	return Result{Portable: true}
}
