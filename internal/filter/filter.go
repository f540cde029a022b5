// Package filter compiles inline path filter criteria such as
// "?(@.price < 10 && @.category == 'fiction')" into an immutable expression
// tree. Evaluating the tree against a document is left to the caller.
//
// Supported syntax:
//   - logical operators "||", "&&", "!" and parenthesised groups
//   - relations: == != === !== < <= > >= =~ in nin subsetof anyof noneof size empty contains
//   - operands: @ and $ paths, 'string' or "string", numbers, true, false, null,
//     /regex/flags (flags i, m, s) and JSON array or object literals
//   - a bare path is an existence test
package filter

import (
	"strings"
)

// Filter is a compiled filter expression. It is immutable and safe for
// concurrent use.
type Filter struct {
	expr Expression
}

// Expression returns the root of the compiled expression tree.
func (f *Filter) Expression() Expression {
	return f.expr
}

// String renders the filter in canonical "?(...)" form.
func (f *Filter) String() string {
	return "?(" + f.expr.String() + ")"
}

// Option configures Compile.
type Option func(*options)

type options struct {
	validatePath func(string) error
}

// WithPathValidator checks every path operand with fn. A non-nil error
// makes compilation fail.
func WithPathValidator(fn func(string) error) Option {
	return func(o *options) {
		o.validatePath = fn
	}
}

// Compile parses criteria written as "?(<expression>)". Reported positions
// are offsets into criteria.
func Compile(criteria string, opts ...Option) (*Filter, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	trimmed := strings.TrimSpace(criteria)
	offset := strings.Index(criteria, trimmed)

	if !strings.HasPrefix(trimmed, "?") {
		return nil, filterError("criteria must start with '?' at position %d", offset)
	}

	body := strings.TrimLeft(trimmed[1:], " \t\r\n")
	offset += len(trimmed) - len(body)

	if !strings.HasPrefix(body, "(") || !strings.HasSuffix(body, ")") || len(body) < 2 {
		return nil, filterError("criteria must be enclosed in '?(' and ')' at position %d", offset)
	}

	expr, err := parse(body[1:len(body)-1], offset+1, o.validatePath)
	if err != nil {
		return nil, err
	}

	return &Filter{expr: expr}, nil
}
