// Package path compiles JSONPath-style expressions into an ordered, immutable
// sequence of path tokens for a downstream evaluator.
//
// Supported grammar:
//   - Root context `$` (document) or `@` (current node); a missing root is read as `$.`
//   - Dotted properties `.name` and recursive descent `..name`
//   - Bracket properties `['name']`, `["name"]`, `['a','b']`
//   - Wildcards `*` and `[*]`
//   - Index sets `[0]`, `[0,-1]` and slices `[start:stop:step]`
//   - Placeholders `[?]`, `[?,?]` bound to caller supplied predicates in order
//   - Inline filters `[?(<expression>)]`, compiled by package filter
//   - Functions `name()`
//
// Every failure is reported as a *SyntaxError matching ErrSyntax.
package path
