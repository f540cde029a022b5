package path

import (
	"slices"
	"strconv"
	"strings"
)

// Kind identifies the variant of a Token.
type Kind uint8

const (
	KindRoot Kind = iota + 1
	KindScan
	KindProperty
	KindFunction
	KindWildcard
	KindIndex
	KindSlice
	KindPredicate
)

var kindNames = map[Kind]string{
	KindRoot:      "root",
	KindScan:      "scan",
	KindProperty:  "property",
	KindFunction:  "function",
	KindWildcard:  "wildcard",
	KindIndex:     "index",
	KindSlice:     "slice",
	KindPredicate: "predicate",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Predicate is an opaque boolean test over a document node, either supplied
// by the caller for a `?` placeholder or compiled from an inline filter.
// The compiler never evaluates predicates.
type Predicate interface {
	String() string
}

// Token is one recognized grammar unit. String returns the canonical path
// fragment for the token.
type Token interface {
	Kind() Kind
	String() string
}

// RootToken is the `$` or `@` context marker that starts every path.
type RootToken struct {
	context byte
}

func (t RootToken) Kind() Kind       { return KindRoot }
func (t RootToken) Context() byte    { return t.context }
func (t RootToken) String() string   { return string(t.context) }
func (t RootToken) IsDocument() bool { return t.context == docContext }

// ScanToken is the recursive descent operator `..`.
type ScanToken struct{}

func (ScanToken) Kind() Kind     { return KindScan }
func (ScanToken) String() string { return ".." }

// PropertyToken selects one or more named fields.
type PropertyToken struct {
	names []string
	quote byte
}

func (t PropertyToken) Kind() Kind { return KindProperty }

// Names returns a copy of the property names in the order written.
func (t PropertyToken) Names() []string { return slices.Clone(t.names) }

// Quote is the quote character the names were written with.
func (t PropertyToken) Quote() byte { return t.quote }

func (t PropertyToken) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, name := range t.names {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte(t.quote)
		for j := 0; j < len(name); j++ {
			if name[j] == t.quote || name[j] == '\\' {
				b.WriteByte('\\')
			}
			b.WriteByte(name[j])
		}
		b.WriteByte(t.quote)
	}
	b.WriteByte(']')
	return b.String()
}

// FunctionToken is a zero-argument function call such as `length()`.
type FunctionToken struct {
	name string
}

func (t FunctionToken) Kind() Kind     { return KindFunction }
func (t FunctionToken) Name() string   { return t.name }
func (t FunctionToken) String() string { return t.name + "()" }

// WildcardToken matches every child.
type WildcardToken struct{}

func (WildcardToken) Kind() Kind     { return KindWildcard }
func (WildcardToken) String() string { return "[*]" }

// IndexToken selects array elements by position; negative indexes count
// from the end.
type IndexToken struct {
	indices []int
}

func (t IndexToken) Kind() Kind { return KindIndex }

func (t IndexToken) Indices() []int { return slices.Clone(t.indices) }

func (t IndexToken) String() string {
	parts := make([]string, len(t.indices))
	for i, idx := range t.indices {
		parts[i] = strconv.Itoa(idx)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Bound is an optional slice boundary.
type Bound struct {
	Value int
	Set   bool
}

func (b Bound) String() string {
	if !b.Set {
		return ""
	}
	return strconv.Itoa(b.Value)
}

// SliceToken selects a range of array elements.
type SliceToken struct {
	from, to, step Bound
}

func (t SliceToken) Kind() Kind  { return KindSlice }
func (t SliceToken) From() Bound { return t.from }
func (t SliceToken) To() Bound   { return t.to }
func (t SliceToken) Step() Bound { return t.step }

func (t SliceToken) String() string {
	s := "[" + t.from.String() + ":" + t.to.String()
	if t.step.Set {
		s += ":" + t.step.String()
	}
	return s + "]"
}

// PredicateToken filters the current node set with one or more predicates.
type PredicateToken struct {
	predicates  []Predicate
	placeholder bool
}

func (t PredicateToken) Kind() Kind { return KindPredicate }

// Predicates returns a copy of the predicates in binding order.
func (t PredicateToken) Predicates() []Predicate { return slices.Clone(t.predicates) }

// IsPlaceholder reports whether the predicates were bound to `?` placeholders.
func (t PredicateToken) IsPlaceholder() bool { return t.placeholder }

func (t PredicateToken) String() string {
	if t.placeholder {
		return "[" + strings.Repeat("?,", len(t.predicates)-1) + "?]"
	}

	parts := make([]string, len(t.predicates))
	for i, p := range t.predicates {
		parts[i] = p.String()
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Description is a serializable view of a token.
type Description struct {
	Kind        string   `json:"kind" yaml:"kind"`
	Fragment    string   `json:"fragment" yaml:"fragment"`
	Context     string   `json:"context,omitempty" yaml:"context,omitempty"`
	Names       []string `json:"names,omitempty" yaml:"names,omitempty"`
	Quote       string   `json:"quote,omitempty" yaml:"quote,omitempty"`
	Function    string   `json:"function,omitempty" yaml:"function,omitempty"`
	Indices     []int    `json:"indices,omitempty" yaml:"indices,omitempty"`
	From        *int     `json:"from,omitempty" yaml:"from,omitempty"`
	To          *int     `json:"to,omitempty" yaml:"to,omitempty"`
	Step        *int     `json:"step,omitempty" yaml:"step,omitempty"`
	Predicates  []string `json:"predicates,omitempty" yaml:"predicates,omitempty"`
	Placeholder bool     `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
}

// Describe returns the serializable view of tok.
func Describe(tok Token) Description {
	d := Description{Kind: tok.Kind().String(), Fragment: tok.String()}

	switch t := tok.(type) {
	case RootToken:
		d.Context = string(t.context)
	case PropertyToken:
		d.Names = t.Names()
		d.Quote = string(t.quote)
	case FunctionToken:
		d.Function = t.name
	case IndexToken:
		d.Indices = t.Indices()
	case SliceToken:
		d.From = boundValue(t.from)
		d.To = boundValue(t.to)
		d.Step = boundValue(t.step)
	case PredicateToken:
		d.Placeholder = t.placeholder
		for _, p := range t.predicates {
			d.Predicates = append(d.Predicates, p.String())
		}
	}

	return d
}

func boundValue(b Bound) *int {
	if !b.Set {
		return nil
	}
	v := b.Value
	return &v
}
