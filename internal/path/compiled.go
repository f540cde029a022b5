package path

import (
	"slices"
	"strings"
)

// CompiledPath is the immutable result of Compile. It is safe for
// concurrent use by any number of readers.
type CompiledPath struct {
	tokens []Token
}

func newCompiledPath(tokens []Token) *CompiledPath {
	return &CompiledPath{tokens: slices.Clip(tokens)}
}

// Tokens returns a copy of the token chain, root first.
func (p *CompiledPath) Tokens() []Token {
	return slices.Clone(p.tokens)
}

func (p *CompiledPath) Len() int {
	return len(p.tokens)
}

// Root returns the context character, '$' or '@'.
func (p *CompiledPath) Root() byte {
	return p.tokens[0].(RootToken).context
}

// IsDefinite reports whether the path is nothing but its root marker.
func (p *CompiledPath) IsDefinite() bool {
	return len(p.tokens) == 1
}

// Predicates returns every predicate in the path, left to right.
func (p *CompiledPath) Predicates() []Predicate {
	var predicates []Predicate
	for _, tok := range p.tokens {
		if pt, ok := tok.(PredicateToken); ok {
			predicates = append(predicates, pt.predicates...)
		}
	}
	return predicates
}

// Placeholders returns the number of `?` placeholders the path consumed.
func (p *CompiledPath) Placeholders() int {
	n := 0
	for _, tok := range p.tokens {
		if pt, ok := tok.(PredicateToken); ok && pt.placeholder {
			n += len(pt.predicates)
		}
	}
	return n
}

// Describe returns the serializable view of every token.
func (p *CompiledPath) Describe() []Description {
	descriptions := make([]Description, len(p.tokens))
	for i, tok := range p.tokens {
		descriptions[i] = Describe(tok)
	}
	return descriptions
}

// String renders the canonical form of the path. Compiling the canonical
// form with the same predicates yields the same token chain.
func (p *CompiledPath) String() string {
	var b strings.Builder
	for i, tok := range p.tokens {
		if _, ok := tok.(FunctionToken); ok {
			if _, afterScan := p.tokens[i-1].(ScanToken); !afterScan {
				b.WriteByte('.')
			}
		}
		b.WriteString(tok.String())
	}
	return b.String()
}
