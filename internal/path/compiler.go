package path

import (
	"strconv"
	"strings"

	"github.com/jacoelho/jpc/internal/cursor"
	"github.com/jacoelho/jpc/internal/filter"
	"github.com/jacoelho/jpc/internal/stack"
)

const (
	docContext  = '$'
	evalContext = '@'

	openSquareBracket  = '['
	closeSquareBracket = ']'
	openParenthesis    = '('

	wildcard    = '*'
	period      = '.'
	space       = ' '
	beginFilter = '?'
	comma       = ','
	split       = ':'
	minus       = '-'
	singleQuote = '\''
	doubleQuote = '"'
	escape      = '\\'
)

// outcome is the result of trying one grammar production.
type outcome uint8

const (
	// notApplicable means the production does not start here; the cursor is
	// untouched and the next candidate may be tried.
	notApplicable outcome = iota
	// consumed means the cursor advanced and a token may have been appended.
	consumed
	// malformed means the production matched its opening shape but the
	// content is invalid. The accompanying error is final.
	malformed
)

type production func(*state) (outcome, error)

var (
	bracketProductions = []production{
		readBracketProperty,
		readArray,
		readWildcard,
		readPlaceholder,
		readInlineFilter,
	}
	dotProductions      = []production{readDot}
	wildcardProductions = []production{readWildcard}
	nameProductions     = []production{readPropertyOrFunction}
)

// FilterCompiler turns inline criteria such as "?(@.price < 10)" into a
// predicate.
type FilterCompiler func(criteria string) (Predicate, error)

// Compiler compiles paths. The zero value is not usable; use NewCompiler.
type Compiler struct {
	compileFilter FilterCompiler
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithFilterCompiler replaces the inline filter compiler.
func WithFilterCompiler(fn FilterCompiler) Option {
	return func(c *Compiler) {
		c.compileFilter = fn
	}
}

// NewCompiler returns a Compiler using CompileFilter unless an option replaces it.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{compileFilter: CompileFilter}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile compiles text with the default inline filter compiler.
// See (*Compiler).Compile.
func Compile(text string, predicates ...Predicate) (*CompiledPath, error) {
	return NewCompiler().Compile(text, predicates...)
}

// MustCompile is like Compile but panics on error. Use it for paths known to
// be valid, such as hard-coded ones.
func MustCompile(text string, predicates ...Predicate) *CompiledPath {
	p, err := Compile(text, predicates...)
	if err != nil {
		panic(err)
	}
	return p
}

// Compile trims text, adds an implicit "$." root when the text does not
// start with '$' or '@', and compiles it into a token chain.
//
// predicates are bound to `?` placeholders in the order given: the first
// placeholder receives predicates[0]. Compiling fails when the path holds
// more placeholders than predicates; unused predicates are ignored. The
// caller's slice is never modified.
//
// Every error is a *SyntaxError whose Pos is an offset into the normalized
// text.
func (c *Compiler) Compile(text string, predicates ...Predicate) (*CompiledPath, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, syntaxError(0, "path must not be empty")
	}

	if text[0] != docContext && text[0] != evalContext {
		text = "$." + text
	}
	if strings.HasSuffix(text, ".") {
		return nil, syntaxError(len(text)-1, "path must not end with a '.' or '..'")
	}

	s := &state{
		cur:           cursor.New(text),
		filters:       stack.NewFrom(predicates...),
		compileFilter: c.compileFilter,
	}

	if err := s.readContext(); err != nil {
		return nil, asSyntaxError(err, s.cur.Position())
	}

	return newCompiledPath(s.tokens), nil
}

// CompileFilter is the default inline filter compiler. Path operands inside
// the criteria are validated with the path compiler itself.
func CompileFilter(criteria string) (Predicate, error) {
	f, err := filter.Compile(criteria, filter.WithPathValidator(func(operand string) error {
		_, err := NewCompiler().Compile(operand)
		return err
	}))
	if err != nil {
		return nil, err
	}
	return f, nil
}

// state is owned by a single compilation.
type state struct {
	cur           *cursor.Cursor
	filters       *stack.Stack[Predicate]
	tokens        []Token
	compileFilter FilterCompiler
}

func (s *state) append(tok Token) {
	s.tokens = append(s.tokens, tok)
}

func (s *state) fail(format string, args ...any) error {
	return syntaxError(s.cur.Position(), format, args...)
}

// [$ | @]
func (s *state) readContext() error {
	if !s.cur.CurrentIs(docContext) && !s.cur.CurrentIs(evalContext) {
		return s.fail("path must start with '$' or '@'")
	}

	s.append(RootToken{context: s.cur.Current()})

	if s.cur.IsTail() {
		s.cur.Advance(1)
		return nil
	}

	s.cur.Advance(1)

	if !s.cur.CurrentIs(period) && !s.cur.CurrentIs(openSquareBracket) {
		return s.fail("illegal character at position %d, expected '.' or '['", s.cur.Position())
	}

	return s.readTokens()
}

func (s *state) readTokens() error {
	for !s.cur.AtEnd() {
		if err := s.readNextToken(); err != nil {
			return err
		}
	}
	return nil
}

// readNextToken tries the candidate productions for the current character in
// priority order. The first one that applies wins.
func (s *state) readNextToken() error {
	start := s.cur.Position()

	var candidates []production
	switch s.cur.Current() {
	case openSquareBracket:
		candidates = bracketProductions
	case period:
		candidates = dotProductions
	case wildcard:
		candidates = wildcardProductions
	default:
		candidates = nameProductions
	}

	for _, read := range candidates {
		switch result, err := read(s); result {
		case consumed:
			return nil
		case malformed:
			return err
		}
	}

	if s.cur.CurrentIs(openSquareBracket) {
		return s.fail("could not parse token starting at position %d, expected ?, ', 0-9, *", start)
	}
	return s.fail("could not parse token starting at position %d", start)
}

// . and ..
func readDot(s *state) (outcome, error) {
	if !s.cur.CurrentIs(period) {
		return notApplicable, nil
	}

	switch {
	case s.cur.NextIs(period):
		s.append(ScanToken{})
		s.cur.Advance(2)
	case !s.cur.HasMore():
		return malformed, s.fail("path must not end with a '.'")
	default:
		s.cur.Advance(1)
	}

	if s.cur.CurrentIs(period) {
		return malformed, s.fail("character '.' at position %d is not valid", s.cur.Position())
	}
	if s.cur.AtEnd() {
		return malformed, s.fail("path must not end with a '..'")
	}

	return consumed, nil
}

// fooBar or fooBar()
func readPropertyOrFunction(s *state) (outcome, error) {
	if s.cur.AtEnd() {
		return notApplicable, nil
	}
	switch s.cur.Current() {
	case openSquareBracket, wildcard, period, space:
		return notApplicable, nil
	}

	start := s.cur.Position()
	end := s.cur.Len()

	for i := start; s.cur.InBounds(i); i++ {
		c := s.cur.CharAt(i)
		if c == space {
			return malformed, syntaxError(i, "use bracket notation ['my prop'] if your property contains blank characters. position: %d", i)
		}
		if c == period || c == openSquareBracket {
			end = i
			break
		}
	}

	name := s.cur.Slice(start, end)
	if fn, ok := strings.CutSuffix(name, "()"); ok {
		if fn == "" {
			return malformed, syntaxError(start, "function name must not be empty at position %d", start)
		}
		s.cur.SetPosition(end)
		s.append(FunctionToken{name: fn})
		return consumed, nil
	}

	s.cur.SetPosition(end)
	s.append(PropertyToken{names: []string{name}, quote: singleQuote})
	return consumed, nil
}

// [?], [?,?, ..]
func readPlaceholder(s *state) (outcome, error) {
	if !s.cur.CurrentIs(openSquareBracket) {
		return notApplicable, nil
	}

	questionMarkIndex := s.cur.IndexOfNextSignificantChar(beginFilter)
	if questionMarkIndex == -1 {
		return notApplicable, nil
	}

	next := s.cur.NextSignificantCharFrom(questionMarkIndex)
	if next != closeSquareBracket && next != comma {
		return notApplicable, nil
	}

	expressionBegin := s.cur.Position() + 1
	expressionEnd := s.cur.NextIndexOf(expressionBegin, closeSquareBracket)
	if expressionEnd == -1 {
		return notApplicable, nil
	}

	expression := s.cur.Slice(expressionBegin, expressionEnd)
	entries := strings.Split(expression, string(comma))

	for _, entry := range entries {
		if trimmed := strings.TrimSpace(entry); trimmed != string(beginFilter) {
			return malformed, s.fail("expected '?' but found %q in filter [%s] at position %d", trimmed, expression, s.cur.Position())
		}
	}

	predicates, ok := s.filters.PopN(len(entries))
	if !ok {
		return malformed, s.fail("not enough predicates supplied for filter [%s] at position %d", expression, s.cur.Position())
	}

	s.cur.SetPosition(expressionEnd + 1)
	s.append(PredicateToken{predicates: predicates, placeholder: true})
	return consumed, nil
}

// [?(...)]
func readInlineFilter(s *state) (outcome, error) {
	if !s.cur.CurrentIs(openSquareBracket) || !s.cur.NextSignificantCharIs(beginFilter) {
		return notApplicable, nil
	}

	questionMarkIndex := s.cur.IndexOfNextSignificantChar(beginFilter)
	openIndex := s.cur.IndexOfNextSignificantCharFrom(questionMarkIndex, openParenthesis)
	if openIndex == -1 {
		return notApplicable, nil
	}

	closeIndex := s.cur.IndexOfClosingBracket(openIndex, true, true)
	if closeIndex == -1 {
		return malformed, syntaxError(openIndex, "could not find the ')' closing the filter opened at position %d", openIndex)
	}

	closeStatementIndex := s.cur.IndexOfNextSignificantCharFrom(closeIndex, closeSquareBracket)
	if closeStatementIndex == -1 {
		return malformed, syntaxError(closeIndex+1, "expected ']' after filter at position %d", closeIndex+1)
	}

	criteria := s.cur.Slice(questionMarkIndex, closeIndex+1)
	predicate, err := s.compileFilter(criteria)
	if err != nil {
		se := syntaxError(questionMarkIndex, "invalid filter %s at position %d", criteria, questionMarkIndex)
		se.Err = err
		return malformed, se
	}

	s.cur.SetPosition(closeStatementIndex + 1)
	s.append(PredicateToken{predicates: []Predicate{predicate}})
	return consumed, nil
}

// [*] or *
func readWildcard(s *state) (outcome, error) {
	inBracket := s.cur.CurrentIs(openSquareBracket)

	if inBracket && !s.cur.NextSignificantCharIs(wildcard) {
		return notApplicable, nil
	}
	if !inBracket && !s.cur.CurrentIs(wildcard) {
		return notApplicable, nil
	}

	if inBracket {
		wildcardIndex := s.cur.IndexOfNextSignificantChar(wildcard)
		closeIndex := s.cur.IndexOfNextSignificantCharFrom(wildcardIndex, closeSquareBracket)
		if closeIndex == -1 {
			return malformed, syntaxError(wildcardIndex+1, "expected wildcard token to end with ']' on position %d", wildcardIndex+1)
		}
		s.cur.SetPosition(closeIndex + 1)
	} else {
		s.cur.Advance(1)
	}

	s.append(WildcardToken{})
	return consumed, nil
}

// [1], [1,2, n], [1:], [1:2], [:2], [::2]
func readArray(s *state) (outcome, error) {
	if !s.cur.CurrentIs(openSquareBracket) {
		return notApplicable, nil
	}

	next := s.cur.NextSignificantChar()
	if !isDigit(next) && next != minus && next != split {
		return notApplicable, nil
	}

	expressionBegin := s.cur.Position() + 1
	expressionEnd := s.cur.NextIndexOf(expressionBegin, closeSquareBracket)
	if expressionEnd == -1 {
		return notApplicable, nil
	}

	expression := strings.Join(strings.Fields(s.cur.Slice(expressionBegin, expressionEnd)), "")
	if expression == string(wildcard) {
		return notApplicable, nil
	}

	for i := 0; i < len(expression); i++ {
		c := expression[i]
		if !isDigit(c) && c != comma && c != minus && c != split {
			return notApplicable, nil
		}
	}

	var tok Token
	if strings.IndexByte(expression, split) >= 0 {
		slice, err := parseSlice(expression)
		if err != nil {
			return malformed, syntaxError(expressionBegin, "invalid array slice [%s] at position %d: %v", expression, expressionBegin, err)
		}
		tok = slice
	} else {
		index, err := parseIndex(expression)
		if err != nil {
			return malformed, syntaxError(expressionBegin, "invalid array index [%s] at position %d: %v", expression, expressionBegin, err)
		}
		tok = index
	}

	s.cur.SetPosition(expressionEnd + 1)
	s.append(tok)
	return consumed, nil
}

// ['foo'], ["foo"], ['foo','bar']
func readBracketProperty(s *state) (outcome, error) {
	if !s.cur.CurrentIs(openSquareBracket) {
		return notApplicable, nil
	}

	quote := s.cur.NextSignificantChar()
	if quote != singleQuote && quote != doubleQuote {
		return notApplicable, nil
	}

	var (
		properties   []string
		name         strings.Builder
		inProperty   bool
		expectName   = true
		closeBracket = -1
	)

scan:
	for i := s.cur.Position() + 1; s.cur.InBounds(i); i++ {
		c := s.cur.CharAt(i)
		switch {
		case inProperty && c == escape && s.cur.InBounds(i+1):
			i++
			name.WriteByte(s.cur.CharAt(i))
		case inProperty && c == quote:
			properties = append(properties, name.String())
			name.Reset()
			inProperty = false
		case inProperty:
			name.WriteByte(c)
		case c == quote:
			if !expectName {
				return malformed, syntaxError(i, "expected ',' between properties at position %d", i)
			}
			inProperty = true
			expectName = false
		case c == comma:
			if expectName {
				return malformed, syntaxError(i, "found empty property at position %d", i)
			}
			expectName = true
		case c == closeSquareBracket:
			if expectName {
				return malformed, syntaxError(i, "found empty property at position %d", i)
			}
			closeBracket = i
			break scan
		case c == space || c == '\t' || c == '\n' || c == '\r':
		default:
			return malformed, syntaxError(i, "unexpected character %q in property at position %d", c, i)
		}
	}

	if inProperty {
		return malformed, s.fail("property has not been closed - missing closing %c at position %d", quote, s.cur.Position())
	}
	if closeBracket == -1 {
		return malformed, s.fail("property has not been closed - missing closing ']' at position %d", s.cur.Position())
	}

	s.cur.SetPosition(closeBracket + 1)
	s.append(PropertyToken{names: properties, quote: quote})
	return consumed, nil
}

func parseIndex(expression string) (IndexToken, error) {
	parts := strings.Split(expression, string(comma))
	indices := make([]int, 0, len(parts))

	for _, part := range parts {
		idx, err := strconv.Atoi(part)
		if err != nil {
			return IndexToken{}, err
		}
		indices = append(indices, idx)
	}

	return IndexToken{indices: indices}, nil
}

func parseSlice(expression string) (SliceToken, error) {
	parts := strings.Split(expression, string(split))
	if len(parts) > 3 {
		return SliceToken{}, strconv.ErrSyntax
	}

	bounds := make([]Bound, 3)
	for i, part := range parts {
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil {
			return SliceToken{}, err
		}
		bounds[i] = Bound{Value: v, Set: true}
	}

	return SliceToken{from: bounds[0], to: bounds[1], step: bounds[2]}, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
