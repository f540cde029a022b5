package filter

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var relationalOperators = map[string]struct{}{
	"==": {}, "!=": {}, "===": {}, "!==": {},
	"<": {}, "<=": {}, ">": {}, ">=": {},
	"=~": {},
}

var wordOperators = map[string]struct{}{
	"in": {}, "nin": {}, "subsetof": {}, "anyof": {}, "noneof": {},
	"size": {}, "empty": {}, "contains": {},
}

type parserState struct {
	tokens       []token
	pos          int
	validatePath func(string) error
}

func parse(input string, offset int, validatePath func(string) error) (Expression, error) {
	tokens, err := lex(input, offset)
	if err != nil {
		return nil, err
	}

	state := parserState{tokens: tokens, validatePath: validatePath}
	if state.current().typ == tokenEOF {
		return nil, filterError("expression is empty")
	}

	root, err := state.parseExpression()
	if err != nil {
		return nil, err
	}

	if tok := state.current(); tok.typ != tokenEOF {
		return nil, filterError("unexpected token at position %d", tok.pos)
	}

	return root, nil
}

func (p *parserState) parseExpression() (Expression, error) {
	return p.parseOr()
}

func (p *parserState) parseOr() (Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.current().typ == tokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Logical{Op: "||", Left: left, Right: right}
	}

	return left, nil
}

func (p *parserState) parseAnd() (Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.current().typ == tokenAnd {
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = Logical{Op: "&&", Left: left, Right: right}
	}

	return left, nil
}

func (p *parserState) parseUnary() (Expression, error) {
	if p.current().typ == tokenNot {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not{Operand: operand}, nil
	}

	if p.current().typ == tokenLParen {
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if p.current().typ != tokenRParen {
			return nil, filterError("missing closing ')' at position %d", p.current().pos)
		}
		p.advance()
		return expr, nil
	}

	return p.parseRelation()
}

func (p *parserState) parseRelation() (Expression, error) {
	leftToken := p.current()
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	if p.current().typ != tokenOperator {
		if left.Kind != OperandPath {
			return nil, filterError("expected a path or a comparison at position %d", leftToken.pos)
		}
		return Exists{Path: left}, nil
	}

	if left.Kind == OperandRegex {
		return nil, filterError("regex must be the right operand at position %d", leftToken.pos)
	}

	opToken := p.advance()
	rightToken := p.current()
	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	if err := checkOperands(opToken.literal, right); err != nil {
		return nil, filterError("%v at position %d", err, rightToken.pos)
	}

	return Relation{Left: left, Op: opToken.literal, Right: right}, nil
}

func (p *parserState) parseOperand() (Operand, error) {
	tok := p.current()
	switch tok.typ {
	case tokenPath:
		p.advance()
		if p.validatePath != nil {
			if err := p.validatePath(tok.literal); err != nil {
				return Operand{}, fmt.Errorf("%w: invalid path %q at position %d: %w", ErrInvalidFilter, tok.literal, tok.pos, err)
			}
		}
		return Operand{Kind: OperandPath, Text: tok.literal}, nil
	case tokenNumber:
		p.advance()
		value, err := strconv.ParseFloat(tok.literal, 64)
		if err != nil {
			return Operand{}, filterError("invalid number literal %q at position %d", tok.literal, tok.pos)
		}
		return Operand{Kind: OperandNumber, Text: tok.literal, Value: value}, nil
	case tokenString:
		p.advance()
		return Operand{Kind: OperandString, Value: tok.literal}, nil
	case tokenTrue, tokenFalse:
		p.advance()
		return Operand{Kind: OperandBool, Text: tok.literal, Value: tok.typ == tokenTrue}, nil
	case tokenNull:
		p.advance()
		return Operand{Kind: OperandNull, Text: tok.literal}, nil
	case tokenRegex:
		p.advance()
		re, err := compileRegex(tok.literal)
		if err != nil {
			return Operand{}, filterError("invalid regex %s at position %d: %v", tok.literal, tok.pos, err)
		}
		return Operand{Kind: OperandRegex, Text: tok.literal, Regexp: re}, nil
	case tokenJSON:
		p.advance()
		value, err := decodeJSON(tok.literal)
		if err != nil {
			return Operand{}, filterError("invalid literal %s at position %d: %v", tok.literal, tok.pos, err)
		}
		return Operand{Kind: OperandJSON, Text: tok.literal, Value: value}, nil
	case tokenEOF:
		return Operand{}, filterError("unexpected end of expression at position %d", tok.pos)
	default:
		return Operand{}, filterError("unexpected token at position %d", tok.pos)
	}
}

func checkOperands(op string, right Operand) error {
	switch op {
	case "=~":
		if right.Kind != OperandRegex {
			return fmt.Errorf("operator '=~' expects a regex, got %s", right.Kind)
		}
	case "in", "nin", "subsetof", "anyof", "noneof":
		if right.Kind != OperandJSON && right.Kind != OperandPath {
			return fmt.Errorf("operator '%s' expects an array or a path, got %s", op, right.Kind)
		}
		if right.Kind == OperandJSON {
			if _, ok := right.Value.([]any); !ok {
				return fmt.Errorf("operator '%s' expects an array, got an object", op)
			}
		}
	case "size":
		if right.Kind != OperandNumber && right.Kind != OperandPath {
			return fmt.Errorf("operator 'size' expects a number or a path, got %s", right.Kind)
		}
	case "empty":
		if right.Kind != OperandBool {
			return fmt.Errorf("operator 'empty' expects a boolean, got %s", right.Kind)
		}
	default:
		if right.Kind == OperandRegex {
			return fmt.Errorf("operator '%s' does not accept a regex", op)
		}
	}
	return nil
}

// compileRegex turns /pattern/flags into a Go regexp. Supported flags are
// i, m and s.
func compileRegex(literal string) (*regexp.Regexp, error) {
	end := strings.LastIndexByte(literal, '/')
	pattern, flags := literal[1:end], literal[end+1:]

	for _, flag := range flags {
		if flag != 'i' && flag != 'm' && flag != 's' {
			return nil, fmt.Errorf("unsupported regex flag '%c'", flag)
		}
	}

	if flags != "" {
		pattern = "(?" + flags + ")" + pattern
	}
	return regexp.Compile(pattern)
}

// decodeJSON accepts JSON with single-quoted strings, as written in paths.
func decodeJSON(literal string) (any, error) {
	var value any
	if err := json.Unmarshal([]byte(doubleQuoted(literal)), &value); err != nil {
		return nil, err
	}
	return value, nil
}

func doubleQuoted(literal string) string {
	var b strings.Builder
	inSingle, inDouble := false, false

	for i := 0; i < len(literal); i++ {
		ch := literal[i]
		switch {
		case ch == '\\' && i+1 < len(literal):
			if inSingle && literal[i+1] == '\'' {
				b.WriteByte('\'')
			} else {
				b.WriteByte(ch)
				b.WriteByte(literal[i+1])
			}
			i++
		case ch == '\'' && !inDouble:
			inSingle = !inSingle
			b.WriteByte('"')
		case ch == '"' && inSingle:
			b.WriteString(`\"`)
		case ch == '"':
			inDouble = !inDouble
			b.WriteByte(ch)
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

func (p *parserState) current() token {
	if p.pos >= len(p.tokens) {
		return token{typ: tokenEOF, pos: len(p.tokens)}
	}
	return p.tokens[p.pos]
}

func (p *parserState) advance() token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}
