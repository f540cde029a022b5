package filter

import (
	"strconv"
	"strings"
)

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenPath
	tokenNumber
	tokenString
	tokenRegex
	tokenJSON
	tokenTrue
	tokenFalse
	tokenNull
	tokenOperator
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	typ     tokenType
	literal string
	pos     int
}

// lex tokenizes input; offset is added to every reported position so that
// errors point into the caller's original text.
func lex(input string, offset int) ([]token, error) {
	tokens := make([]token, 0, len(input)/2)
	pos := 0

	for pos < len(input) {
		ch := input[pos]
		if isSpace(ch) {
			pos++
			continue
		}

		start := pos
		switch {
		case ch == '@' || ch == '$':
			end, err := scanPath(input, pos, offset)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{typ: tokenPath, literal: input[start:end], pos: offset + start})
			pos = end
			continue
		case ch == '\'' || ch == '"':
			literal, end, err := lexString(input, pos, offset)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{typ: tokenString, literal: literal, pos: offset + start})
			pos = end
			continue
		case ch == '/':
			end, err := scanRegex(input, pos, offset)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{typ: tokenRegex, literal: input[start:end], pos: offset + start})
			pos = end
			continue
		case ch == '[' || ch == '{':
			end, err := scanJSON(input, pos, offset)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{typ: tokenJSON, literal: input[start:end], pos: offset + start})
			pos = end
			continue
		case isNumberStart(input, pos):
			numberToken, end, err := lexNumber(input, pos, offset)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, numberToken)
			pos = end
			continue
		case isIdentifierStart(ch):
			pos++
			for pos < len(input) && isIdentifierPart(input[pos]) {
				pos++
			}
			word, err := lexWord(input[start:pos], offset+start)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, word)
			continue
		}

		switch ch {
		case '=':
			switch {
			case strings.HasPrefix(input[pos:], "==="):
				tokens = append(tokens, token{typ: tokenOperator, literal: "===", pos: offset + pos})
				pos += 3
			case strings.HasPrefix(input[pos:], "=="):
				tokens = append(tokens, token{typ: tokenOperator, literal: "==", pos: offset + pos})
				pos += 2
			case strings.HasPrefix(input[pos:], "=~"):
				tokens = append(tokens, token{typ: tokenOperator, literal: "=~", pos: offset + pos})
				pos += 2
			default:
				return nil, filterError("unexpected '=' at position %d", offset+pos)
			}
		case '!':
			switch {
			case strings.HasPrefix(input[pos:], "!=="):
				tokens = append(tokens, token{typ: tokenOperator, literal: "!==", pos: offset + pos})
				pos += 3
			case strings.HasPrefix(input[pos:], "!="):
				tokens = append(tokens, token{typ: tokenOperator, literal: "!=", pos: offset + pos})
				pos += 2
			default:
				tokens = append(tokens, token{typ: tokenNot, pos: offset + pos})
				pos++
			}
		case '<', '>':
			op := string(ch)
			if pos+1 < len(input) && input[pos+1] == '=' {
				op += "="
			}
			tokens = append(tokens, token{typ: tokenOperator, literal: op, pos: offset + pos})
			pos += len(op)
		case '&':
			if pos+1 < len(input) && input[pos+1] == '&' {
				tokens = append(tokens, token{typ: tokenAnd, pos: offset + pos})
				pos += 2
				continue
			}
			return nil, filterError("unexpected '&' at position %d", offset+pos)
		case '|':
			if pos+1 < len(input) && input[pos+1] == '|' {
				tokens = append(tokens, token{typ: tokenOr, pos: offset + pos})
				pos += 2
				continue
			}
			return nil, filterError("unexpected '|' at position %d", offset+pos)
		case '(':
			tokens = append(tokens, token{typ: tokenLParen, pos: offset + pos})
			pos++
		case ')':
			tokens = append(tokens, token{typ: tokenRParen, pos: offset + pos})
			pos++
		default:
			return nil, filterError("unexpected character %q at position %d", ch, offset+pos)
		}
	}

	tokens = append(tokens, token{typ: tokenEOF, pos: offset + len(input)})
	return tokens, nil
}

func lexWord(word string, pos int) (token, error) {
	switch word {
	case "true":
		return token{typ: tokenTrue, literal: word, pos: pos}, nil
	case "false":
		return token{typ: tokenFalse, literal: word, pos: pos}, nil
	case "null":
		return token{typ: tokenNull, literal: word, pos: pos}, nil
	}

	if _, ok := wordOperators[word]; ok {
		return token{typ: tokenOperator, literal: word, pos: pos}, nil
	}
	return token{}, filterError("unexpected identifier %q at position %d", word, pos)
}

// scanPath returns the end of a path operand. The operand stops at
// whitespace, an operator character or an unbalanced ')'.
func scanPath(input string, start, offset int) (int, error) {
	depth := 0
	pos := start + 1
	for pos < len(input) {
		ch := input[pos]
		switch {
		case ch == '\'' || ch == '"':
			_, end, err := lexString(input, pos, offset)
			if err != nil {
				return 0, err
			}
			pos = end
			continue
		case ch == '[' || ch == '(':
			depth++
		case ch == ']' || ch == ')':
			if depth == 0 {
				return pos, nil
			}
			depth--
		case depth == 0 && (isSpace(ch) || strings.IndexByte("=!<>&|", ch) >= 0):
			return pos, nil
		}
		pos++
	}

	if depth != 0 {
		return 0, filterError("unterminated path starting at position %d", offset+start)
	}
	return pos, nil
}

func scanRegex(input string, start, offset int) (int, error) {
	pos := start + 1
	for ; pos < len(input); pos++ {
		if input[pos] == '\\' {
			pos++
			continue
		}
		if input[pos] == '/' {
			break
		}
	}
	if pos >= len(input) {
		return 0, filterError("unterminated regex starting at position %d", offset+start)
	}

	pos++
	for pos < len(input) && isLetter(input[pos]) {
		pos++
	}
	return pos, nil
}

// scanJSON returns the end of a bracketed JSON literal, honouring quotes.
func scanJSON(input string, start, offset int) (int, error) {
	depth := 0
	for pos := start; pos < len(input); pos++ {
		switch input[pos] {
		case '\'', '"':
			_, end, err := lexString(input, pos, offset)
			if err != nil {
				return 0, err
			}
			pos = end - 1
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return pos + 1, nil
			}
		}
	}
	return 0, filterError("unterminated literal starting at position %d", offset+start)
}

// The lexer works on bytes; every byte of a multi-byte UTF-8 sequence is
// >= 0x80 and never matches the ASCII classes below.

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentifierStart(ch byte) bool {
	return ch == '_' || isLetter(ch)
}

func isIdentifierPart(ch byte) bool {
	return isIdentifierStart(ch) || (ch >= '0' && ch <= '9')
}

func isNumberStart(input string, pos int) bool {
	if pos >= len(input) {
		return false
	}
	if input[pos] >= '0' && input[pos] <= '9' {
		return true
	}
	if input[pos] == '-' {
		return pos+1 < len(input) && input[pos+1] >= '0' && input[pos+1] <= '9'
	}
	return false
}

func lexNumber(input string, start, offset int) (token, int, error) {
	pos := start
	if input[pos] == '-' {
		pos++
	}

	for pos < len(input) && (isDigit(input[pos]) || strings.IndexByte(".eE+-", input[pos]) >= 0) {
		if (input[pos] == '+' || input[pos] == '-') && input[pos-1] != 'e' && input[pos-1] != 'E' {
			break
		}
		pos++
	}

	literal := input[start:pos]
	if _, err := strconv.ParseFloat(literal, 64); err != nil {
		return token{}, 0, filterError("invalid number %q at position %d", literal, offset+start)
	}

	return token{typ: tokenNumber, literal: literal, pos: offset + start}, pos, nil
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func lexString(input string, start, offset int) (string, int, error) {
	quote := input[start]
	var b strings.Builder

	for pos := start + 1; pos < len(input); pos++ {
		ch := input[pos]
		if ch == quote {
			return b.String(), pos + 1, nil
		}

		if ch == '\\' {
			pos++
			if pos >= len(input) {
				return "", 0, filterError("unterminated escape sequence at position %d", offset+start)
			}
			switch escaped := input[pos]; escaped {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(escaped)
			}
			continue
		}

		b.WriteByte(ch)
	}

	return "", 0, filterError("unterminated string at position %d", offset+start)
}
