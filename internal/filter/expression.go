package filter

import (
	"regexp"
	"strings"
)

// Expression is a node of a compiled filter expression tree.
type Expression interface {
	String() string
	expression()
}

// OperandKind classifies the value on either side of a relation.
type OperandKind uint8

const (
	OperandPath OperandKind = iota + 1
	OperandString
	OperandNumber
	OperandBool
	OperandNull
	OperandRegex
	OperandJSON
)

var operandKindNames = map[OperandKind]string{
	OperandPath:   "path",
	OperandString: "string",
	OperandNumber: "number",
	OperandBool:   "boolean",
	OperandNull:   "null",
	OperandRegex:  "regex",
	OperandJSON:   "json",
}

func (k OperandKind) String() string {
	if name, ok := operandKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Operand is a literal or path referenced by a relation.
//
// Text holds the source form for paths, numbers, regexes and JSON literals.
// Value holds the decoded value: string, float64, bool, nil, or the result of
// decoding a JSON literal.
type Operand struct {
	Kind   OperandKind
	Text   string
	Value  any
	Regexp *regexp.Regexp
}

func (o Operand) String() string {
	switch o.Kind {
	case OperandString:
		s, _ := o.Value.(string)
		return quote(s)
	case OperandBool:
		if b, _ := o.Value.(bool); b {
			return "true"
		}
		return "false"
	case OperandNull:
		return "null"
	default:
		return o.Text
	}
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'', '\\':
			b.WriteByte('\\')
			b.WriteByte(s[i])
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(s[i])
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// Relation compares two operands with a relational operator.
type Relation struct {
	Left  Operand
	Op    string
	Right Operand
}

// Exists tests that a path resolves to a value.
type Exists struct {
	Path Operand
}

// Not negates its operand.
type Not struct {
	Operand Expression
}

// Logical joins two expressions with "&&" or "||".
type Logical struct {
	Op    string
	Left  Expression
	Right Expression
}

func (Relation) expression() {}
func (Exists) expression()   {}
func (Not) expression()      {}
func (Logical) expression()  {}

func (r Relation) String() string {
	return r.Left.String() + " " + r.Op + " " + r.Right.String()
}

func (e Exists) String() string {
	return e.Path.String()
}

func (n Not) String() string {
	if _, ok := n.Operand.(Exists); ok {
		return "!" + n.Operand.String()
	}
	return "!(" + n.Operand.String() + ")"
}

func (l Logical) String() string {
	return l.side(l.Left) + " " + l.Op + " " + l.side(l.Right)
}

// side wraps a nested logical expression whose operator differs from l's.
func (l Logical) side(e Expression) string {
	if nested, ok := e.(Logical); ok && nested.Op != l.Op {
		return "(" + nested.String() + ")"
	}
	return e.String()
}
