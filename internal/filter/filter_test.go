package filter

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestCompile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		criteria string
		want     string
	}{
		{name: "numeric_comparison", criteria: "?(@.price<10)", want: "?(@.price < 10)"},
		{name: "existence", criteria: "?(@.isbn)", want: "?(@.isbn)"},
		{name: "negated_existence", criteria: "?(!@.isbn)", want: "?(!@.isbn)"},
		{name: "negated_group", criteria: "?(!(@.price > 10))", want: "?(!(@.price > 10))"},
		{name: "string_literal", criteria: `?(@.category == "fiction")`, want: "?(@.category == 'fiction')"},
		{name: "escaped_quote", criteria: `?(@.title == 'it\'s')`, want: `?(@.title == 'it\'s')`},
		{name: "precedence", criteria: "?(@.a == 'x' && @.b > 2 || @.c)", want: "?((@.a == 'x' && @.b > 2) || @.c)"},
		{name: "grouping", criteria: "?(@.a && (@.b || @.c))", want: "?(@.a && (@.b || @.c))"},
		{name: "regex", criteria: "?(@.author =~ /.*REES/i)", want: "?(@.author =~ /.*REES/i)"},
		{name: "in_array", criteria: "?(@.size in ['S', 'M'])", want: "?(@.size in ['S', 'M'])"},
		{name: "contains", criteria: "?(@.tags contains 'x')", want: "?(@.tags contains 'x')"},
		{name: "size", criteria: "?(@.tags size 2)", want: "?(@.tags size 2)"},
		{name: "empty", criteria: "?(@.tags empty false)", want: "?(@.tags empty false)"},
		{name: "absolute_path_operand", criteria: "?(@.price <= $.expensive)", want: "?(@.price <= $.expensive)"},
		{name: "bracket_path_operand", criteria: "?(@['first name'] != null)", want: "?(@['first name'] != null)"},
		{name: "nested_filter_path", criteria: "?(@.items[?(@.x == 1)] size 1)", want: "?(@.items[?(@.x == 1)] size 1)"},
		{name: "function_path", criteria: "?(@.tags.length() > 1)", want: "?(@.tags.length() > 1)"},
		{name: "type_safe_equality", criteria: "?(@.id === -1.5e2)", want: "?(@.id === -1.5e2)"},
		{name: "surrounding_whitespace", criteria: "  ? ( @.a )  ", want: "?(@.a)"},
		{name: "non_ascii_path", criteria: "?(@.à == 1)", want: "?(@.à == 1)"},
		{name: "non_ascii_path_with_nbsp_byte", criteria: "?(@.Å==1)", want: "?(@.Å == 1)"},
		{name: "non_ascii_bracket_path", criteria: "?(@['名前'] == 'x')", want: "?(@['名前'] == 'x')"},
		{name: "non_ascii_string", criteria: "?(@.city == 'Zürich')", want: "?(@.city == 'Zürich')"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := Compile(tt.criteria)
			if err != nil {
				t.Fatalf("Compile(%q) error = %v", tt.criteria, err)
			}
			if got := f.String(); got != tt.want {
				t.Errorf("Compile(%q).String() = %q, want %q", tt.criteria, got, tt.want)
			}
		})
	}
}

func TestCompile_ExpressionTree(t *testing.T) {
	t.Parallel()

	f, err := Compile("?(@.price < 10 && @.size in [1, 'a', true])")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	logical, ok := f.Expression().(Logical)
	if !ok || logical.Op != "&&" {
		t.Fatalf("Expression() = %#v, want && Logical", f.Expression())
	}

	left, ok := logical.Left.(Relation)
	if !ok {
		t.Fatalf("Left = %#v, want Relation", logical.Left)
	}
	if left.Left.Kind != OperandPath || left.Left.Text != "@.price" {
		t.Errorf("Left.Left = %+v, want path @.price", left.Left)
	}
	if left.Right.Kind != OperandNumber || left.Right.Value != 10.0 {
		t.Errorf("Left.Right = %+v, want number 10", left.Right)
	}

	right, ok := logical.Right.(Relation)
	if !ok {
		t.Fatalf("Right = %#v, want Relation", logical.Right)
	}
	want := []any{1.0, "a", true}
	if !reflect.DeepEqual(right.Right.Value, want) {
		t.Errorf("Right.Right.Value = %#v, want %#v", right.Right.Value, want)
	}
}

func TestCompile_NonASCIIPathOperands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		criteria string
		path     string
	}{
		{criteria: "?(@.à == 1)", path: "@.à"},
		{criteria: "?(@.Å == 1)", path: "@.Å"},
		{criteria: "?(@.名 == 1)", path: "@.名"},
		{criteria: "?(@.x\u0085 == 1)", path: "@.x\u0085"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			f, err := Compile(tt.criteria)
			if err != nil {
				t.Fatalf("Compile(%q) error = %v", tt.criteria, err)
			}

			relation, ok := f.Expression().(Relation)
			if !ok {
				t.Fatalf("Expression() = %#v, want Relation", f.Expression())
			}
			if relation.Left.Text != tt.path {
				t.Errorf("Left.Text = %q, want %q", relation.Left.Text, tt.path)
			}
		})
	}
}

func TestCompile_Regex(t *testing.T) {
	t.Parallel()

	f, err := Compile("?(@.author =~ /^nigel/i)")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	relation := f.Expression().(Relation)
	if relation.Right.Regexp == nil {
		t.Fatal("regex operand was not compiled")
	}
	if !relation.Right.Regexp.MatchString("Nigel Rees") {
		t.Error("compiled regex does not honour the i flag")
	}
}

func TestCompile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		criteria string
		contains string
	}{
		{name: "missing_question_mark", criteria: "(@.a)", contains: "must start with '?'"},
		{name: "missing_parentheses", criteria: "?@.a", contains: "enclosed in '?(' and ')'"},
		{name: "unterminated", criteria: "?(@.a", contains: "enclosed"},
		{name: "empty", criteria: "?()", contains: "expression is empty"},
		{name: "single_equals", criteria: "?(@.a = 1)", contains: "unexpected '='"},
		{name: "missing_operand", criteria: "?(@.a == )", contains: "unexpected end of expression"},
		{name: "regex_operator_without_regex", criteria: "?(@.a =~ 'x')", contains: "expects a regex"},
		{name: "regex_on_left", criteria: "?(/x/ == @.a)", contains: "right operand"},
		{name: "regex_bad_flag", criteria: "?(@.a =~ /x/q)", contains: "unsupported regex flag"},
		{name: "in_without_array", criteria: "?(@.a in 5)", contains: "expects an array or a path"},
		{name: "in_with_object", criteria: "?(@.a in {'a': 1})", contains: "got an object"},
		{name: "empty_without_boolean", criteria: "?(@.a empty 1)", contains: "expects a boolean"},
		{name: "bare_literal", criteria: "?('x')", contains: "expected a path or a comparison"},
		{name: "unknown_identifier", criteria: "?(foo == 1)", contains: "unexpected identifier"},
		{name: "unbalanced_groups", criteria: "?(@.a) && (@.b)", contains: "unexpected token"},
		{name: "unterminated_string", criteria: "?(@.a == 'x)", contains: "unterminated string"},
		{name: "malformed_json", criteria: "?(@.a in [1,])", contains: "invalid literal"},
		{name: "dangling_and", criteria: "?(@.a &&)", contains: "unexpected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Compile(tt.criteria)
			if err == nil {
				t.Fatalf("Compile(%q) expected error", tt.criteria)
			}
			if !errors.Is(err, ErrInvalidFilter) {
				t.Errorf("Compile(%q) error = %v, want ErrInvalidFilter", tt.criteria, err)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Compile(%q) error = %q, want to contain %q", tt.criteria, err.Error(), tt.contains)
			}
		})
	}
}

func TestCompile_PathValidator(t *testing.T) {
	t.Parallel()

	errBadPath := errors.New("bad path")
	var seen []string
	validate := func(path string) error {
		seen = append(seen, path)
		if strings.Contains(path, "bad") {
			return errBadPath
		}
		return nil
	}

	if _, err := Compile("?(@.good == $.other)", WithPathValidator(validate)); err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if want := []string{"@.good", "$.other"}; !reflect.DeepEqual(seen, want) {
		t.Errorf("validator saw %v, want %v", seen, want)
	}

	_, err := Compile("?(@.bad)", WithPathValidator(validate))
	if !errors.Is(err, errBadPath) || !errors.Is(err, ErrInvalidFilter) {
		t.Errorf("Compile() error = %v, want wrapped bad path and ErrInvalidFilter", err)
	}
}

func TestCompile_ErrorPosition(t *testing.T) {
	t.Parallel()

	_, err := Compile("?(@.a == 1 # 2)")
	if err == nil {
		t.Fatal("Compile() expected error")
	}
	if !strings.Contains(err.Error(), "position 11") {
		t.Errorf("Compile() error = %q, want position 11", err.Error())
	}
}
