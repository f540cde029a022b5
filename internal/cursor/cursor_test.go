package cursor

import "testing"

func TestCursor_Navigation(t *testing.T) {
	t.Parallel()

	c := New("$.ab")

	if c.Current() != '$' {
		t.Fatalf("Current() = %q, want '$'", c.Current())
	}
	if !c.NextIs('.') {
		t.Error("NextIs('.') = false, want true")
	}
	if !c.HasMore() {
		t.Error("HasMore() = false, want true")
	}

	c.Advance(3)
	if c.Current() != 'b' || !c.IsTail() || c.AtEnd() {
		t.Errorf("after Advance(3): Current() = %q, IsTail() = %t, AtEnd() = %t", c.Current(), c.IsTail(), c.AtEnd())
	}
	if c.HasMore() {
		t.Error("HasMore() on last character = true, want false")
	}

	c.Advance(1)
	if !c.AtEnd() {
		t.Error("AtEnd() = false after consuming every character")
	}
	if c.Current() != 0 {
		t.Errorf("Current() past the end = %q, want 0", c.Current())
	}
}

func TestCursor_PositionNeverDecreases(t *testing.T) {
	t.Parallel()

	c := New("$['a']")
	c.SetPosition(4)
	c.SetPosition(1)
	c.Advance(-3)

	if c.Position() != 4 {
		t.Errorf("Position() = %d, want 4", c.Position())
	}
}

func TestCursor_SignificantChars(t *testing.T) {
	t.Parallel()

	c := New("[  ?  ]")

	if got := c.NextSignificantChar(); got != '?' {
		t.Errorf("NextSignificantChar() = %q, want '?'", got)
	}
	if got := c.IndexOfNextSignificantChar('?'); got != 3 {
		t.Errorf("IndexOfNextSignificantChar('?') = %d, want 3", got)
	}
	if got := c.IndexOfNextSignificantChar('*'); got != -1 {
		t.Errorf("IndexOfNextSignificantChar('*') = %d, want -1", got)
	}
	if !c.NextSignificantCharFromIs(3, ']') {
		t.Error("NextSignificantCharFromIs(3, ']') = false, want true")
	}
	if got := c.NextSignificantCharFrom(6); got != ' ' {
		t.Errorf("NextSignificantCharFrom(end) = %q, want ' '", got)
	}
}

func TestCursor_NextIndexOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		start int
		ch    byte
		want  int
	}{
		{name: "plain", text: "[1,2]", start: 1, ch: ']', want: 4},
		{name: "skips_quotes", text: "['a]b']", start: 1, ch: ']', want: 6},
		{name: "skips_nested_brackets", text: "[?(@.a[0])]", start: 1, ch: ']', want: 10},
		{name: "escaped_quote", text: `['a\'],']`, start: 1, ch: ',', want: -1},
		{name: "unterminated_quote", text: "['abc]", start: 1, ch: ']', want: -1},
		{name: "missing", text: "[1,2", start: 1, ch: ']', want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := New(tt.text).NextIndexOf(tt.start, tt.ch); got != tt.want {
				t.Errorf("NextIndexOf(%d, %q) = %d, want %d", tt.start, tt.ch, got, tt.want)
			}
		})
	}
}

func TestCursor_IndexOfClosingBracket(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		text        string
		open        int
		skipStrings bool
		skipRegex   bool
		want        int
	}{
		{name: "simple", text: "?(@.a)", open: 1, want: 5},
		{name: "nested", text: "?((@.a) && (@.b))", open: 1, want: 16},
		{name: "string_with_paren", text: "?(@.a == ')')", open: 1, skipStrings: true, want: 12},
		{name: "string_not_skipped", text: "?(@.a == ')')", open: 1, want: 10},
		{name: "regex_with_paren", text: "?(@.a =~ /(x)\\)/)", open: 1, skipStrings: true, skipRegex: true, want: 16},
		{name: "unterminated", text: "?(@.a", open: 1, want: -1},
		{name: "unterminated_string", text: "?(@.a == 'x)", open: 1, skipStrings: true, want: -1},
		{name: "not_a_parenthesis", text: "?(@.a)", open: 0, want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := New(tt.text).IndexOfClosingBracket(tt.open, tt.skipStrings, tt.skipRegex)
			if got != tt.want {
				t.Errorf("IndexOfClosingBracket(%d) = %d, want %d", tt.open, got, tt.want)
			}
		})
	}
}

func TestCursor_Slice(t *testing.T) {
	t.Parallel()

	c := New("$.store")
	if got := c.Slice(2, 7); got != "store" {
		t.Errorf("Slice(2, 7) = %q, want \"store\"", got)
	}
	if got := c.Slice(5, 100); got != "re" {
		t.Errorf("Slice(5, 100) = %q, want \"re\"", got)
	}
	if got := c.Slice(4, 2); got != "" {
		t.Errorf("Slice(4, 2) = %q, want \"\"", got)
	}
}
