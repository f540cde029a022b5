// Package cursor provides forward-only character navigation over a path
// string, with lookahead helpers that understand brackets, parentheses,
// quoted strings and regex literals.
package cursor

const (
	openSquareBracket  = '['
	closeSquareBracket = ']'
	openParenthesis    = '('
	closeParenthesis   = ')'
	singleQuote        = '\''
	doubleQuote        = '"'
	regexDelimiter     = '/'
	escape             = '\\'
	space              = ' '
)

// Cursor is owned by a single compilation and must not be shared.
type Cursor struct {
	text string
	pos  int
}

func New(text string) *Cursor {
	return &Cursor{text: text}
}

func (c *Cursor) Position() int {
	return c.pos
}

func (c *Cursor) Len() int {
	return len(c.text)
}

func (c *Cursor) String() string {
	return c.text
}

// Current returns 0 when the cursor is past the end of the text.
func (c *Cursor) Current() byte {
	return c.CharAt(c.pos)
}

func (c *Cursor) CurrentIs(ch byte) bool {
	return c.InBounds(c.pos) && c.text[c.pos] == ch
}

// CharAt returns 0 for indexes outside the text.
func (c *Cursor) CharAt(i int) byte {
	if !c.InBounds(i) {
		return 0
	}
	return c.text[i]
}

func (c *Cursor) InBounds(i int) bool {
	return i >= 0 && i < len(c.text)
}

// HasMore reports whether a character follows the current one.
func (c *Cursor) HasMore() bool {
	return c.InBounds(c.pos + 1)
}

func (c *Cursor) NextIs(ch byte) bool {
	return c.InBounds(c.pos+1) && c.text[c.pos+1] == ch
}

// AtEnd reports whether every character has been consumed.
func (c *Cursor) AtEnd() bool {
	return c.pos >= len(c.text)
}

// IsTail reports whether the cursor sits on the last character or beyond.
func (c *Cursor) IsTail() bool {
	return c.pos >= len(c.text)-1
}

// Advance moves forward by n characters; non-positive n is ignored.
func (c *Cursor) Advance(n int) {
	if n > 0 {
		c.pos += n
	}
}

// SetPosition moves the cursor to p. Positions behind the current one are
// ignored: the cursor only moves forward.
func (c *Cursor) SetPosition(p int) {
	if p > c.pos {
		c.pos = p
	}
}

// Slice returns text[start:end] clamped to the text bounds.
func (c *Cursor) Slice(start, end int) string {
	start = max(start, 0)
	end = min(end, len(c.text))
	if start >= end {
		return ""
	}
	return c.text[start:end]
}

// NextSignificantChar returns the first non-space character after the
// current position, or a space when there is none.
func (c *Cursor) NextSignificantChar() byte {
	return c.NextSignificantCharFrom(c.pos)
}

// NextSignificantCharFrom returns the first non-space character after
// index i, or a space when there is none.
func (c *Cursor) NextSignificantCharFrom(i int) byte {
	idx := c.nextSignificantIndex(i)
	if idx == -1 {
		return space
	}
	return c.text[idx]
}

func (c *Cursor) NextSignificantCharIs(ch byte) bool {
	return c.NextSignificantCharFromIs(c.pos, ch)
}

func (c *Cursor) NextSignificantCharFromIs(i int, ch byte) bool {
	idx := c.nextSignificantIndex(i)
	return idx != -1 && c.text[idx] == ch
}

// IndexOfNextSignificantChar returns the index of the first non-space
// character after the current position when it equals ch, otherwise -1.
func (c *Cursor) IndexOfNextSignificantChar(ch byte) int {
	return c.IndexOfNextSignificantCharFrom(c.pos, ch)
}

func (c *Cursor) IndexOfNextSignificantCharFrom(i int, ch byte) int {
	idx := c.nextSignificantIndex(i)
	if idx == -1 || c.text[idx] != ch {
		return -1
	}
	return idx
}

func (c *Cursor) nextSignificantIndex(i int) int {
	for idx := i + 1; c.InBounds(idx); idx++ {
		if !isSpace(c.text[idx]) {
			return idx
		}
	}
	return -1
}

// NextIndexOf returns the index of the first ch at or after start that is
// not inside a quoted string or a nested bracket or parenthesis group.
func (c *Cursor) NextIndexOf(start int, ch byte) int {
	depth := 0
	for i := max(start, 0); i < len(c.text); i++ {
		current := c.text[i]
		if depth == 0 && current == ch {
			return i
		}

		switch current {
		case singleQuote, doubleQuote:
			end := c.nextUnescapedIndexOf(i, current)
			if end == -1 {
				return -1
			}
			i = end
		case openSquareBracket, openParenthesis:
			depth++
		case closeSquareBracket, closeParenthesis:
			if depth > 0 {
				depth--
			}
		}
	}
	return -1
}

// IndexOfClosingBracket returns the index of the ')' matching the '(' at
// open, or -1 when open is not a '(' or the group is unterminated.
// Quoted strings and /regex/ literals are skipped when requested.
func (c *Cursor) IndexOfClosingBracket(open int, skipStrings, skipRegex bool) int {
	if c.CharAt(open) != openParenthesis {
		return -1
	}

	opened := 1
	for i := open + 1; i < len(c.text); i++ {
		current := c.text[i]
		switch {
		case skipStrings && (current == singleQuote || current == doubleQuote):
			end := c.nextUnescapedIndexOf(i, current)
			if end == -1 {
				return -1
			}
			i = end
		case skipRegex && current == regexDelimiter:
			end := c.nextUnescapedIndexOf(i, regexDelimiter)
			if end == -1 {
				return -1
			}
			i = end
		case current == openParenthesis:
			opened++
		case current == closeParenthesis:
			opened--
			if opened == 0 {
				return i
			}
		}
	}
	return -1
}

func (c *Cursor) nextUnescapedIndexOf(start int, ch byte) int {
	for i := start + 1; i < len(c.text); i++ {
		switch c.text[i] {
		case escape:
			i++
		case ch:
			return i
		}
	}
	return -1
}

func isSpace(ch byte) bool {
	return ch == space || ch == '\t' || ch == '\n' || ch == '\r'
}
