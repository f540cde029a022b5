package path

import (
	"errors"
	"fmt"
)

// ErrSyntax matches every error returned by Compile.
var ErrSyntax = errors.New("invalid path syntax")

// SyntaxError describes why a path failed to compile.
type SyntaxError struct {
	Msg string
	// Pos is the offset into the normalized path, or -1 when unknown.
	Pos int
	Err error
}

func (e *SyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrSyntax, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrSyntax, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

func syntaxError(pos int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...), Pos: pos}
}

// asSyntaxError keeps an existing *SyntaxError and wraps anything else.
func asSyntaxError(err error, pos int) *SyntaxError {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se
	}
	return &SyntaxError{Msg: "could not compile path", Pos: pos, Err: err}
}
