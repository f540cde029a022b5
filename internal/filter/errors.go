package filter

import (
	"errors"
	"fmt"
)

// ErrInvalidFilter indicates a malformed inline filter expression.
var ErrInvalidFilter = errors.New("invalid filter")

func filterError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidFilter, fmt.Sprintf(format, args...))
}
