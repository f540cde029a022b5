package exit

import (
	"fmt"
	"io"
)

// Result holds the exit code and the message to print before terminating.
type Result struct {
	ExitCode int
	Message  string
}

// Print writes the message to stdout on success and to stderr otherwise.
func (r *Result) Print(stdout, stderr io.Writer) {
	if r.Message == "" {
		return
	}

	out := stderr
	if r.ExitCode == 0 {
		out = stdout
	}
	fmt.Fprint(out, r.Message)
}

// Success creates a successful exit result with exit code 0.
func Success(message string) *Result {
	return &Result{
		ExitCode: 0,
		Message:  message,
	}
}

// Error creates an error exit result with exit code 1.
func Error(message string) *Result {
	return &Result{
		ExitCode: 1,
		Message:  message,
	}
}

// Errorf creates an error exit result with formatted message.
func Errorf(format string, a ...any) *Result {
	return Error(fmt.Sprintf(format, a...))
}
