package output

import (
	"context"
	"errors"
	"fmt"

	"github.com/marcjazz/nullslot/internal/domain"
)

// Exit code constants
const (
	ExitSuccess      = 0
	ExitGeneral      = 1
	ExitUsageError   = 2
	ExitAuthRequired = 3
	ExitConfigError  = 4
	ExitTimeout      = 5
	ExitServerError  = 6
)

// CLIError is a structured error with user-facing context
type CLIError struct {
	Summary    string
	Detail     string
	Suggestion string
	ExitCode   int
}

// Error implements the error interface, returning the summary
func (e *CLIError) Error() string {
	return e.Summary
}

// AuthRequired is the error for commands run without a session.
func AuthRequired() *CLIError {
	return &CLIError{
		Summary:    "not logged in",
		Suggestion: "Run 'nullslot login' to start a session",
		ExitCode:   ExitAuthRequired,
	}
}

// Classify converts err into a CLIError, keeping an existing one as is.
func Classify(err error) *CLIError {
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		return AuthRequired()
	case errors.Is(err, domain.ErrUnauthorized):
		return &CLIError{
			Summary:    "session rejected by the server",
			Detail:     err.Error(),
			Suggestion: "Run 'nullslot login' to start a new session",
			ExitCode:   ExitAuthRequired,
		}
	case errors.Is(err, context.DeadlineExceeded):
		return &CLIError{Summary: "timed out", Detail: err.Error(), ExitCode: ExitTimeout}
	case errors.Is(err, domain.ErrBackendUnavailable):
		return &CLIError{
			Summary:    "backend unavailable",
			Detail:     err.Error(),
			Suggestion: "Check api.base_url with 'nullslot config'",
			ExitCode:   ExitServerError,
		}
	default:
		return &CLIError{Summary: err.Error(), ExitCode: ExitGeneral}
	}
}

// FormatError prints a structured error message to stderr
func (p *Printer) FormatError(e *CLIError) {
	p.Error("%s", e.Summary)
	if e.Detail != "" {
		fmt.Fprintf(p.err, "  Cause: %s\n", p.Dim(e.Detail))
	}
	if e.Suggestion != "" {
		fmt.Fprintf(p.err, "  Suggestion: %s\n", p.Bold(e.Suggestion))
	}
}
