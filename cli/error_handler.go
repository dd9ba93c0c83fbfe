package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/grovetools/teamwatch/errors"
	"github.com/grovetools/teamwatch/pkg/locale"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler writing to stderr
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle prints a friendly message for err and returns it unchanged.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	out := h.Out
	if out == nil {
		out = os.Stderr
	}

	var structured *errors.Error
	stderrors.As(err, &structured)

	switch code := errors.GetCode(err); {
	case code == errors.ErrCodeConfigNotFound:
		fmt.Fprintf(out, "❌ Configuration not found: %v\n", detail(structured, "path"))
		fmt.Fprintf(out, "Run 'teamwatch schema config' to see the available settings.\n")

	case code == errors.ErrCodeConfigInvalid:
		fmt.Fprintf(out, "❌ %v\n", err)
		if path := detail(structured, "path"); path != nil {
			fmt.Fprintf(out, "Check %v, or run 'teamwatch validate' for details.\n", path)
		}

	case code == errors.ErrCodeLocaleNotFound:
		fmt.Fprintf(out, "❌ Locale '%v' not found\n", detail(structured, "locale"))
		fmt.Fprintf(out, "Available locales: %s\n", strings.Join(locale.Available(), ", "))

	case errors.IsPollFailure(err):
		fmt.Fprintf(out, "❌ Could not read a snapshot from %v\n", detail(structured, "url"))
		fmt.Fprintf(out, "%v\n", err)

	default:
		fmt.Fprintf(out, "❌ Error: %v\n", err)
	}

	if h.Verbose && structured != nil {
		fmt.Fprintf(out, "\nError details:\n%s\n", structured.ToJSON())
	}
	return err
}

func detail(e *errors.Error, key string) interface{} {
	if e == nil || e.Details == nil {
		return nil
	}
	return e.Details[key]
}
