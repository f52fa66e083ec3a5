package parser

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/mcncl/jsontab/internal/config"
	"github.com/mcncl/jsontab/internal/logging"
)

// contextWidth is how many bytes of source are shown either side of an error.
const contextWidth = 20

// ReadError describes malformed JSON input.
type ReadError struct {
	Message string
	Code    int
	Offset  int
	// Context is the source text around Offset with line breaks flattened.
	Context string
	// Caret is a line of spaces ending in '^' under the offending byte of Context.
	Caret string
	File  string
}

func newReadError(data []byte, offset, code int, msg string) *ReadError {
	start := max(offset-contextWidth, 0)
	end := min(offset+contextWidth, len(data))
	if start > end {
		start = end
	}

	ctx := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t':
			return ' '
		}
		return r
	}, string(data[start:end]))

	return &ReadError{
		Message: msg,
		Code:    code,
		Offset:  offset,
		Context: ctx,
		Caret:   strings.Repeat(" ", offset-start) + "^",
	}
}

// Error renders the message followed by the context window and caret.
func (e *ReadError) Error() string {
	var b strings.Builder
	if e.File != "" {
		fmt.Fprintf(&b, "Error parsing JSON file '%s': %s code: %d at position: %d", e.File, e.Message, e.Code, e.Offset)
	} else {
		fmt.Fprintf(&b, "Error parsing JSON: %s code: %d at position: %d", e.Message, e.Code, e.Offset)
	}
	if e.Context != "" {
		b.WriteString("\n")
		b.WriteString(e.Context)
		b.WriteString("\n")
		b.WriteString(e.Caret)
	}
	return b.String()
}

// Validate reports whether data holds valid JSON. In verbose mode the reason
// is logged as a warning.
func Validate(data []byte, flags config.ReadFlag, verbose bool, log logging.Logger) bool {
	_, err := validated(data, flags)
	if err != nil {
		if verbose {
			logging.OrNop(log).Warn(unwrapReadError(err), nil)
		}
		return false
	}
	return true
}

// ValidateFile reports whether the file at path holds valid JSON.
func ValidateFile(path string, flags config.ReadFlag, verbose bool, log logging.Logger) bool {
	data, err := readFile(path)
	if err != nil {
		if verbose {
			logging.OrNop(log).Warn(err.Error(), logging.Fields{"file": path})
		}
		return false
	}
	_, err = validated(data, flags)
	if err != nil {
		if verbose {
			logging.OrNop(log).Warn(unwrapReadError(err), logging.Fields{"file": path})
		}
		return false
	}
	return true
}

func unwrapReadError(err error) string {
	var re *ReadError
	if stderrors.As(err, &re) {
		return re.Error()
	}
	return err.Error()
}
