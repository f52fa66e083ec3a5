package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrNoInput         = errors.New("no input provided: please specify a file with -i or pipe JSON data to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
	ErrTooManyColumns  = errors.New("too many distinct column names")
	ErrMaxDepth        = errors.New("maximum nesting depth exceeded")
	ErrInvalidOption   = errors.New("invalid option")
	ErrUnsupportedRank = errors.New("arrays with more than 3 dimensions are not supported")
	ErrNonFiniteNumber = errors.New("nan or inf number is not allowed")
	ErrUnclassifiable  = errors.New("value cannot be classified")
	ErrRaggedTable     = errors.New("table column is shorter than the row count")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput     ErrorType = "input"
	ErrorTypeParsing   ErrorType = "parsing"
	ErrorTypeConfig    ErrorType = "config"
	ErrorTypeLimit     ErrorType = "limit"
	ErrorTypeAnalysis  ErrorType = "analysis"
	ErrorTypeSerialize ErrorType = "serialize"
	ErrorTypeOutput    ErrorType = "output"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another *AppError of the same category
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

func newError(t ErrorType, message string, err error) *AppError {
	return &AppError{Type: t, Message: message, Err: err}
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return newError(ErrorTypeInput, message, err)
}

// NewParsingError creates a new error for malformed JSON
func NewParsingError(message string, err error) *AppError {
	return newError(ErrorTypeParsing, message, err)
}

// NewConfigError creates a new error for a malformed option map or config file
func NewConfigError(message string, err error) *AppError {
	return newError(ErrorTypeConfig, message, err)
}

// NewLimitError creates a new error for an exceeded resource limit
func NewLimitError(message string, err error) *AppError {
	return newError(ErrorTypeLimit, message, err)
}

// NewAnalysisError creates a new error raised while inferring typed values
func NewAnalysisError(message string, err error) *AppError {
	return newError(ErrorTypeAnalysis, message, err)
}

// NewSerializeError creates a new error raised while encoding typed values
func NewSerializeError(message string, err error) *AppError {
	return newError(ErrorTypeSerialize, message, err)
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return newError(ErrorTypeOutput, message, err)
}

// IsType reports whether err wraps an *AppError of category t.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// prefixes holds the CLI heading for each category.
var prefixes = map[ErrorType]string{
	ErrorTypeInput:     "Input error",
	ErrorTypeParsing:   "JSON parsing error",
	ErrorTypeConfig:    "Configuration error",
	ErrorTypeLimit:     "Limit exceeded",
	ErrorTypeAnalysis:  "Type inference error",
	ErrorTypeSerialize: "Serialization error",
	ErrorTypeOutput:    "Output error",
}

// hints are shown for bare sentinels that reach the CLI unwrapped.
var hints = []struct {
	err  error
	text string
}{
	{ErrEmptyInput, "The input is empty. Please provide valid JSON data."},
	{ErrInvalidJSON, "The input contains invalid JSON. Please check your JSON syntax."},
	{ErrFileNotFound, "The specified file could not be found. Please check the file path."},
	{ErrFileEmpty, "The specified file is empty. Please provide a file with valid JSON content."},
	{ErrNoInput, "No input provided. Please specify a file with -i or pipe JSON data to stdin."},
	{ErrInvalidFilePath, "Invalid file path. Please provide a valid file path."},
}

// UserFriendlyError renders err for the command line. A parsing error with a
// cause prints the cause alone so the read error keeps its caret layout.
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Type == ErrorTypeParsing && appErr.Err != nil {
			return appErr.Err.Error()
		}
		prefix, ok := prefixes[appErr.Type]
		if !ok {
			prefix = "Error"
		}
		return fmt.Sprintf("%s: %s", prefix, appErr.Message)
	}

	for _, h := range hints {
		if errors.Is(err, h.err) {
			return "Error: " + h.text
		}
	}
	return fmt.Sprintf("Error: %v", err)
}
