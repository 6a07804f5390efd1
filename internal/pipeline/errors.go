package pipeline

import (
	"errors"
	"strings"
)

// Sentinel errors for pipeline stages.
var (
	// ErrConversion indicates the external converter failed.
	ErrConversion = errors.New("HTML generation failed")

	// ErrEmptyFragment indicates an empty markdown fragment was passed for conversion.
	ErrEmptyFragment = errors.New("markdown fragment cannot be empty")

	// ErrStaging indicates the staging directory could not be prepared.
	ErrStaging = errors.New("staging failed")
)

// ConversionError carries the converter's diagnostic output.
type ConversionError struct {
	Stderr string
	Hint   string
	Err    error
}

func (e *ConversionError) Error() string {
	var b strings.Builder
	b.WriteString(ErrConversion.Error())
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		b.WriteString(": ")
		b.WriteString(stderr)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	b.WriteString(e.Hint)
	return b.String()
}

// Unwrap exposes both ErrConversion and the underlying process error.
func (e *ConversionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConversion}
	}
	return []error{ErrConversion, e.Err}
}

// Diagnostic returns the converter's stderr, or the process error when the
// converter printed nothing.
func (e *ConversionError) Diagnostic() string {
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		return stderr
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return ""
}
