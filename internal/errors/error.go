package errors

import "fmt"

// Category represents the type of error.
type Category string

const (
	CategoryConfig  Category = "config"
	CategoryRender  Category = "render"
	CategoryMount   Category = "mount"
	CategoryReload  Category = "reload"
	CategoryPublish Category = "publish"
	CategoryCLI     Category = "cli"
)

// Location represents a position in a source or configuration file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// HotwebError is a structured error with a code, explanation and hint.
type HotwebError struct {
	// Code is a unique error identifier (e.g., "E301").
	Code string

	// Category is the error type (config, mount, reload, ...).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location points at the offending file position, if known.
	Location *Location

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *HotwebError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *HotwebError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a HotwebError with the same code.
func (e *HotwebError) Is(target error) bool {
	t, ok := target.(*HotwebError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithLocation adds a file position to the error.
func (e *HotwebError) WithLocation(file string, line, column int) *HotwebError {
	e.Location = &Location{File: file, Line: line, Column: column}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *HotwebError) WithSuggestion(s string) *HotwebError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *HotwebError) WithDetail(d string) *HotwebError {
	e.Detail = d
	return e
}

// WithDetailf is WithDetail with a format string.
func (e *HotwebError) WithDetailf(format string, args ...any) *HotwebError {
	return e.WithDetail(fmt.Sprintf(format, args...))
}

// Wrap wraps another error.
func (e *HotwebError) Wrap(err error) *HotwebError {
	e.Wrapped = err
	return e
}

// New creates a HotwebError from a registered error code.
// Each call returns a fresh value, so decorating it never mutates a sentinel.
func New(code string) *HotwebError {
	template, ok := registry[code]
	if !ok {
		return &HotwebError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &HotwebError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new HotwebError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *HotwebError {
	return &HotwebError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a HotwebError.
func FromError(err error, code string) *HotwebError {
	if err == nil {
		return nil
	}
	if he, ok := err.(*HotwebError); ok {
		return he
	}
	return New(code).Wrap(err)
}

// Code returns the code of err if it is (or wraps) a HotwebError.
func Code(err error) string {
	for err != nil {
		if he, ok := err.(*HotwebError); ok {
			return he.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
