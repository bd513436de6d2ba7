package types

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrMissingEmail = errors.New("no email address on file")
)

// ValidationError carries field-level messages keyed by form field name.
type ValidationError struct {
	Fields map[string]string `json:"errors"`
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func FieldError(field, message string) *ValidationError {
	return NewValidationError().Add(field, message)
}

// Add keeps the first message recorded for a field.
func (v *ValidationError) Add(field, message string) *ValidationError {
	if _, exists := v.Fields[field]; !exists {
		v.Fields[field] = message
	}
	return v
}

func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.Fields) > 0
}

// OrNil returns nil when no field errors were collected.
func (v *ValidationError) OrNil() error {
	if !v.HasErrors() {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ConfigurationError reports missing infrastructure. Message is shown to the user.
type ConfigurationError struct {
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func AsValidationError(err error) (*ValidationError, bool) {
	var v *ValidationError
	ok := errors.As(err, &v)
	return v, ok
}

func AsConfigurationError(err error) (*ConfigurationError, bool) {
	var c *ConfigurationError
	ok := errors.As(err, &c)
	return c, ok
}
