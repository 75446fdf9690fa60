package models

import (
	"strings"
	"time"
)

// ValidationError is returned by the entity constructors when a field is missing or invalid
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidationField returns the name of the offending field
func (e *ValidationError) ValidationField() string {
	return e.Field
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func sameInstant(a, b time.Time) bool {
	return a.UnixMilli() == b.UnixMilli()
}
