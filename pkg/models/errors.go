package models

import "fmt"

// ValidationError reports an entity invariant violated at construction time.
type ValidationError struct {
	Entity  string // "persona", "post", "request"
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s is invalid", e.Entity, e.Field)
}

func requireField(entity, field, value, message string) error {
	if value == "" {
		return &ValidationError{Entity: entity, Field: field, Message: message}
	}
	return nil
}
