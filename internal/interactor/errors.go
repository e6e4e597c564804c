package interactor

import "fmt"

// DuplicateError is returned when creating an entity whose ID is already stored.
type DuplicateError struct {
	Kind string
	ID   string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s with ID '%s' already exists", e.Kind, e.ID)
}

// NotFoundError is returned when an operation needs an entity that is not stored.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID '%s' not found", e.Kind, e.ID)
}
