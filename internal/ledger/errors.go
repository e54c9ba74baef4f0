package ledger

import (
	"fmt"
)

// Kinds of records, used when reporting what wasn't found.
const (
	KindCustomer   = "customer"
	KindRestaurant = "restaurant"
	KindReview     = "review"
)

// NotFoundError is returned when a referenced record doesn't exist.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found by id: %d", e.Kind, e.ID)
}

// ValidationError wraps the validator.ValidationErrors for a record that failed validation.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// StorageError is returned when the underlying storage failed to read or write.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failed to %s: %s", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
