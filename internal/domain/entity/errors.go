package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested entity was not found.
	// Use case sentinels for missing articles, vaccines, statistics and
	// recommendations wrap it.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotNumeric indicates that an identifier or amount could not be parsed as a number
	ErrNotNumeric = errors.New("identifier must be numeric")

	// ErrNoRowsAffected indicates that an update or delete matched no row
	ErrNoRowsAffected = errors.New("no rows affected")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap returns the sentinel the validation failure is classified under, if any.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ErrorKind classifies a failure reported by the relational store.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindTableMissing
	KindTableExists
	KindRequired
	KindDuplicate
	KindNotRegistered
	KindNotNumeric
	KindOutOfRange
	KindCheck
	KindConflict
)

var kindNames = map[ErrorKind]string{
	KindUnknown:       "unknown",
	KindTableMissing:  "table_missing",
	KindTableExists:   "table_exists",
	KindRequired:      "required",
	KindDuplicate:     "duplicate",
	KindNotRegistered: "not_registered",
	KindNotNumeric:    "not_numeric",
	KindOutOfRange:    "out_of_range",
	KindCheck:         "check",
	KindConflict:      "conflict",
}

// String returns the metric/log label of the kind.
func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[KindUnknown]
}

// StoreError is a classified store failure.
//
// Table and Field name the violated relation and column when the store reports them.
// For foreign key violations Table is the referenced table. Value carries the
// offending key value taken from the store detail, when present.
type StoreError struct {
	Kind       ErrorKind
	Table      string
	Field      string
	Value      string
	Constraint string
	Code       string
	Message    string
	Err        error
}

func (e *StoreError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("store error (%s): %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("store error (%s) %s: %s", e.Kind, e.Code, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first StoreError in err's chain.
// Client-side numeric parse failures report KindNotNumeric.
func KindOf(err error) ErrorKind {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}
	if errors.Is(err, ErrNotNumeric) {
		return KindNotNumeric
	}
	return KindUnknown
}
