package service

import (
	"errors"
	"fmt"
)

// Conflict kinds reported to callers so a rejected operation can be
// resolved without guessing.
const (
	ConflictChildLocations  = "child_locations"
	ConflictChildContainers = "child_containers"
	ConflictContainers      = "containers"
	ConflictItems           = "items"
	ConflictCycle           = "cycle"
	ConflictDuplicateName   = "duplicate_name"
	ConflictDuplicateCode   = "duplicate_barcode"
)

// ValidationError reports missing or malformed input; nothing was read
// from or written to the store.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NotFoundError reports an id that is absent or owned by another user.
// Distinguished from ValidationError so the caller can tell "doesn't
// exist" from "bad input".
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// ConflictError reports a rejected mutation: a hierarchy cycle, a
// duplicate name, or a delete blocked by dependents. Kind and Count let
// the caller resolve the conflict.
type ConflictError struct {
	Kind    string
	Count   int64
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// DependencyError reports an external oracle that was unreachable or
// answered unusably, with no partial signal left to fall back on.
type DependencyError struct {
	Service string
	Err     error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func notFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

func conflictf(kind string, count int64, format string, args ...interface{}) error {
	return &ConflictError{Kind: kind, Count: count, Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
