package models

import (
	"fmt"

	"github.com/google/uuid"
)

// DomainError carries a stable code alongside the message so handlers can map
// failures to responses without string matching.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

var (
	ErrNotFound           = NewDomainError("NOT_FOUND", "resource not found")
	ErrInvalidState       = NewDomainError("INVALID_STATE", "operation not allowed in current state")
	ErrStorageUnavailable = NewDomainError("STORAGE_UNAVAILABLE", "backing store unavailable")
)

// ValidationError means a required header field is missing or malformed.
// It aborts the draft; no payment advice is persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// UniquenessConflict means a document number is already reserved by another
// document. Only the offending line is skipped.
type UniquenessConflict struct {
	Kind      DocKind
	Number    string
	OwnerUUID uuid.UUID
}

func (e *UniquenessConflict) Error() string {
	return fmt.Sprintf("%s number %q already reserved by %s", e.Kind, e.Number, e.OwnerUUID)
}

// ReferentialError means a settlement line points at a target that was not
// reconciled or belongs to a different customer. The line is skipped.
type ReferentialError struct {
	TargetNumber string
	Reason       string
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("settlement target %q rejected: %s", e.TargetNumber, e.Reason)
}

// GatewayTimeout means an external collaborator exceeded its call bound.
// The email is marked FAILED for the run; sibling emails are unaffected.
type GatewayTimeout struct {
	Gateway string
}

func (e *GatewayTimeout) Error() string {
	return fmt.Sprintf("%s call timed out", e.Gateway)
}
