// internal/domain/faults/faults.go

// Package faults defines the stable error kinds surfaced by core
// operations. Every business failure carries a Kind and a human-readable
// message; storage and transport faults are propagated unchanged and are
// never wrapped into one of these kinds.
package faults

import (
	"errors"
	"fmt"
)

// Kind identifies a class of business failure.
type Kind string

const (
	// KindValidation covers empty or invalid input, such as a blank
	// workspace name or note title.
	KindValidation Kind = "validation"
	// KindNotFound covers an absent workspace, note, or invite token,
	// including author-scoped lookups that match nothing.
	KindNotFound Kind = "not_found"
	// KindAccessDenied covers failed membership or edit-right checks.
	KindAccessDenied Kind = "access_denied"
	// KindAlreadyMember covers a duplicate join attempt.
	KindAlreadyMember Kind = "already_member"
	// KindConflict covers lost races on conditional writes, such as an
	// invite-token collision or a concurrent version append. Callers
	// retry these internally a bounded number of times; the other kinds
	// are terminal.
	KindConflict Kind = "conflict"
)

// Error is a business failure with a stable kind.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New builds an Error with the given kind and message.
func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Newf builds an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validation returns a KindValidation error.
func Validation(message string) error { return New(KindValidation, message) }

// NotFound returns a KindNotFound error.
func NotFound(message string) error { return New(KindNotFound, message) }

// AccessDenied returns a KindAccessDenied error.
func AccessDenied(message string) error { return New(KindAccessDenied, message) }

// AlreadyMember returns a KindAlreadyMember error.
func AlreadyMember(message string) error { return New(KindAlreadyMember, message) }

// Conflict returns a KindConflict error.
func Conflict(message string) error { return New(KindConflict, message) }

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == kind
}

// KindOf returns the kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return "", false
}

// warning marks an error as non-fatal: the primary mutation committed and
// only a follow-up step (the activity append) failed.
type warning struct {
	err error
}

func (w *warning) Error() string { return "warning: " + w.err.Error() }
func (w *warning) Unwrap() error { return w.err }

// Warn wraps err as a non-fatal warning. Operations that return a warning
// alongside a result have fully applied their primary effect; callers
// should log the warning and treat the call as successful.
func Warn(err error) error {
	if err == nil {
		return nil
	}
	return &warning{err: err}
}

// IsWarning reports whether err is a non-fatal warning.
func IsWarning(err error) bool {
	var w *warning
	return errors.As(err, &w)
}
