// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xerrors

import (
	"fmt"

	"emperror.dev/errors"
	"go.uber.org/zap"
)

const (
	// ErrTimeout is returned when an operation could not complete within its wait budget.
	ErrTimeout = errors.Sentinel("the operation did not complete within the timeout")

	// ErrCapacityExceeded is returned when a semaphore is given beyond its maximum count or
	// when a non-blocking send finds a queue full.
	ErrCapacityExceeded = errors.Sentinel("the primitive is already at capacity")

	// ErrOwnershipViolation is the cause of every OwnershipError.
	ErrOwnershipViolation = errors.Sentinel("the lock was released by a context that does not hold it")

	// ErrResourceExhausted is returned when a primitive cannot be created.
	ErrResourceExhausted = errors.Sentinel("the primitive could not be created")

	// ErrClosed is returned by any operation on a primitive that has been closed, including
	// operations that were blocked when the close happened.
	ErrClosed = errors.Sentinel("the primitive has been closed")
)

// ErrWouldBlock is returned by zero-timeout attempts on an unavailable resource.  It matches
// ErrTimeout under errors.Is, since a zero timeout is simply an empty wait budget.
var ErrWouldBlock error = wouldBlockError{}

type wouldBlockError struct{}

func (wouldBlockError) Error() string {
	return "the operation would block"
}

func (wouldBlockError) Is(target error) bool {
	return target == ErrTimeout
}

// OwnershipError describes a mutex release attempted by a context other than the holder.
type OwnershipError struct {
	// Name is the name of the lock, if one was configured.
	Name string

	// Holder is the identity of the current holder.  It is empty if the lock was not held.
	Holder string

	// Caller is the identity that attempted the release.
	Caller string
}

func (e *OwnershipError) Error() string {
	if len(e.Holder) == 0 {
		return fmt.Sprintf("lock [%s] released by [%s] while not held", e.Name, e.Caller)
	}

	return fmt.Sprintf("lock [%s] held by [%s] released by [%s]", e.Name, e.Holder, e.Caller)
}

func (e *OwnershipError) Unwrap() error {
	return ErrOwnershipViolation
}

// NewOwnershipError creates an OwnershipError for the given lock, holder, and caller.
func NewOwnershipError(name, holder, caller string) *OwnershipError {
	return &OwnershipError{
		Name:   name,
		Holder: holder,
		Caller: caller,
	}
}

// Exhausted wraps a creation failure so that it matches ErrResourceExhausted.  The details are
// attached as key/value pairs.
func Exhausted(reason string, details ...interface{}) error {
	return errors.WithDetails(
		errors.Wrap(ErrResourceExhausted, reason),
		details...,
	)
}

// FirstCause walks the Unwrap chain of err and returns the innermost error.  Joined errors
// are not traversed.
func FirstCause(err error) error {
	for err != nil {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}

		err = next
	}

	return nil
}

// Fatal reports an error that must not be recovered locally, such as an ownership violation
// or a failure to create a primitive at initialization.  The error is logged and the calling
// goroutine panics, which halts the subsystem unless a supervisor recovers it.
func Fatal(logger *zap.Logger, err error) {
	if logger != nil {
		logger.Error("unrecoverable synchronization error", zap.Error(err), zap.Stringer("kind", KindOf(err)))
	}

	panic(err)
}
