// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xerrors

import "emperror.dev/errors"

// Kind classifies an error into the synchronization error taxonomy.
type Kind int

const (
	KindNone Kind = iota
	KindTimeout
	KindWouldBlock
	KindCapacityExceeded
	KindOwnershipViolation
	KindResourceExhausted
	KindClosed
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTimeout:
		return "timeout"
	case KindWouldBlock:
		return "would_block"
	case KindCapacityExceeded:
		return "capacity_exceeded"
	case KindOwnershipViolation:
		return "ownership_violation"
	case KindResourceExhausted:
		return "resource_exhausted"
	case KindClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// KindOf returns the Kind of err.  ErrWouldBlock is checked before ErrTimeout, since the
// former matches the latter.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrWouldBlock):
		return KindWouldBlock
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrCapacityExceeded):
		return KindCapacityExceeded
	case errors.Is(err, ErrOwnershipViolation):
		return KindOwnershipViolation
	case errors.Is(err, ErrResourceExhausted):
		return KindResourceExhausted
	case errors.Is(err, ErrClosed):
		return KindClosed
	default:
		return KindUnknown
	}
}

// Recoverable tests if err is expected to be handled by the immediate caller, by retrying,
// dropping, or counting.  Timeouts and capacity errors are recoverable.  Ownership and
// exhaustion errors are not.
func Recoverable(err error) bool {
	switch KindOf(err) {
	case KindTimeout, KindWouldBlock, KindCapacityExceeded:
		return true

	default:
		return false
	}
}
