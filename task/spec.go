// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"runtime"

	"emperror.dev/errors"
	"github.com/segmentio/ksuid"
)

const (
	DefaultStackSize = 2048
	DefaultPriority  = 1
	MaxPriority      = 24

	// AnyCore is the Core value of a task that may run anywhere.
	AnyCore = -1
)

const (
	ErrNameRequired    = errors.Sentinel("a task name is required")
	ErrInvalidStack    = errors.Sentinel("the task stack size cannot be negative")
	ErrInvalidPriority = errors.Sentinel("the task priority is out of range")
	ErrInvalidCore     = errors.Sentinel("the task core does not exist")
)

// ID uniquely identifies a task.  IDs sort in creation order.
type ID string

// NewID generates a new, unique task ID.
func NewID() ID {
	return ID(ksuid.New().String())
}

func (id ID) String() string {
	return string(id)
}

// Spec describes a task to create.
type Spec struct {
	Name      string `json:"name"`
	StackSize int    `json:"stackSize"`
	Priority  int    `json:"priority"`
	Core      int    `json:"core"`
}

// NewSpec creates a Spec with the default stack size and priority that may run on any core.
func NewSpec(name string) Spec {
	return Spec{
		Name:      name,
		StackSize: DefaultStackSize,
		Priority:  DefaultPriority,
		Core:      AnyCore,
	}
}

// Validate checks this Spec.  A zero StackSize is allowed and means DefaultStackSize.
func (s Spec) Validate() error {
	switch {
	case len(s.Name) == 0:
		return ErrNameRequired

	case s.StackSize < 0:
		return errors.WithDetails(ErrInvalidStack, "name", s.Name, "stackSize", s.StackSize)

	case s.Priority < 0 || s.Priority > MaxPriority:
		return errors.WithDetails(ErrInvalidPriority, "name", s.Name, "priority", s.Priority)

	case s.Core < AnyCore || s.Core >= runtime.NumCPU():
		return errors.WithDetails(ErrInvalidCore, "name", s.Name, "core", s.Core)
	}

	return nil
}

func (s Spec) stackSize() int {
	if s.StackSize > 0 {
		return s.StackSize
	}

	return DefaultStackSize
}
