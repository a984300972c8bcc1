// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"runtime"
	"time"

	"github.com/xmidt-org/rtsync/clock"
)

// Func is the body of a task.  The context is canceled when the task is deleted or the
// scheduler shuts down.
type Func func(ctx context.Context, self *Task) error

// Task is a running task created by a Scheduler.
type Task struct {
	id      ID
	spec    Spec
	clock   clock.Interface
	created time.Time

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

func (t *Task) ID() ID {
	return t.id
}

func (t *Task) Name() string {
	return t.spec.Name
}

// Spec returns the Spec this task was created with, with defaults applied.
func (t *Task) Spec() Spec {
	return t.spec
}

func (t *Task) Created() time.Time {
	return t.created
}

// Context returns the context passed to this task's Func.
func (t *Task) Context() context.Context {
	return t.ctx
}

// Done is closed once this task's Func has returned.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err returns the error this task ended with.  It is only meaningful after Done is closed.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Delay is the voluntary delay of a task.  It returns nil once d has elapsed on the scheduler's
// clock, or the context error if the task is canceled first.  A nonpositive d just yields.
func (t *Task) Delay(d time.Duration) error {
	if d <= 0 {
		runtime.Gosched()
		return t.ctx.Err()
	}

	timer := t.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C():
		return nil

	case <-t.ctx.Done():
		return t.ctx.Err()
	}
}

// Info is a point-in-time description of a task.
type Info struct {
	ID        ID        `json:"id" msgpack:"id"`
	Name      string    `json:"name" msgpack:"name"`
	StackSize int       `json:"stackSize" msgpack:"stackSize"`
	Priority  int       `json:"priority" msgpack:"priority"`
	Core      int       `json:"core" msgpack:"core"`
	Created   time.Time `json:"created" msgpack:"created"`
}

func (t *Task) Info() Info {
	return Info{
		ID:        t.id,
		Name:      t.spec.Name,
		StackSize: t.spec.StackSize,
		Priority:  t.spec.Priority,
		Core:      t.spec.Core,
		Created:   t.created,
	}
}
