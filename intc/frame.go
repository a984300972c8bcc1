// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package intc

import "time"

// Line identifies an interrupt source.  Valid lines are [0, MaxLines).
type Line uint

// MaxLines is the number of lines a Controller supports.
const MaxLines = 64

func (l Line) bit() uint64 {
	return 1 << uint(l)
}

// Handler is the body of an interrupt service routine.
type Handler func(*Frame)

// Frame marks interrupt context.  A new Frame is created for each handler invocation and must
// not be retained after the handler returns.
type Frame struct {
	// Line is the line that was raised.
	Line Line

	// Raised is the time the raise was accepted by the controller.
	Raised time.Time

	yield bool
}

// YieldFromISR records whether an interrupt-safe operation released a waiting task.  When any call
// passes true, the controller yields to the scheduler as soon as the handler returns.
func (f *Frame) YieldFromISR(woken bool) {
	if woken {
		f.yield = true
	}
}

// Yielded reports whether a yield has been requested for this frame.
func (f *Frame) Yielded() bool {
	return f.yield
}

// NewFrame creates a Frame outside of a Controller.  Tests use this to drive interrupt-safe
// operations directly.
func NewFrame(l Line) *Frame {
	return &Frame{
		Line:   l,
		Raised: time.Now(),
	}
}
