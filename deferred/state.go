// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package deferred

import (
	"sync/atomic"

	"github.com/xmidt-org/rtsync/critical"
	"github.com/xmidt-org/rtsync/intc"
	"github.com/xmidt-org/rtsync/xmetrics"
)

// State is the position of a Handoff in its capture and delivery cycle.
type State int

const (
	Idle State = iota
	Captured
	Delivered
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Captured:
		return "captured"
	case Delivered:
		return "delivered"
	default:
		return "invalid"
	}
}

// machine tracks the state shared by both Handoff variants.  The section guards state and
// pending, and the binary variant also stores its value under it.
type machine struct {
	section     *critical.Section
	state       State
	pending     int
	overruns    uint64
	counter     xmetrics.Adder
	transitions func(from, to State)
}

func newMachine(m intc.Masker, line intc.Line, o *options) *machine {
	var section *critical.Section
	if m != nil {
		section = critical.NewISR(m, line)
	} else {
		section = critical.NewTask()
	}

	return &machine{
		section:     section,
		counter:     o.overruns,
		transitions: o.transitions,
	}
}

// move must be called inside the section.  It returns the previous state.
func (m *machine) move(to State) State {
	from := m.state
	m.state = to
	return from
}

func (m *machine) notify(from, to State) {
	if from != to && m.transitions != nil {
		m.transitions(from, to)
	}
}

// capturedFromISR records a captured value.  It must be called inside the section and returns
// the previous and the new state.  A capture while the consumer is still processing leaves the
// state at Delivered until Done.
func (m *machine) capturedFromISR() (State, State) {
	m.pending++
	if m.state == Idle {
		return m.move(Captured), Captured
	}

	return m.state, m.state
}

func (m *machine) overrun() {
	atomic.AddUint64(&m.overruns, 1)
	m.counter.Add(1.0)
}

// delivered is called by the consumer, inside the section, once it holds a value.
func (m *machine) delivered() State {
	m.pending--
	return m.move(Delivered)
}

func (m *machine) done() {
	m.section.Enter()
	from := m.state
	to := from
	if from == Delivered {
		if m.pending > 0 {
			to = Captured
		} else {
			to = Idle
		}

		m.state = to
	}

	m.section.Exit()
	m.notify(from, to)
}

func (m *machine) current() State {
	m.section.Enter()
	defer m.section.Exit()
	return m.state
}

func (m *machine) overrunCount() uint64 {
	return atomic.LoadUint64(&m.overruns)
}
