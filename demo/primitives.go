// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package demo

import (
	"sort"
	"sync"

	"github.com/xmidt-org/rtsync/intc"
	"github.com/xmidt-org/rtsync/task"
)

// Kind identifies the type of primitive described by a State.
type Kind string

const (
	KindSemaphore Kind = "semaphore"
	KindMutex     Kind = "mutex"
	KindQueue     Kind = "queue"
	KindHandoff   Kind = "handoff"
	KindSection   Kind = "criticalSection"
	KindAlarm     Kind = "alarm"
)

// State is a point-in-time description of one primitive.  Fields that do not apply to a Kind
// are left at their zero values.
type State struct {
	Name     string `json:"name" msgpack:"name"`
	Kind     Kind   `json:"kind" msgpack:"kind"`
	Count    int    `json:"count,omitempty" msgpack:"count,omitempty"`
	Max      int    `json:"max,omitempty" msgpack:"max,omitempty"`
	Waiting  int    `json:"waiting,omitempty" msgpack:"waiting,omitempty"`
	Length   int    `json:"length,omitempty" msgpack:"length,omitempty"`
	Capacity int    `json:"capacity,omitempty" msgpack:"capacity,omitempty"`
	Owner    string `json:"owner,omitempty" msgpack:"owner,omitempty"`
	Locked   bool   `json:"locked,omitempty" msgpack:"locked,omitempty"`
	State    string `json:"state,omitempty" msgpack:"state,omitempty"`
	Overruns uint64 `json:"overruns,omitempty" msgpack:"overruns,omitempty"`
	Value    int64  `json:"value,omitempty" msgpack:"value,omitempty"`
}

// Primitives tracks the primitives of running scenarios.  A nil *Primitives ignores everything.
type Primitives struct {
	lock     sync.Mutex
	describe map[string]func() State
}

func NewPrimitives() *Primitives {
	return &Primitives{
		describe: make(map[string]func() State),
	}
}

// Add registers a primitive and returns a function that removes it.
func (p *Primitives) Add(name string, f func() State) func() {
	if p == nil {
		return func() {}
	}

	p.lock.Lock()
	p.describe[name] = f
	p.lock.Unlock()

	return func() {
		p.lock.Lock()
		delete(p.describe, name)
		p.lock.Unlock()
	}
}

// Snapshot describes every registered primitive, ordered by name.
func (p *Primitives) Snapshot() []State {
	if p == nil {
		return nil
	}

	p.lock.Lock()
	funcs := make([]func() State, 0, len(p.describe))
	for _, f := range p.describe {
		funcs = append(funcs, f)
	}

	p.lock.Unlock()

	states := make([]State, 0, len(funcs))
	for _, f := range funcs {
		states = append(states, f())
	}

	sort.Slice(states, func(i, j int) bool {
		return states[i].Name < states[j].Name
	})

	return states
}

// Report is the full description served by the demo binary.
type Report struct {
	Primitives []State          `json:"primitives" msgpack:"primitives"`
	Tasks      []task.Info      `json:"tasks" msgpack:"tasks"`
	Lines      []intc.LineState `json:"lines" msgpack:"lines"`
}

// NewReport describes the primitives, tasks, and interrupt lines of the given Deps.
func NewReport(d Deps) Report {
	r := Report{
		Primitives: d.Primitives.Snapshot(),
	}

	if d.Scheduler != nil {
		for _, t := range d.Scheduler.Tasks() {
			r.Tasks = append(r.Tasks, t.Info())
		}
	}

	if d.Controller != nil {
		r.Lines = d.Controller.Snapshot()
	}

	return r
}
