// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package critical

import (
	"runtime"
	"sync/atomic"

	"github.com/xmidt-org/rtsync/intc"
)

const (
	unlocked uint32 = iota
	locked
)

// spinsBeforeYield is the number of failed attempts on the lock word before the spinning
// context yields its processor.
const spinsBeforeYield = 16

// Section is a mutual exclusion region usable from both tasks and interrupt handlers.
type Section struct {
	state  uint32
	masker intc.Masker
	lines  []intc.Line
	saved  intc.MaskState
}

// NewTask creates a Section for state shared only between tasks.
func NewTask() *Section {
	return new(Section)
}

// NewISR creates a Section for state shared between tasks and the handlers of the given lines.
// Enter masks those lines for the duration of the section, so none of their handlers can start
// while a task is inside.  Handlers use EnterFromISR and ExitFromISR.
func NewISR(m intc.Masker, lines ...intc.Line) *Section {
	return &Section{
		masker: m,
		lines:  append([]intc.Line{}, lines...),
	}
}

func (s *Section) lock() {
	for spins := 0; !atomic.CompareAndSwapUint32(&s.state, unlocked, locked); spins++ {
		if spins >= spinsBeforeYield {
			runtime.Gosched()
			spins = 0
		}
	}
}

func (s *Section) unlock() {
	if !atomic.CompareAndSwapUint32(&s.state, locked, unlocked) {
		panic("critical: exit of a section that was not entered")
	}
}

// Enter acquires this section from task context.
func (s *Section) Enter() {
	s.lock()
	if s.masker != nil {
		s.saved = s.masker.Mask(s.lines...)
	}
}

// TryEnter acquires this section only if it is free, returning true if it was acquired.
func (s *Section) TryEnter() bool {
	if !atomic.CompareAndSwapUint32(&s.state, unlocked, locked) {
		return false
	}

	if s.masker != nil {
		s.saved = s.masker.Mask(s.lines...)
	}

	return true
}

// Exit releases this section from task context.  Exit panics if the section is not held.
func (s *Section) Exit() {
	if atomic.LoadUint32(&s.state) != locked {
		panic("critical: exit of a section that was not entered")
	}

	if s.masker != nil {
		saved := s.saved
		s.saved = 0
		s.masker.Restore(saved)
	}

	s.unlock()
}

// EnterFromISR acquires this section from inside a handler.  The handler's own line is
// not masked, since the controller never runs a handler concurrently with itself.
func (s *Section) EnterFromISR(*intc.Frame) {
	s.lock()
}

// ExitFromISR releases this section from inside a handler.
func (s *Section) ExitFromISR(*intc.Frame) {
	s.unlock()
}

// Held tests if any context is currently inside this section.
func (s *Section) Held() bool {
	return atomic.LoadUint32(&s.state) == locked
}

// Do runs f inside this section from task context.
func (s *Section) Do(f func()) {
	s.Enter()
	defer s.Exit()
	f()
}

// DoFromISR runs f inside this section from a handler.
func (s *Section) DoFromISR(frame *intc.Frame, f func()) {
	s.EnterFromISR(frame)
	defer s.ExitFromISR(frame)
	f()
}
