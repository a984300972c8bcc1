// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package clocktest

import (
	"sync"
	"time"

	"github.com/xmidt-org/rtsync/clock"
)

// Manual is a clock.Interface whose time only moves when Advance is called.  Timers and tickers
// created from a Manual fire during Advance, which lets tests expire timeouts deterministically.
type Manual struct {
	lock    sync.Mutex
	now     time.Time
	waiters []*manualWaiter
}

var _ clock.Interface = (*Manual)(nil)

// NewManual creates a Manual clock starting at the given time.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// manualWaiter backs both timers and tickers.  A positive period makes it a ticker.
type manualWaiter struct {
	m      *Manual
	when   time.Time
	period time.Duration
	c      chan time.Time
}

func (m *Manual) Now() time.Time {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.now
}

// Sleep blocks until another goroutine advances this clock past the wake time.
func (m *Manual) Sleep(d time.Duration) {
	t := m.NewTimer(d)
	<-t.C()
}

func (m *Manual) add(d, period time.Duration) *manualWaiter {
	m.lock.Lock()
	defer m.lock.Unlock()

	w := &manualWaiter{
		m:      m,
		when:   m.now.Add(d),
		period: period,
		c:      make(chan time.Time, 1),
	}

	m.waiters = append(m.waiters, w)
	return w
}

func (m *Manual) remove(w *manualWaiter) bool {
	m.lock.Lock()
	defer m.lock.Unlock()

	for i, candidate := range m.waiters {
		if candidate == w {
			m.waiters = append(m.waiters[:i], m.waiters[i+1:]...)
			return true
		}
	}

	return false
}

func (m *Manual) NewTimer(d time.Duration) clock.Timer {
	return manualTimer{m.add(d, 0)}
}

func (m *Manual) NewTicker(d time.Duration) clock.Ticker {
	if d <= 0 {
		panic("non-positive interval for NewTicker")
	}

	return manualTicker{m.add(d, d)}
}

// Pending returns the number of timers and tickers that have not yet fired or been stopped.
// Tests use this to wait until a blocked operation has armed its timeout.
func (m *Manual) Pending() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return len(m.waiters)
}

// AwaitPending polls until at least n timers are pending or the real-time limit elapses.
func (m *Manual) AwaitPending(n int, limit time.Duration) bool {
	deadline := time.Now().Add(limit)
	for m.Pending() < n {
		if time.Now().After(deadline) {
			return false
		}

		time.Sleep(time.Millisecond)
	}

	return true
}

// Advance moves this clock forward and fires every timer and ticker whose time has come.
func (m *Manual) Advance(d time.Duration) {
	m.lock.Lock()
	m.now = m.now.Add(d)
	var (
		now       = m.now
		remaining = m.waiters[:0]
		fired     []*manualWaiter
	)

	for _, w := range m.waiters {
		if w.when.After(now) {
			remaining = append(remaining, w)
			continue
		}

		fired = append(fired, w)
		if w.period > 0 {
			for !w.when.After(now) {
				w.when = w.when.Add(w.period)
			}

			remaining = append(remaining, w)
		}
	}

	m.waiters = remaining
	m.lock.Unlock()

	for _, w := range fired {
		select {
		case w.c <- now:
		default:
			// like time.Ticker, slow receivers miss ticks
		}
	}
}

type manualTimer struct {
	*manualWaiter
}

func (mt manualTimer) C() <-chan time.Time {
	return mt.c
}

func (mt manualTimer) Stop() bool {
	return mt.m.remove(mt.manualWaiter)
}

func (mt manualTimer) Reset(d time.Duration) bool {
	active := mt.m.remove(mt.manualWaiter)
	mt.m.lock.Lock()
	mt.when = mt.m.now.Add(d)
	mt.m.waiters = append(mt.m.waiters, mt.manualWaiter)
	mt.m.lock.Unlock()
	return active
}

type manualTicker struct {
	*manualWaiter
}

func (mt manualTicker) C() <-chan time.Time {
	return mt.c
}

func (mt manualTicker) Stop() {
	mt.m.remove(mt.manualWaiter)
}
