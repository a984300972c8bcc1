// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

const (
	// NoWait is the timeout that turns a blocking operation into a single poll.
	NoWait time.Duration = 0

	// Forever is the timeout that waits indefinitely.  Any negative duration is treated the same way.
	Forever time.Duration = -1
)

// Interface represents a clock with the same core functionality available as in the stdlib time package
type Interface interface {
	Now() time.Time
	Sleep(time.Duration)
	NewTicker(time.Duration) Ticker
	NewTimer(time.Duration) Timer
}

type systemClock struct{}

func (sc systemClock) Now() time.Time {
	return time.Now()
}

func (sc systemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

func (sc systemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{time.NewTicker(d)}
}

func (sc systemClock) NewTimer(d time.Duration) Timer {
	return systemTimer{time.NewTimer(d)}
}

// System returns a clock backed by the time package
func System() Interface {
	return systemClock{}
}

// IsForever tests if the given timeout means "wait indefinitely"
func IsForever(timeout time.Duration) bool {
	return timeout < 0
}

var expired = func() <-chan time.Time {
	c := make(chan time.Time, 1)
	c <- time.Time{}
	close(c)
	return c
}()

func nop() {}

// Deadline produces the channel a blocking operation selects on to detect the end of its wait
// budget, along with a stop function that must be called once the wait is over.
//
// For Forever, the returned channel is nil and never fires.  For NoWait, the returned channel has
// already fired.  Otherwise, a Timer is created from the given clock.
func Deadline(c Interface, timeout time.Duration) (<-chan time.Time, func()) {
	switch {
	case IsForever(timeout):
		return nil, nop

	case timeout == NoWait:
		return expired, nop

	default:
		t := c.NewTimer(timeout)
		return t.C(), func() { t.Stop() }
	}
}
