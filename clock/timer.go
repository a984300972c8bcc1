// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Timer represents an event source triggered at a particular time.  It is the analog of time.Timer.
type Timer interface {
	C() <-chan time.Time
	Reset(time.Duration) bool
	Stop() bool
}

// Ticker is the analog of time.Ticker.  Hardware timer alarms with autoreload are driven from a Ticker.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type systemTimer struct {
	*time.Timer
}

func (st systemTimer) C() <-chan time.Time {
	return st.Timer.C
}

type systemTicker struct {
	*time.Ticker
}

func (st systemTicker) C() <-chan time.Time {
	return st.Ticker.C
}
