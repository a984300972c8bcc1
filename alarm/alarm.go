// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package alarm

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-kit/kit/metrics/discard"
	"github.com/xmidt-org/rtsync/clock"
	"github.com/xmidt-org/rtsync/xmetrics"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

// DefaultPeriod is used when a non-positive period is supplied
const DefaultPeriod = time.Second

// Option is a configuration option for an Alarm
type Option func(*Alarm)

// WithClock sets the clock used to create timers.  A nil clock sets the system clock.
func WithClock(c clock.Interface) Option {
	return func(a *Alarm) {
		if c != nil {
			a.clock = c
		} else {
			a.clock = clock.System()
		}
	}
}

// WithAutoreload controls whether the alarm rearms itself after firing.
func WithAutoreload(v bool) Option {
	return func(a *Alarm) {
		a.autoreload = v
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(a *Alarm) {
		if l != nil {
			a.logger = l
		} else {
			a.logger = sallust.Default()
		}
	}
}

// WithFiredCounter sets the metric incremented each time the alarm fires.
func WithFiredCounter(c xmetrics.Adder) Option {
	return func(a *Alarm) {
		a.counter = xmetrics.AdderOrDiscard(c)
	}
}

// driver is the goroutine state of one enabled period.  terminate is closed to stop the driver,
// and done is closed once the driver has exited.
type driver struct {
	terminate chan struct{}
	done      chan struct{}
}

// Alarm invokes a function after each period while enabled.
type Alarm struct {
	lock       sync.Mutex
	clock      clock.Interface
	period     time.Duration
	autoreload bool
	fire       func()
	logger     *zap.Logger
	counter    xmetrics.Adder
	fired      uint64
	d          *driver
}

// New creates a disabled Alarm.  The fire function is invoked from the alarm's own goroutine and
// must not block.
func New(period time.Duration, fire func(), o ...Option) *Alarm {
	if fire == nil {
		panic("alarm: a fire function is required")
	}

	if period <= 0 {
		period = DefaultPeriod
	}

	a := &Alarm{
		clock:   clock.System(),
		period:  period,
		fire:    fire,
		logger:  sallust.Default(),
		counter: discard.NewCounter(),
	}

	for _, f := range o {
		f(a)
	}

	return a
}

// Period returns the interval between firings.
func (a *Alarm) Period() time.Duration {
	return a.period
}

// Autoreload tests if this alarm rearms itself after firing.
func (a *Alarm) Autoreload() bool {
	return a.autoreload
}

// Fired returns the number of times this alarm has fired.
func (a *Alarm) Fired() uint64 {
	return atomic.LoadUint64(&a.fired)
}

// Enabled tests if this alarm is armed.
func (a *Alarm) Enabled() bool {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.d != nil
}

// Enable arms this alarm.  This method returns false if the alarm was already enabled.
func (a *Alarm) Enable() bool {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.d != nil {
		return false
	}

	d := &driver{
		terminate: make(chan struct{}),
		done:      make(chan struct{}),
	}

	a.d = d
	if a.autoreload {
		go a.tick(d, a.clock.NewTicker(a.period))
	} else {
		go a.once(d, a.clock.NewTimer(a.period))
	}

	a.logger.Debug("alarm enabled", zap.Duration("period", a.period), zap.Bool("autoreload", a.autoreload))
	return true
}

// Disable disarms this alarm.  Once this method returns, the fire function will not be invoked
// again until the next Enable.  This method returns false if the alarm was not enabled.
func (a *Alarm) Disable() bool {
	a.lock.Lock()
	d := a.d
	a.d = nil
	a.lock.Unlock()

	if d == nil {
		return false
	}

	close(d.terminate)
	<-d.done
	a.logger.Debug("alarm disabled", zap.Uint64("fired", a.Fired()))
	return true
}

func (a *Alarm) invoke() {
	atomic.AddUint64(&a.fired, 1)
	a.counter.Add(1.0)
	a.fire()
}

// reset clears the driver if and only if it is still the current one.  This allows
// a one-shot driver to clean up without racing a concurrent Disable and Enable.
func (a *Alarm) reset(d *driver) {
	a.lock.Lock()
	if a.d == d {
		a.d = nil
	}

	a.lock.Unlock()
}

func (a *Alarm) once(d *driver, t clock.Timer) {
	defer close(d.done)
	defer t.Stop()

	select {
	case <-t.C():
		a.invoke()
		a.reset(d)

	case <-d.terminate:
	}
}

func (a *Alarm) tick(d *driver, t clock.Ticker) {
	defer close(d.done)
	defer t.Stop()

	for {
		select {
		case <-t.C():
			a.invoke()

		case <-d.terminate:
			return
		}
	}
}
