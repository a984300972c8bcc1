// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package intc

import (
	"math/bits"
	"runtime"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/go-kit/kit/metrics"
	"github.com/xmidt-org/rtsync/clock"
	"github.com/xmidt-org/rtsync/gate"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

// DefaultPending is the default depth of the dispatch buffer.
const DefaultPending = 16

const (
	ErrInvalidLine = errors.Sentinel("the interrupt line is out of range")
	ErrNilHandler  = errors.Sentinel("an interrupt handler is required")
	ErrAttached    = errors.Sentinel("a handler is already attached to the interrupt line")
)

// MaskState is the set of lines masked by a single call to Mask, one bit per line.
type MaskState uint64

// Masked tests if the given line is part of this state.
func (ms MaskState) Masked(l Line) bool {
	return l < MaxLines && uint64(ms)&l.bit() != 0
}

// Masker is the part of a Controller that critical sections use to keep handlers from
// starting while a task is updating state it shares with them.
type Masker interface {
	// Mask masks the given lines and returns the state to hand back to Restore.  Masks nest:
	// a line stays masked until every Mask that included it has been restored.  A handler that
	// is already running is not interrupted.
	Mask(lines ...Line) MaskState

	// Restore undoes a previous Mask, delivering any raise that was latched on a line that
	// becomes unmasked.
	Restore(MaskState)
}

// LineState is a point-in-time view of a single line.
type LineState struct {
	Line     Line `json:"line" msgpack:"line"`
	Attached bool `json:"attached" msgpack:"attached"`
	Enabled  bool `json:"enabled" msgpack:"enabled"`
	Masked   bool `json:"masked" msgpack:"masked"`
	Pending  bool `json:"pending" msgpack:"pending"`
}

// Option is a configuration option for a Controller
type Option func(*Controller)

// WithLogger sets the logger used to report handler panics.  A nil logger sets the default.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		} else {
			c.logger = sallust.Default()
		}
	}
}

// WithClock sets the clock used to timestamp raises.  A nil clock sets the system clock.
func WithClock(cl clock.Interface) Option {
	return func(c *Controller) {
		if cl != nil {
			c.clock = cl
		} else {
			c.clock = clock.System()
		}
	}
}

func WithMeasures(m Measures) Option {
	return func(c *Controller) {
		c.measures = m.orDiscard()
	}
}

// WithPending sets the depth of the dispatch buffer.  Raises beyond this depth are dropped.
func WithPending(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pendingDepth = n
		} else {
			c.pendingDepth = DefaultPending
		}
	}
}

type event struct {
	line   Line
	raised time.Time
}

// Controller is a simulated interrupt controller.  All lines start out disabled and unmasked.
type Controller struct {
	logger       *zap.Logger
	clock        clock.Interface
	measures     Measures
	pendingDepth int

	lock     sync.Mutex
	handlers [MaxLines]Handler
	lines    [MaxLines]gate.Interface
	masks    [MaxLines]int
	masked   uint64
	pending  uint64
	closed   bool

	events chan event
	stop   chan chan struct{}
}

// lineGauge turns the 0/1 transitions of a line's gate into increments of a shared gauge.
type lineGauge struct {
	g metrics.Gauge
}

func (lg lineGauge) Set(v float64) {
	if v > 0 {
		lg.g.Add(1.0)
	} else {
		lg.g.Add(-1.0)
	}
}

// New creates a Controller and starts its dispatcher goroutine.
func New(options ...Option) *Controller {
	c := &Controller{
		logger:       sallust.Default(),
		clock:        clock.System(),
		measures:     Measures{}.orDiscard(),
		pendingDepth: DefaultPending,
		stop:         make(chan chan struct{}),
	}

	for _, o := range options {
		o(c)
	}

	c.events = make(chan event, c.pendingDepth)
	for i := range c.lines {
		c.lines[i] = gate.New(
			gate.WithInitiallyClosed(),
			gate.WithClosedGauge(lineGauge{c.measures.Disabled}),
		)
	}

	go c.dispatch()
	return c
}

// Attach installs the handler for a line.  The line's enabled state is unchanged.
func (c *Controller) Attach(l Line, h Handler) error {
	if l >= MaxLines {
		return ErrInvalidLine
	} else if h == nil {
		return ErrNilHandler
	}

	c.lock.Lock()
	defer c.lock.Unlock()
	if c.handlers[l] != nil {
		return errors.WithDetails(ErrAttached, "line", l)
	}

	c.handlers[l] = h
	return nil
}

// Detach removes the handler for a line and disables it.  Raises already queued for the line are dropped.
func (c *Controller) Detach(l Line) {
	if l >= MaxLines {
		return
	}

	c.lock.Lock()
	c.handlers[l] = nil
	c.pending &^= l.bit()
	c.lock.Unlock()

	c.lines[l].Close()
}

// Enable turns on delivery for a line.
func (c *Controller) Enable(l Line) error {
	if l >= MaxLines {
		return ErrInvalidLine
	}

	c.lines[l].Open()
	return nil
}

// Disable turns off delivery for a line.  Raises on a disabled line are dropped, not latched.
func (c *Controller) Disable(l Line) error {
	if l >= MaxLines {
		return ErrInvalidLine
	}

	c.lines[l].Close()
	return nil
}

// Enabled tests if a line is enabled.
func (c *Controller) Enabled(l Line) bool {
	return l < MaxLines && c.lines[l].IsOpen()
}

func (c *Controller) Mask(lines ...Line) MaskState {
	c.lock.Lock()
	defer c.lock.Unlock()

	var ms MaskState
	for _, l := range lines {
		if l < MaxLines && !ms.Masked(l) {
			ms |= MaskState(l.bit())
			c.masks[l]++
			c.masked |= l.bit()
		}
	}

	return ms
}

func (c *Controller) Restore(ms MaskState) {
	c.lock.Lock()
	defer c.lock.Unlock()

	var unmasked uint64
	for remaining := uint64(ms); remaining != 0; {
		l := Line(bits.TrailingZeros64(remaining))
		remaining &^= l.bit()
		if c.masks[l] > 0 {
			c.masks[l]--
			if c.masks[l] == 0 {
				c.masked &^= l.bit()
				unmasked |= l.bit()
			}
		}
	}

	deliver := c.pending & unmasked
	c.pending &^= deliver
	now := c.clock.Now()
	for deliver != 0 {
		l := Line(bits.TrailingZeros64(deliver))
		deliver &^= l.bit()
		c.enqueue(l, now)
	}
}

// Raise is the hardware event for a line.  It returns true if the raise was accepted, which
// includes a raise latched on a masked line.  A raise is dropped if the controller is closed,
// the line is disabled or has no handler, or the dispatch buffer is full.
func (c *Controller) Raise(l Line) bool {
	if l >= MaxLines {
		c.measures.Dropped.Add(1.0)
		return false
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	if c.closed || c.handlers[l] == nil || !c.lines[l].IsOpen() {
		c.measures.Dropped.Add(1.0)
		return false
	}

	if c.masked&l.bit() != 0 {
		c.latch(l)
		return true
	}

	return c.enqueue(l, c.clock.Now())
}

// latch must be called under the lock
func (c *Controller) latch(l Line) {
	if c.pending&l.bit() == 0 {
		c.pending |= l.bit()
		c.measures.Latched.Add(1.0)
	}
}

// enqueue must be called under the lock
func (c *Controller) enqueue(l Line, raised time.Time) bool {
	select {
	case c.events <- event{line: l, raised: raised}:
		return true
	default:
		c.measures.Dropped.Add(1.0)
		return false
	}
}

// Snapshot returns the state of every attached line.
func (c *Controller) Snapshot() []LineState {
	c.lock.Lock()
	defer c.lock.Unlock()

	var states []LineState
	for i, h := range c.handlers {
		if h == nil {
			continue
		}

		l := Line(i)
		states = append(states, LineState{
			Line:     l,
			Attached: true,
			Enabled:  c.lines[l].IsOpen(),
			Masked:   c.masked&l.bit() != 0,
			Pending:  c.pending&l.bit() != 0,
		})
	}

	return states
}

// Close stops the dispatcher, waiting for any running handler to finish.  Close must not
// be called from a handler.  This method is idempotent.
func (c *Controller) Close() error {
	c.lock.Lock()
	if c.closed {
		c.lock.Unlock()
		return nil
	}

	c.closed = true
	c.lock.Unlock()

	ack := make(chan struct{})
	c.stop <- ack
	<-ack
	return nil
}

func (c *Controller) dispatch() {
	for {
		select {
		case ack := <-c.stop:
			close(ack)
			return

		case e := <-c.events:
			c.handle(e)
		}
	}
}

func (c *Controller) handle(e event) {
	c.lock.Lock()
	h := c.handlers[e.line]
	switch {
	case h == nil || !c.lines[e.line].IsOpen():
		c.lock.Unlock()
		c.measures.Dropped.Add(1.0)
		return

	case c.masked&e.line.bit() != 0:
		c.latch(e.line)
		c.lock.Unlock()
		return
	}

	c.lock.Unlock()

	f := &Frame{Line: e.line, Raised: e.raised}
	c.invoke(h, f)

	c.measures.Dispatched.Add(1.0)
	if f.yield {
		c.measures.Yields.Add(1.0)
		runtime.Gosched()
	}
}

func (c *Controller) invoke(h Handler, f *Frame) {
	defer func() {
		if r := recover(); r != nil {
			c.measures.Panics.Add(1.0)
			c.logger.Error(
				"interrupt handler panicked",
				zap.Uint("line", uint(f.Line)),
				zap.Any("panic", r),
			)
		}
	}()

	h(f)
}
