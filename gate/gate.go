// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package gate

import (
	"sync/atomic"

	"github.com/go-kit/kit/metrics/discard"
	"github.com/xmidt-org/rtsync/xmetrics"
)

const (
	gateOpen uint32 = iota
	gateClosed
)

// Interface represents a concurrent condition indicating whether events should be allowed through,
// e.g. whether an interrupt line is enabled.
type Interface interface {
	// Open opens this gate, returning true if this call changed the state.
	// By default, gates are initially open.  Use WithInitiallyClosed to create a gate in the closed state.
	Open() bool

	// Close closes this gate, returning true if this call changed the state.
	Close() bool

	// IsOpen tests if this gate is open
	IsOpen() bool
}

// Option is a configuration option for a gate Interface
type Option func(*gate)

func WithInitiallyClosed() Option {
	return func(g *gate) {
		g.state = gateClosed
	}
}

// WithClosedGauge sets a gauge that is 1.0 while the gate is closed and 0.0 while it is open.
func WithClosedGauge(gauge xmetrics.Setter) Option {
	return func(g *gate) {
		if gauge != nil {
			g.closedGauge = gauge
		} else {
			g.closedGauge = discard.NewGauge()
		}
	}
}

// New constructs a gate Interface with zero or more options.  By default, the returned
// gate is initially open and has a closed gauge that simply discards all metrics.
func New(options ...Option) Interface {
	g := &gate{
		state:       gateOpen,
		closedGauge: discard.NewGauge(),
	}

	for _, o := range options {
		o(g)
	}

	if g.state == gateOpen {
		g.closedGauge.Set(0.0)
	} else {
		g.closedGauge.Set(1.0)
	}

	return g
}

// gate is the internal Interface implementation
type gate struct {
	state       uint32
	closedGauge xmetrics.Setter
}

func (g *gate) Open() bool {
	if atomic.CompareAndSwapUint32(&g.state, gateClosed, gateOpen) {
		g.closedGauge.Set(0.0)
		return true
	}

	return false
}

func (g *gate) Close() bool {
	if atomic.CompareAndSwapUint32(&g.state, gateOpen, gateClosed) {
		g.closedGauge.Set(1.0)
		return true
	}

	return false
}

func (g *gate) IsOpen() bool {
	return atomic.LoadUint32(&g.state) == gateOpen
}
