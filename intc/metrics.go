// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package intc

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/provider"
	"github.com/xmidt-org/rtsync/xmetrics"
)

const (
	DispatchedCounter = "interrupt_dispatched_count"
	DroppedCounter    = "interrupt_dropped_count"
	LatchedCounter    = "interrupt_latched_count"
	YieldCounter      = "interrupt_yield_count"
	PanicCounter      = "interrupt_panic_count"
	DisabledLineGauge = "interrupt_lines_disabled"
)

// Metrics is the module function for interrupt controller metrics
func Metrics() []xmetrics.Metric {
	return []xmetrics.Metric{
		{
			Name: DispatchedCounter,
			Type: xmetrics.CounterType,
			Help: "The number of handler invocations",
		},
		{
			Name: DroppedCounter,
			Type: xmetrics.CounterType,
			Help: "The number of raises dropped because the line was disabled, unattached, or the dispatcher was saturated",
		},
		{
			Name: LatchedCounter,
			Type: xmetrics.CounterType,
			Help: "The number of raises latched while the line was masked",
		},
		{
			Name: YieldCounter,
			Type: xmetrics.CounterType,
			Help: "The number of handlers that requested a yield on return",
		},
		{
			Name: PanicCounter,
			Type: xmetrics.CounterType,
			Help: "The number of handlers that panicked",
		},
		{
			Name: DisabledLineGauge,
			Type: xmetrics.GaugeType,
			Help: "The number of interrupt lines that are currently disabled",
		},
	}
}

// Measures holds the metric objects a Controller updates.  Nil fields discard.
type Measures struct {
	Dispatched metrics.Counter
	Dropped    metrics.Counter
	Latched    metrics.Counter
	Yields     metrics.Counter
	Panics     metrics.Counter
	Disabled   metrics.Gauge
}

// NewMeasures constructs a Measures given a go-kit metrics Provider
func NewMeasures(p provider.Provider) Measures {
	return Measures{
		Dispatched: p.NewCounter(DispatchedCounter),
		Dropped:    p.NewCounter(DroppedCounter),
		Latched:    p.NewCounter(LatchedCounter),
		Yields:     p.NewCounter(YieldCounter),
		Panics:     p.NewCounter(PanicCounter),
		Disabled:   p.NewGauge(DisabledLineGauge),
	}
}

func (m Measures) orDiscard() Measures {
	return Measures{
		Dispatched: xmetrics.CounterOrDiscard(m.Dispatched),
		Dropped:    xmetrics.CounterOrDiscard(m.Dropped),
		Latched:    xmetrics.CounterOrDiscard(m.Latched),
		Yields:     xmetrics.CounterOrDiscard(m.Yields),
		Panics:     xmetrics.CounterOrDiscard(m.Panics),
		Disabled:   xmetrics.GaugeOrDiscard(m.Disabled),
	}
}
