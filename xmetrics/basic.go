// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package xmetrics

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
)

// Adder represents a metrics to which deltas can be added.  Go-kit's metrics.Counter, metrics.Gauge, and
// several prometheus interfaces implement this interface.
type Adder interface {
	Add(float64)
}

// Setter represents a metric that can receive updates, e.g. a gauge.  Go-kit's metrics.Gauge
// and prometheus gauges implement this interface.
type Setter interface {
	Set(float64)
}

// AddSetter represents a metric that can both have deltas applied and receive new values.  Gauges most
// commonly implement this interface.
type AddSetter interface {
	Adder
	Setter
}

// Observer is a type of metric which receives observations.  Histograms and summaries implement this interface.
type Observer interface {
	Observe(float64)
}

// CounterOrDiscard returns c, or a discarding counter if c is nil.
func CounterOrDiscard(c metrics.Counter) metrics.Counter {
	if c != nil {
		return c
	}

	return discard.NewCounter()
}

// GaugeOrDiscard returns g, or a discarding gauge if g is nil.
func GaugeOrDiscard(g metrics.Gauge) metrics.Gauge {
	if g != nil {
		return g
	}

	return discard.NewGauge()
}

// HistogramOrDiscard returns h, or a discarding histogram if h is nil.
func HistogramOrDiscard(h metrics.Histogram) metrics.Histogram {
	if h != nil {
		return h
	}

	return discard.NewHistogram()
}

// AdderOrDiscard returns a, or a discarding counter if a is nil.
func AdderOrDiscard(a Adder) Adder {
	if a != nil {
		return a
	}

	return discard.NewCounter()
}

// SetterOrDiscard returns s, or a discarding gauge if s is nil.
func SetterOrDiscard(s Setter) Setter {
	if s != nil {
		return s
	}

	return discard.NewGauge()
}
