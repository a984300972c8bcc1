// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/provider"
	"github.com/xmidt-org/rtsync/xmetrics"
)

const (
	RequestCounter        = "api_requests_total"
	RequestDuration       = "request_duration_seconds"
	ActiveConnectionGauge = "active_connections"

	CodeLabel   = "code"
	MethodLabel = "method"
)

// Metrics is the module function for this package that adds the request handling metrics.
func Metrics() []xmetrics.Metric {
	return []xmetrics.Metric{
		{
			Name:       RequestCounter,
			Type:       xmetrics.CounterType,
			Help:       "A counter for requests to the handler",
			LabelNames: []string{CodeLabel, MethodLabel},
		},
		{
			Name:    RequestDuration,
			Type:    xmetrics.HistogramType,
			Help:    "A histogram of latencies for requests.",
			Buckets: []float64{.001, .005, .01, .05, .25, 1},
		},
		{
			Name: ActiveConnectionGauge,
			Type: xmetrics.GaugeType,
			Help: "The number of active connections associated with the listener",
		},
	}
}

// Measures holds the metrics updated by the server.  Nil fields discard.
type Measures struct {
	Requests          metrics.Counter
	Duration          metrics.Histogram
	ActiveConnections metrics.Gauge
}

// NewMeasures constructs a Measures given a go-kit metrics Provider
func NewMeasures(p provider.Provider) Measures {
	return Measures{
		Requests:          p.NewCounter(RequestCounter),
		Duration:          p.NewHistogram(RequestDuration, 0),
		ActiveConnections: p.NewGauge(ActiveConnectionGauge),
	}
}

func (m Measures) orDiscard() Measures {
	return Measures{
		Requests:          xmetrics.CounterOrDiscard(m.Requests),
		Duration:          xmetrics.HistogramOrDiscard(m.Duration),
		ActiveConnections: xmetrics.GaugeOrDiscard(m.ActiveConnections),
	}
}
