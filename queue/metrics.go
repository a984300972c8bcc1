// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package queue

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/provider"
	"github.com/xmidt-org/rtsync/xmetrics"
)

const (
	DepthGauge      = "queue_depth"
	SentCounter     = "queue_sent_count"
	ReceivedCounter = "queue_received_count"
	FullCounter     = "queue_full_count"
)

// Metrics is the queue module function
func Metrics() []xmetrics.Metric {
	return []xmetrics.Metric{
		{
			Name: DepthGauge,
			Type: xmetrics.GaugeType,
			Help: "The number of items held by queues",
		},
		{
			Name: SentCounter,
			Type: xmetrics.CounterType,
			Help: "The number of items sent",
		},
		{
			Name: ReceivedCounter,
			Type: xmetrics.CounterType,
			Help: "The number of items received",
		},
		{
			Name: FullCounter,
			Type: xmetrics.CounterType,
			Help: "The number of sends that failed because the queue was full",
		},
	}
}

// Measures holds the metric objects a Queue updates.  Nil fields discard.
type Measures struct {
	Depth    metrics.Gauge
	Sent     metrics.Counter
	Received metrics.Counter
	Full     metrics.Counter
}

// NewMeasures constructs a Measures given a go-kit metrics Provider
func NewMeasures(p provider.Provider) Measures {
	return Measures{
		Depth:    p.NewGauge(DepthGauge),
		Sent:     p.NewCounter(SentCounter),
		Received: p.NewCounter(ReceivedCounter),
		Full:     p.NewCounter(FullCounter),
	}
}

func (m Measures) orDiscard() Measures {
	return Measures{
		Depth:    xmetrics.GaugeOrDiscard(m.Depth),
		Sent:     xmetrics.CounterOrDiscard(m.Sent),
		Received: xmetrics.CounterOrDiscard(m.Received),
		Full:     xmetrics.CounterOrDiscard(m.Full),
	}
}
