// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/provider"
	"github.com/xmidt-org/rtsync/xmetrics"
)

const (
	RunningGauge   = "task_running"
	CreatedCounter = "task_created_count"
	FailedCounter  = "task_failed_count"
)

// Metrics is the task module function
func Metrics() []xmetrics.Metric {
	return []xmetrics.Metric{
		{
			Name: RunningGauge,
			Type: xmetrics.GaugeType,
			Help: "The number of tasks currently running",
		},
		{
			Name: CreatedCounter,
			Type: xmetrics.CounterType,
			Help: "The total number of tasks created",
		},
		{
			Name: FailedCounter,
			Type: xmetrics.CounterType,
			Help: "The number of tasks that returned an error or panicked",
		},
	}
}

// Measures holds the metric objects a Scheduler updates.  Nil fields discard.
type Measures struct {
	Running metrics.Gauge
	Created metrics.Counter
	Failed  metrics.Counter
}

// NewMeasures constructs a Measures given a go-kit metrics Provider
func NewMeasures(p provider.Provider) Measures {
	return Measures{
		Running: p.NewGauge(RunningGauge),
		Created: p.NewCounter(CreatedCounter),
		Failed:  p.NewCounter(FailedCounter),
	}
}

func (m Measures) orDiscard() Measures {
	return Measures{
		Running: xmetrics.GaugeOrDiscard(m.Running),
		Created: xmetrics.CounterOrDiscard(m.Created),
		Failed:  xmetrics.CounterOrDiscard(m.Failed),
	}
}
