// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package demo

import (
	"github.com/xmidt-org/rtsync/semaphore"
	"github.com/xmidt-org/rtsync/xmetrics"
)

const (
	AlarmFiredCounter      = "alarm_fired_count"
	DeferredOverrunCounter = "deferred_overrun_count"
	ResultCounter          = "demo_result_count"
)

// Metrics is the demo module function
func Metrics() []xmetrics.Metric {
	return []xmetrics.Metric{
		{
			Name: AlarmFiredCounter,
			Type: xmetrics.CounterType,
			Help: "The number of times demo alarms fired",
		},
		{
			Name: DeferredOverrunCounter,
			Type: xmetrics.CounterType,
			Help: "The number of interrupt captures dropped because the consumer had not caught up",
		},
		{
			Name: ResultCounter,
			Type: xmetrics.CounterType,
			Help: "The number of results produced by demo scenarios",
		},
	}
}

func (d Deps) instrument(s semaphore.Interface) semaphore.Interface {
	p := d.provider()
	return semaphore.Instrument(
		s,
		semaphore.WithResources(p.NewGauge(semaphore.ResourcesGauge)),
		semaphore.WithErrors(p.NewCounter(semaphore.TakeErrorCounter)),
		semaphore.WithOverruns(p.NewCounter(semaphore.OverrunCounter)),
	)
}
