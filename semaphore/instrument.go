// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import (
	"context"
	"time"

	"github.com/go-kit/kit/metrics/discard"
	"github.com/xmidt-org/rtsync/intc"
	"github.com/xmidt-org/rtsync/xerrors"
	"github.com/xmidt-org/rtsync/xmetrics"
)

const (
	ResourcesGauge   = "semaphore_resources"
	TakeErrorCounter = "semaphore_take_error_count"
	OverrunCounter   = "semaphore_overrun_count"
)

// Metrics is the semaphore module function
func Metrics() []xmetrics.Metric {
	return []xmetrics.Metric{
		{
			Name: ResourcesGauge,
			Type: xmetrics.GaugeType,
			Help: "The net number of semaphore units taken, takes minus gives",
		},
		{
			Name: TakeErrorCounter,
			Type: xmetrics.CounterType,
			Help: "The number of takes that failed",
		},
		{
			Name: OverrunCounter,
			Type: xmetrics.CounterType,
			Help: "The number of gives rejected because the semaphore was at its max count",
		},
	}
}

// InstrumentOption represents a configurable option for instrumenting a semaphore
type InstrumentOption func(*instrumentedSemaphore)

// WithResources establishes a metric that tracks the resource count of the semaphore.
// If a nil counter is supplied, resource counts are discarded.
func WithResources(a xmetrics.Adder) InstrumentOption {
	return func(i *instrumentedSemaphore) {
		if a != nil {
			i.resources = a
		} else {
			i.resources = discard.NewCounter()
		}
	}
}

// WithErrors establishes a metric that tracks how many errors, or failed resource acquisitions,
// happen when attempting to take resources.  If a nil counter is supplied, error counts
// are discarded.
func WithErrors(a xmetrics.Adder) InstrumentOption {
	return func(i *instrumentedSemaphore) {
		if a != nil {
			i.errors = a
		} else {
			i.errors = discard.NewCounter()
		}
	}
}

// WithOverruns establishes a metric that counts gives rejected with xerrors.ErrCapacityExceeded.
func WithOverruns(a xmetrics.Adder) InstrumentOption {
	return func(i *instrumentedSemaphore) {
		if a != nil {
			i.overruns = a
		} else {
			i.overruns = discard.NewCounter()
		}
	}
}

// Instrument decorates an existing semaphore with a set of options.
func Instrument(s Interface, o ...InstrumentOption) Interface {
	if s == nil {
		panic("A delegate semaphore is required")
	}

	is := &instrumentedSemaphore{
		Interface: s,
		resources: discard.NewCounter(),
		errors:    discard.NewCounter(),
		overruns:  discard.NewCounter(),
	}

	for _, f := range o {
		f(is)
	}

	return is
}

type instrumentedSemaphore struct {
	Interface
	resources xmetrics.Adder
	errors    xmetrics.Adder
	overruns  xmetrics.Adder
}

func (is *instrumentedSemaphore) taken(err error) error {
	if err != nil {
		is.errors.Add(1.0)
	} else {
		is.resources.Add(1.0)
	}

	return err
}

func (is *instrumentedSemaphore) given(err error) error {
	switch {
	case err == nil:
		is.resources.Add(-1.0)

	case xerrors.KindOf(err) == xerrors.KindCapacityExceeded:
		is.overruns.Add(1.0)
	}

	return err
}

func (is *instrumentedSemaphore) Take(timeout time.Duration) error {
	return is.taken(is.Interface.Take(timeout))
}

func (is *instrumentedSemaphore) TakeCtx(ctx context.Context) error {
	return is.taken(is.Interface.TakeCtx(ctx))
}

func (is *instrumentedSemaphore) TryTake() bool {
	result := is.Interface.TryTake()
	if result {
		is.resources.Add(1.0)
	} else {
		is.errors.Add(1.0)
	}

	return result
}

func (is *instrumentedSemaphore) TakeFromISR(f *intc.Frame) bool {
	result := is.Interface.TakeFromISR(f)
	if result {
		is.resources.Add(1.0)
	} else {
		is.errors.Add(1.0)
	}

	return result
}

func (is *instrumentedSemaphore) Give() error {
	return is.given(is.Interface.Give())
}

func (is *instrumentedSemaphore) GiveFromISR(f *intc.Frame) (bool, error) {
	woken, err := is.Interface.GiveFromISR(f)
	return woken, is.given(err)
}
