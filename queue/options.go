// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package queue

import (
	"github.com/xmidt-org/rtsync/clock"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

type options struct {
	name     string
	clock    clock.Interface
	logger   *zap.Logger
	measures Measures
}

// Option is a configuration option for a Queue
type Option func(*options)

// WithName sets the name used in logs and errors.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithClock sets the clock that drives timeouts.  A nil clock sets the system clock.
func WithClock(c clock.Interface) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		} else {
			o.clock = clock.System()
		}
	}
}

// WithLogger sets the logger.  A nil logger sets the default.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		} else {
			o.logger = sallust.Default()
		}
	}
}

// WithMeasures sets the metrics updated by the queue.  Since the depth is tracked with
// gauge deltas, several queues can share one Measures.
func WithMeasures(m Measures) Option {
	return func(o *options) {
		o.measures = m.orDiscard()
	}
}
