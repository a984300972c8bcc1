// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package deferred

import (
	"github.com/go-kit/kit/metrics/discard"
	"github.com/xmidt-org/rtsync/xmetrics"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

type options struct {
	name        string
	logger      *zap.Logger
	overruns    xmetrics.Adder
	transitions func(from, to State)
}

func newOptions(o []Option) *options {
	opts := &options{
		logger:   sallust.Default(),
		overruns: discard.NewCounter(),
	}

	for _, f := range o {
		f(opts)
	}

	return opts
}

// Option is a configuration option for a Handoff
type Option func(*options)

func WithName(name string) Option {
	return func(o *options) {
		o.name = name
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

// WithOverrunCounter sets the metric incremented for each dropped capture.
func WithOverrunCounter(a xmetrics.Adder) Option {
	return func(o *options) {
		o.overruns = xmetrics.AdderOrDiscard(a)
	}
}

// WithTransitions sets a callback invoked after each state change.  The callback may run in
// interrupt context, so it must not block.
func WithTransitions(f func(from, to State)) Option {
	return func(o *options) {
		o.transitions = f
	}
}
