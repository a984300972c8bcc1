// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package demo

import (
	"context"
	"sort"

	"emperror.dev/errors"
	"go.uber.org/zap"
)

// ErrUnknownDemo is returned by Run for a name that has no scenario.
const ErrUnknownDemo = errors.Sentinel("no such demo")

// Func is a scenario.  A scenario runs until its work is done, its configured limit is reached,
// or the context is canceled.  Cancellation is not an error.
type Func func(context.Context, Deps) error

var demos = map[string]Func{
	"isrSemaphore":       ISRSemaphore,
	"isrCriticalSection": ISRCriticalSection,
	"mutexCounter":       MutexCounter,
	"countingRendezvous": CountingRendezvous,
	"queueRelay":         QueueRelay,
	"ownedHandoff":       OwnedHandoff,
}

// Names returns the names of the available scenarios, sorted.
func Names() []string {
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// Run runs the named scenario.
func Run(ctx context.Context, name string, d Deps) error {
	f, ok := demos[name]
	if !ok {
		return errors.WithDetails(ErrUnknownDemo, "demo", name)
	}

	if d.Controller == nil || d.Scheduler == nil {
		return errors.New("a controller and a scheduler are required")
	}

	logger := d.logger()
	logger.Info("starting demo", zap.String("demo", name))
	err := f(ctx, d)
	if err != nil {
		logger.Error("demo failed", zap.String("demo", name), zap.Error(err))
	} else {
		logger.Info("demo finished", zap.String("demo", name))
	}

	return err
}
