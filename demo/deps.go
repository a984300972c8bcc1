// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package demo

import (
	"io"

	"github.com/go-kit/kit/metrics/provider"
	"github.com/xmidt-org/rtsync/clock"
	"github.com/xmidt-org/rtsync/intc"
	"github.com/xmidt-org/rtsync/task"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

// Deps holds everything a scenario runs against.  Controller and Scheduler are required.
type Deps struct {
	Logger     *zap.Logger
	Controller *intc.Controller
	Scheduler  *task.Scheduler
	Clock      clock.Interface
	Provider   provider.Provider
	Primitives *Primitives
	Config     *Config

	// Input is the line-oriented command source for the relay scenarios.
	Input io.Reader
}

func (d Deps) logger() *zap.Logger {
	if d.Logger != nil {
		return d.Logger
	}

	return sallust.Default()
}

func (d Deps) clock() clock.Interface {
	if d.Clock != nil {
		return d.Clock
	}

	return clock.System()
}

func (d Deps) provider() provider.Provider {
	if d.Provider != nil {
		return d.Provider
	}

	return provider.NewDiscardProvider()
}

func (d Deps) input() io.Reader {
	if d.Input != nil {
		return d.Input
	}

	return eofReader{}
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) {
	return 0, io.EOF
}
