// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"context"

	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates a zap Logger from a set of options.  The options object can be nil,
// in which case a logger that writes ERROR and above to os.Stdout is returned.
func New(o *Options) *zap.Logger {
	return zap.New(
		zapcore.NewCore(o.encoder(), o.output(), o.level()),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.DPanicLevel),
	)
}

// With places a logger in a context.  A nil logger places the default logger.
func With(parent context.Context, l *zap.Logger) context.Context {
	if l == nil {
		l = sallust.Default()
	}

	return sallust.With(parent, l)
}

// Get returns the logger in the given context, or the default logger if none is present.
func Get(ctx context.Context) *zap.Logger {
	return sallust.Get(ctx)
}
