// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// NewTestLogger produces a Logger which delegates to the supplied testing log.  All levels are
// enabled, since tests want to see everything by default.
func NewTestLogger(t zaptest.TestingT) *zap.Logger {
	return zaptest.NewLogger(t, zaptest.Level(zap.DebugLevel))
}
