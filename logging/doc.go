// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package logging builds the zap loggers used by rtsync components from a configuration, and
carries them through contexts.
*/
package logging
