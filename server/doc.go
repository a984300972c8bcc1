// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package server provides the HTTP surface of the demo binary: the metrics endpoint, the
primitives report, and the instrumented listener and middleware around them.
*/
package server
