// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package xmetrics provides configurability for Prometheus-based metrics.  The more general go-kit interfaces
are used where possible, so that the synchronization primitives can be instrumented with discard metrics by
default and with a Registry in a running application.
*/
package xmetrics
