// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package alarm provides a periodic or one-shot timer alarm.  An Alarm invokes its fire function
from a timer goroutine, which is normally used to raise an interrupt line on an intc.Controller.
*/
package alarm
