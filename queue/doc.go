// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package queue provides a fixed-capacity FIFO of fixed-size values that tasks and interrupt
handlers use to pass data to each other.

A Queue stores copies.  Element types may not contain pointers, slices, maps, channels,
functions, or interfaces, so once a send returns the sender's own variable can be changed or
discarded without affecting what a receiver will see.  Strings are allowed, since they are
immutable.

Items are received in exactly the order they were sent.  A send that finds receivers waiting
hands its value directly to the front receiver, and a receive from a full queue admits the
front blocked sender, so the arrival order of waiters is preserved as well.
*/
package queue
