// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package waitq provides the FIFO wait-set shared by the blocking primitives.

A List is not safe for concurrent use on its own.  Every call must be made while holding the
lock of the primitive that owns the list, and a waiter is always signaled under that same lock.
This gives each primitive two guarantees:

  - waiters are released strictly in arrival order
  - a waiter that times out either removes itself, in which case nothing will ever be delivered
    to it, or finds that it was already dequeued, in which case its hand-off is already waiting
    on its Ready channel
*/
package waitq
