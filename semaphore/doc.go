// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package semaphore provides binary and counting semaphores usable from both tasks and interrupt
handlers, and a Mutex that adds ownership to a binary semaphore.

Blocked takers are released in arrival order.  A give with takers waiting hands its unit
directly to the front taker, so a context that arrives later can never barge ahead of one that
is already waiting.  A taker that gives up, through a timeout or a canceled context, is removed
from the wait set before anything can be delivered to it.  If the unit was handed over first,
the take succeeds instead.

Interrupt handlers use TakeFromISR and GiveFromISR, which never block.
*/
package semaphore
