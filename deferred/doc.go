// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package deferred implements deferred interrupt handling: a handler captures a small value and
signals a task, and the task does the real work outside interrupt context.

Each Handoff moves through three states.  It is Idle until a handler captures a value, Captured
until the consumer task takes it, and Delivered while the consumer processes it.  The consumer
calls Done when it is finished, which returns the Handoff to Idle, or to Captured if another
value arrived in the meantime.

Two variants exist.  NewBinary signals through a binary semaphore, so it holds a single value:
a capture that arrives before the consumer has taken the previous one is dropped and reported
with xerrors.ErrCapacityExceeded.  NewQueued sends through a queue and delivers every captured
value in order, up to the queue's capacity.  In both cases overload drops the newest value and
counts an overrun.  Values already captured are never touched.
*/
package deferred
