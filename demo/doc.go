// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package demo contains runnable scenarios that exercise the synchronization primitives together:
interrupt handlers deferring work to tasks, mutual exclusion across tasks, rendezvous through a
counting semaphore, and message relays over bounded queues.

Every scenario receives its collaborators through Deps.  Nothing is shared through package state.
*/
package demo
