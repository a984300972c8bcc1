// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package critical provides the critical section that the other primitives, and code that shares
state with interrupt handlers, use for short exclusive regions.

A Section is not reentrant: calling Enter twice from the same context without an intervening
Exit spins forever.  Nothing that can block, including any primitive's blocking wait or I/O,
may run inside a section.  Every other context that wants the section spins while it is held.
*/
package critical
