// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package task is the scheduler collaborator: it creates named tasks, each a goroutine with an
identity, a stack budget, a priority, and an optional core affinity.

Priorities and stack budgets are recorded and reported.  Preemption itself is left to the Go
runtime.  On Linux, a task with a core affinity runs on a locked OS thread pinned to that core.
*/
package task
