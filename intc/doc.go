// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package intc simulates the interrupt controller that hardware events arrive through.

A Controller owns a fixed set of lines.  Handlers are attached to lines and run on a single
dispatcher goroutine, so a handler never runs concurrently with itself or with any other handler
of the same controller.  Every handler receives a *Frame.  Primitives expose their interrupt-safe
operations as separate methods that require a *Frame, which is how interrupt context is expressed
in this module: there is no way to ask for a blocking wait with a Frame in hand.

Lines can be disabled, in which case raises are dropped, or masked, in which case a single raise
is latched and delivered once the line is unmasked.
*/
package intc
