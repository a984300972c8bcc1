// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package deferred

import (
	"context"

	"emperror.dev/errors"
	"github.com/xmidt-org/rtsync/task"
	"github.com/xmidt-org/rtsync/xerrors"
)

// Consume is the consumer loop: it awaits each captured value, processes it outside interrupt
// context, and marks it done.  Consume returns nil once the Handoff is closed, or the context
// error once the context is canceled.
func Consume[T any](ctx context.Context, h Handoff[T], process func(T)) error {
	for {
		v, err := h.Await(ctx)
		switch {
		case errors.Is(err, xerrors.ErrClosed):
			return nil

		case err != nil:
			return err
		}

		process(v)
		h.Done()
	}
}

// Func adapts Consume into a task body.
func Func[T any](h Handoff[T], process func(T)) task.Func {
	return func(ctx context.Context, _ *task.Task) error {
		return Consume(ctx, h, process)
	}
}
