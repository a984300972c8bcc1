// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package deferred

import (
	"context"

	"github.com/xmidt-org/rtsync/intc"
	"github.com/xmidt-org/rtsync/queue"
	"github.com/xmidt-org/rtsync/semaphore"
	"github.com/xmidt-org/rtsync/xerrors"
	"go.uber.org/zap"
)

// Handoff carries values from an interrupt handler to a consumer task.
type Handoff[T any] interface {
	// Capture is called by the handler.  It never blocks and performs exactly one non-blocking
	// signal.  If the capture cannot be accepted, the value is dropped, an overrun is counted,
	// and xerrors.ErrCapacityExceeded is returned.
	Capture(*intc.Frame, T) error

	// Await blocks the consumer until a captured value is available or the context is canceled.
	Await(context.Context) (T, error)

	// Done is called by the consumer after processing the value returned by Await.
	Done()

	// State returns the current state.
	State() State

	// Overruns is the number of captures dropped so far.
	Overruns() uint64

	// Close releases a blocked consumer with xerrors.ErrClosed.
	Close() error
}

// NewBinary creates a Handoff backed by a binary semaphore.  The masker and line identify the
// interrupt source, so that the consumer can mask it while reading the captured value.  A nil
// masker is allowed when the handler and consumer are driven directly, as in tests.
func NewBinary[T any](m intc.Masker, line intc.Line, o ...Option) Handoff[T] {
	opts := newOptions(o)
	return &binary[T]{
		machine: newMachine(m, line, opts),
		signal:  semaphore.NewBinary(semaphore.WithName(opts.name), semaphore.WithLogger(opts.logger)),
		logger:  opts.logger,
	}
}

type binary[T any] struct {
	*machine
	signal semaphore.Interface
	logger *zap.Logger
	value  T
}

func (b *binary[T]) Capture(f *intc.Frame, v T) error {
	b.section.EnterFromISR(f)
	if b.pending > 0 {
		b.section.ExitFromISR(f)
		b.overrun()
		return xerrors.ErrCapacityExceeded
	}

	// the consumer reads the value under the same section, so it cannot observe the give early
	if _, err := b.signal.GiveFromISR(f); err != nil {
		b.section.ExitFromISR(f)
		if xerrors.KindOf(err) == xerrors.KindCapacityExceeded {
			b.overrun()
		}

		return err
	}

	b.value = v
	from, to := b.capturedFromISR()
	b.section.ExitFromISR(f)

	b.notify(from, to)
	return nil
}

func (b *binary[T]) Await(ctx context.Context) (T, error) {
	var zero T
	if err := b.signal.TakeCtx(ctx); err != nil {
		return zero, err
	}

	b.section.Enter()
	v := b.value
	b.value = zero
	from := b.delivered()
	b.section.Exit()

	b.notify(from, Delivered)
	return v, nil
}

func (b *binary[T]) Done() {
	b.done()
}

func (b *binary[T]) State() State {
	return b.current()
}

func (b *binary[T]) Overruns() uint64 {
	return b.overrunCount()
}

func (b *binary[T]) Close() error {
	b.logger.Debug("closing deferred handoff", zap.Uint64("overruns", b.overrunCount()))
	return b.signal.Close()
}

// NewQueued creates a Handoff backed by a queue of the given capacity.  The returned error
// matches xerrors.ErrResourceExhausted if the queue cannot be created.
func NewQueued[T any](m intc.Masker, line intc.Line, capacity int, o ...Option) (Handoff[T], error) {
	opts := newOptions(o)
	q, err := queue.New[T](capacity, queue.WithName(opts.name), queue.WithLogger(opts.logger))
	if err != nil {
		return nil, err
	}

	return &queued[T]{
		machine: newMachine(m, line, opts),
		values:  q,
		logger:  opts.logger,
	}, nil
}

type queued[T any] struct {
	*machine
	values *queue.Queue[T]
	logger *zap.Logger
}

func (q *queued[T]) Capture(f *intc.Frame, v T) error {
	q.section.EnterFromISR(f)
	if _, err := q.values.SendFromISR(f, v); err != nil {
		q.section.ExitFromISR(f)
		if xerrors.KindOf(err) == xerrors.KindCapacityExceeded {
			q.overrun()
		}

		return err
	}

	from, to := q.capturedFromISR()
	q.section.ExitFromISR(f)

	q.notify(from, to)
	return nil
}

func (q *queued[T]) Await(ctx context.Context) (T, error) {
	v, err := q.values.ReceiveCtx(ctx)
	if err != nil {
		return v, err
	}

	q.section.Enter()
	from := q.delivered()
	q.section.Exit()

	q.notify(from, Delivered)
	return v, nil
}

func (q *queued[T]) Done() {
	q.done()
}

func (q *queued[T]) State() State {
	return q.current()
}

func (q *queued[T]) Overruns() uint64 {
	return q.overrunCount()
}

func (q *queued[T]) Close() error {
	q.logger.Debug("closing deferred handoff", zap.Uint64("overruns", q.overrunCount()))
	return q.values.Close()
}
