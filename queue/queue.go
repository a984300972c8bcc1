// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package queue

import (
	"context"
	"sync"
	"time"

	"github.com/xmidt-org/rtsync/clock"
	"github.com/xmidt-org/rtsync/intc"
	"github.com/xmidt-org/rtsync/waitq"
	"github.com/xmidt-org/rtsync/xerrors"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

// Queue is a bounded FIFO of values of type T.
type Queue[T any] struct {
	name     string
	clock    clock.Interface
	logger   *zap.Logger
	measures Measures

	lock      sync.Mutex
	ring      []T
	head      int
	tail      int
	length    int
	senders   waitq.List[T]
	receivers waitq.List[T]
	closed    bool
}

// New creates a Queue with the given capacity.  The capacity must be positive and T must be a
// fixed-size value type.  Otherwise, the returned error matches xerrors.ErrResourceExhausted.
func New[T any](capacity int, o ...Option) (*Queue[T], error) {
	if capacity < 1 {
		return nil, xerrors.Exhausted("the queue capacity must be positive", "capacity", capacity)
	}

	if err := checkElementOf[T](); err != nil {
		return nil, err
	}

	opts := &options{
		clock:    clock.System(),
		logger:   sallust.Default(),
		measures: Measures{}.orDiscard(),
	}

	for _, f := range o {
		f(opts)
	}

	return &Queue[T]{
		name:     opts.name,
		clock:    opts.clock,
		logger:   opts.logger,
		measures: opts.measures,
		ring:     make([]T, capacity),
	}, nil
}

func (q *Queue[T]) Name() string {
	return q.name
}

// push must be called under the lock with space available
func (q *Queue[T]) push(v T) {
	q.ring[q.tail] = v
	q.tail = (q.tail + 1) % len(q.ring)
	q.length++
	q.measures.Depth.Add(1.0)
}

// pop must be called under the lock with at least one item
func (q *Queue[T]) pop() T {
	var zero T
	v := q.ring[q.head]
	q.ring[q.head] = zero
	q.head = (q.head + 1) % len(q.ring)
	q.length--
	q.measures.Depth.Add(-1.0)
	return v
}

// wait blocks on a waiter that has already been enqueued on list, returning the waiter's
// error.  A waiter whose budget runs out is removed, unless it was released first.
func (q *Queue[T]) wait(ctx context.Context, list *waitq.List[T], w *waitq.Waiter[T], timeout time.Duration) error {
	expired, stop := clock.Deadline(q.clock, timeout)
	defer stop()

	var err error
	select {
	case <-w.Ready():
		return w.Err()

	case <-expired:
		err = xerrors.ErrTimeout

	case <-ctx.Done():
		err = ctx.Err()
	}

	q.lock.Lock()
	removed := list.Remove(w)
	q.lock.Unlock()

	if removed {
		return err
	}

	<-w.Ready()
	return w.Err()
}

// send returns true if a blocked receiver was released.
func (q *Queue[T]) send(ctx context.Context, v T, timeout time.Duration) (bool, error) {
	q.lock.Lock()
	if q.closed {
		q.lock.Unlock()
		return false, xerrors.ErrClosed
	}

	if _, woken := q.receivers.Wake(v); woken {
		q.lock.Unlock()
		q.measures.Sent.Add(1.0)
		return true, nil
	}

	if q.length < len(q.ring) {
		q.push(v)
		q.lock.Unlock()
		q.measures.Sent.Add(1.0)
		return false, nil
	}

	if timeout == clock.NoWait {
		q.lock.Unlock()
		q.measures.Full.Add(1.0)
		return false, xerrors.ErrCapacityExceeded
	}

	w := waitq.NewSender("", v)
	q.senders.Enqueue(w)
	q.lock.Unlock()

	err := q.wait(ctx, &q.senders, w, timeout)
	if err == nil {
		q.measures.Sent.Add(1.0)
	} else if xerrors.KindOf(err) == xerrors.KindTimeout {
		q.measures.Full.Add(1.0)
	}

	return false, err
}

// Send copies v into this queue, waiting up to timeout for space.  A timeout of clock.NoWait
// returns xerrors.ErrCapacityExceeded if the queue is full.  A negative timeout waits
// indefinitely.  If the wait budget runs out, xerrors.ErrTimeout is returned.
func (q *Queue[T]) Send(v T, timeout time.Duration) error {
	_, err := q.send(context.Background(), v, timeout)
	return err
}

// SendCtx copies v into this queue, waiting for space until the context is canceled.
func (q *Queue[T]) SendCtx(ctx context.Context, v T) error {
	_, err := q.send(ctx, v, clock.Forever)
	return err
}

// TrySend copies v into this queue only if there is space right now.
func (q *Queue[T]) TrySend(v T) error {
	_, err := q.send(context.Background(), v, clock.NoWait)
	return err
}

// SendFromISR is the interrupt-safe form of TrySend.  It returns true if a waiting receiver was
// released, and records that on the frame.
func (q *Queue[T]) SendFromISR(f *intc.Frame, v T) (bool, error) {
	woken, err := q.send(context.Background(), v, clock.NoWait)
	f.YieldFromISR(woken)
	return woken, err
}

// receive returns true if a blocked sender was admitted.
func (q *Queue[T]) receive(ctx context.Context, timeout time.Duration) (T, bool, error) {
	var zero T

	q.lock.Lock()
	if q.closed {
		q.lock.Unlock()
		return zero, false, xerrors.ErrClosed
	}

	if q.length > 0 {
		v := q.pop()
		admitted := false
		if w, ok := q.senders.Front(); ok {
			q.push(w.Value())
			q.senders.Release()
			admitted = true
		}

		q.lock.Unlock()
		q.measures.Received.Add(1.0)
		return v, admitted, nil
	}

	if timeout == clock.NoWait {
		q.lock.Unlock()
		return zero, false, xerrors.ErrWouldBlock
	}

	w := waitq.NewWaiter[T]("")
	q.receivers.Enqueue(w)
	q.lock.Unlock()

	if err := q.wait(ctx, &q.receivers, w, timeout); err != nil {
		return zero, false, err
	}

	q.measures.Received.Add(1.0)
	return w.Value(), false, nil
}

// Receive copies the oldest item out of this queue, waiting up to timeout for one to arrive.
// A timeout of clock.NoWait returns xerrors.ErrWouldBlock if the queue is empty.  A negative
// timeout waits indefinitely.  If the wait budget runs out, xerrors.ErrTimeout is returned.
func (q *Queue[T]) Receive(timeout time.Duration) (T, error) {
	v, _, err := q.receive(context.Background(), timeout)
	return v, err
}

// ReceiveCtx copies the oldest item out of this queue, waiting until the context is canceled.
func (q *Queue[T]) ReceiveCtx(ctx context.Context) (T, error) {
	v, _, err := q.receive(ctx, clock.Forever)
	return v, err
}

// TryReceive copies the oldest item out of this queue only if one is available right now.
func (q *Queue[T]) TryReceive() (T, bool) {
	v, _, err := q.receive(context.Background(), clock.NoWait)
	return v, err == nil
}

// ReceiveFromISR is the interrupt-safe form of TryReceive.  The last return value is true if a
// blocked sender was admitted, which is also recorded on the frame.
func (q *Queue[T]) ReceiveFromISR(f *intc.Frame) (T, bool, bool) {
	v, woken, err := q.receive(context.Background(), clock.NoWait)
	f.YieldFromISR(woken)
	return v, err == nil, woken
}

// Peek returns a copy of the oldest item without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	q.lock.Lock()
	defer q.lock.Unlock()

	if q.closed || q.length == 0 {
		var zero T
		return zero, false
	}

	return q.ring[q.head], true
}

// Len is the number of items currently held.
func (q *Queue[T]) Len() int {
	q.lock.Lock()
	defer q.lock.Unlock()
	return q.length
}

func (q *Queue[T]) Cap() int {
	return len(q.ring)
}

// Spaces is the number of free slots.
func (q *Queue[T]) Spaces() int {
	q.lock.Lock()
	defer q.lock.Unlock()
	return len(q.ring) - q.length
}

// Waiting returns the number of blocked senders and blocked receivers.
func (q *Queue[T]) Waiting() (senders int, receivers int) {
	q.lock.Lock()
	defer q.lock.Unlock()
	return q.senders.Len(), q.receivers.Len()
}

// Reset discards every held item.  Blocked senders are then admitted in order, as space allows.
func (q *Queue[T]) Reset() error {
	q.lock.Lock()
	defer q.lock.Unlock()

	if q.closed {
		return xerrors.ErrClosed
	}

	var zero T
	for q.length > 0 {
		q.pop()
	}

	for i := range q.ring {
		q.ring[i] = zero
	}

	q.head, q.tail = 0, 0
	for q.length < len(q.ring) {
		w, ok := q.senders.Front()
		if !ok {
			break
		}

		q.push(w.Value())
		q.senders.Release()
	}

	return nil
}

// Close releases every blocked sender and receiver with xerrors.ErrClosed and discards held
// items.  Every subsequent operation fails with xerrors.ErrClosed, including a second Close.
func (q *Queue[T]) Close() error {
	q.lock.Lock()
	if q.closed {
		q.lock.Unlock()
		return xerrors.ErrClosed
	}

	q.closed = true
	dropped := q.length
	for q.length > 0 {
		q.pop()
	}

	senders := q.senders.Drain(xerrors.ErrClosed)
	receivers := q.receivers.Drain(xerrors.ErrClosed)
	q.lock.Unlock()

	q.logger.Debug(
		"queue closed",
		zap.String("name", q.name),
		zap.Int("dropped", dropped),
		zap.Int("senders", senders),
		zap.Int("receivers", receivers),
	)

	return nil
}
