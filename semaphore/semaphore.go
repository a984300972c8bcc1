// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import (
	"context"
	"sync"
	"time"

	"github.com/xmidt-org/rtsync/clock"
	"github.com/xmidt-org/rtsync/intc"
	"github.com/xmidt-org/rtsync/waitq"
	"github.com/xmidt-org/rtsync/xerrors"
	"go.uber.org/zap"
)

// Interface represents a semaphore, either binary or counting.
type Interface interface {
	// Name returns the name given to this semaphore with WithName.
	Name() string

	// Take acquires a unit.  If none is available, the caller waits up to timeout for a Give.
	// A timeout of clock.NoWait polls and returns xerrors.ErrWouldBlock if nothing was available.
	// A negative timeout, e.g. clock.Forever, waits indefinitely.  When the wait budget runs out,
	// xerrors.ErrTimeout is returned.
	Take(timeout time.Duration) error

	// TakeCtx acquires a unit, waiting until one is given or the context is canceled.  In the latter
	// case, ctx.Err() is returned.
	TakeCtx(context.Context) error

	// TryTake acquires a unit only if one is available right now.
	TryTake() bool

	// TakeFromISR is the interrupt-safe form of TryTake.
	TakeFromISR(*intc.Frame) bool

	// Give releases a unit.  If any context is waiting, the front waiter receives the unit.
	// Otherwise the count is incremented, unless it is already at Max, in which case
	// xerrors.ErrCapacityExceeded is returned and the count does not change.
	Give() error

	// GiveFromISR is the interrupt-safe form of Give.  It returns true if a waiting context was
	// released, and records that on the frame so the controller yields when the handler returns.
	GiveFromISR(*intc.Frame) (bool, error)

	// Count is the number of units currently available.
	Count() int

	// Max is the upper bound on Count.
	Max() int

	// Waiting is the number of contexts blocked in a take.
	Waiting() int

	// Close releases every waiting context with xerrors.ErrClosed.  Every subsequent operation
	// fails with xerrors.ErrClosed, including a second Close.
	Close() error

	// Closed returns a channel that is closed when this semaphore has been closed.
	Closed() <-chan struct{}
}

// NewCounting creates a semaphore whose count ranges over [0, max], starting at initial.
// Invalid counts produce an error that matches xerrors.ErrResourceExhausted.
func NewCounting(max, initial int, o ...Option) (Interface, error) {
	if max < 1 {
		return nil, xerrors.Exhausted("the max count must be positive", "max", max)
	}

	if initial < 0 || initial > max {
		return nil, xerrors.Exhausted("the initial count is out of range", "initial", initial, "max", max)
	}

	return newSemaphore(max, initial, newOptions(o)), nil
}

// NewBinary creates a semaphore with a max count of 1.  The semaphore is created empty, so the
// first Take waits for a Give.
func NewBinary(o ...Option) Interface {
	return newSemaphore(1, 0, newOptions(o))
}

// semaphore is the internal Interface implementation
type semaphore struct {
	name   string
	clock  clock.Interface
	logger *zap.Logger

	lock     sync.Mutex
	count    int
	max      int
	waiters  waitq.List[struct{}]
	isClosed bool
	closed   chan struct{}
}

func newSemaphore(max, initial int, o *options) *semaphore {
	return &semaphore{
		name:   o.name,
		clock:  o.clock,
		logger: o.logger,
		count:  initial,
		max:    max,
		closed: make(chan struct{}),
	}
}

func (s *semaphore) Name() string {
	return s.name
}

// take is the common wait path.  The owner identifies the waiter in the wait set.
func (s *semaphore) take(ctx context.Context, owner string, timeout time.Duration) error {
	s.lock.Lock()
	if s.isClosed {
		s.lock.Unlock()
		return xerrors.ErrClosed
	}

	if s.count > 0 {
		s.count--
		s.lock.Unlock()
		return nil
	}

	if timeout == clock.NoWait {
		s.lock.Unlock()
		return xerrors.ErrWouldBlock
	}

	w := waitq.NewWaiter[struct{}](owner)
	s.waiters.Enqueue(w)
	s.lock.Unlock()

	expired, stop := clock.Deadline(s.clock, timeout)
	defer stop()

	select {
	case <-w.Ready():
		return w.Err()

	case <-expired:
		return s.abandon(w, xerrors.ErrTimeout)

	case <-ctx.Done():
		return s.abandon(w, ctx.Err())
	}
}

// abandon removes a waiter whose wait ended without a hand-off.  If the waiter was released
// in the meantime, the hand-off wins.
func (s *semaphore) abandon(w *waitq.Waiter[struct{}], err error) error {
	s.lock.Lock()
	removed := s.waiters.Remove(w)
	s.lock.Unlock()

	if removed {
		return err
	}

	<-w.Ready()
	return w.Err()
}

func (s *semaphore) Take(timeout time.Duration) error {
	return s.take(context.Background(), "", timeout)
}

func (s *semaphore) TakeCtx(ctx context.Context) error {
	return s.take(ctx, "", clock.Forever)
}

func (s *semaphore) TryTake() bool {
	return s.take(context.Background(), "", clock.NoWait) == nil
}

func (s *semaphore) TakeFromISR(*intc.Frame) bool {
	return s.TryTake()
}

func (s *semaphore) give() (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.isClosed {
		return false, xerrors.ErrClosed
	}

	if _, woken := s.waiters.Wake(struct{}{}); woken {
		return true, nil
	}

	if s.count >= s.max {
		return false, xerrors.ErrCapacityExceeded
	}

	s.count++
	return false, nil
}

func (s *semaphore) Give() error {
	_, err := s.give()
	return err
}

func (s *semaphore) GiveFromISR(f *intc.Frame) (bool, error) {
	woken, err := s.give()
	f.YieldFromISR(woken)
	return woken, err
}

func (s *semaphore) Count() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.count
}

func (s *semaphore) Max() int {
	return s.max
}

func (s *semaphore) Waiting() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.waiters.Len()
}

func (s *semaphore) Close() error {
	s.lock.Lock()
	if s.isClosed {
		s.lock.Unlock()
		return xerrors.ErrClosed
	}

	s.isClosed = true
	close(s.closed)
	released := s.waiters.Drain(xerrors.ErrClosed)
	s.lock.Unlock()

	s.logger.Debug("semaphore closed", zap.String("name", s.name), zap.Int("released", released))
	return nil
}

func (s *semaphore) Closed() <-chan struct{} {
	return s.closed
}
