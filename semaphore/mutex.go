// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import (
	"context"
	"sync"
	"time"

	"github.com/xmidt-org/rtsync/clock"
	"github.com/xmidt-org/rtsync/task"
	"github.com/xmidt-org/rtsync/xerrors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Mutex is a binary semaphore that records which task holds it.  Only the holder may unlock it.
// A Mutex has no interrupt-safe operations: locking from a handler is not allowed.
//
// Holding a Mutex across a blocking wait on any other primitive risks deadlock and is not supported.
type Mutex struct {
	sem    *semaphore
	logger *zap.Logger
	fatal  bool

	lock  sync.Mutex
	owner task.ID
	held  bool
}

// NewMutex creates an unlocked Mutex.
func NewMutex(o ...Option) *Mutex {
	opts := newOptions(o)
	return &Mutex{
		sem:    newSemaphore(1, 1, opts),
		logger: opts.logger,
		fatal:  opts.fatal,
	}
}

func (m *Mutex) Name() string {
	return m.sem.name
}

func (m *Mutex) acquired(owner task.ID, err error) error {
	if err == nil {
		m.lock.Lock()
		m.owner = owner
		m.held = true
		m.lock.Unlock()
	}

	return err
}

// Lock acquires this Mutex on behalf of owner, waiting up to timeout.  The timeout semantics are
// the same as Interface.Take.
func (m *Mutex) Lock(owner task.ID, timeout time.Duration) error {
	return m.acquired(owner, m.sem.take(context.Background(), string(owner), timeout))
}

// LockCtx acquires this Mutex on behalf of owner, waiting until the context is canceled.
func (m *Mutex) LockCtx(ctx context.Context, owner task.ID) error {
	return m.acquired(owner, m.sem.take(ctx, string(owner), clock.Forever))
}

// TryLock acquires this Mutex only if it is unlocked right now.
func (m *Mutex) TryLock(owner task.ID) bool {
	return m.acquired(owner, m.sem.take(context.Background(), string(owner), clock.NoWait)) == nil
}

// Unlock releases this Mutex.  If owner does not hold it, the state is unchanged and the
// violation is an *xerrors.OwnershipError.  Violations are program defects and are always
// surfaced loudly: by default the error is logged at error level and returned, and the caller
// is expected to halt the subsystem.  A Mutex created with WithFatalViolations halts itself by
// passing the error to xerrors.Fatal, which panics.
func (m *Mutex) Unlock(owner task.ID) error {
	m.lock.Lock()
	if !m.held || m.owner != owner {
		var holder task.ID
		if m.held {
			holder = m.owner
		}

		m.lock.Unlock()
		return m.violation(xerrors.NewOwnershipError(m.sem.name, string(holder), string(owner)))
	}

	m.owner = ""
	m.held = false
	m.lock.Unlock()

	return m.sem.Give()
}

func (m *Mutex) violation(err *xerrors.OwnershipError) error {
	if m.fatal {
		xerrors.Fatal(m.logger, err)
	}

	m.logger.Error("mutex released by a task that does not hold it", zap.Error(err))
	return err
}

// Owner returns the task holding this Mutex, if any.
func (m *Mutex) Owner() (task.ID, bool) {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.owner, m.held
}

func (m *Mutex) Locked() bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.held
}

// Waiting is the number of tasks blocked in a lock.
func (m *Mutex) Waiting() int {
	return m.sem.Waiting()
}

// Guard runs f while holding this Mutex.  This is the read-modify-write pattern: every step of
// the update happens between the lock and the unlock.  An error from the unlock, such as
// xerrors.ErrClosed when the Mutex was closed while f ran, is returned.
func (m *Mutex) Guard(owner task.ID, timeout time.Duration, f func()) (err error) {
	if err = m.Lock(owner, timeout); err != nil {
		return
	}

	defer func() {
		err = multierr.Append(err, m.Unlock(owner))
	}()

	f()
	return nil
}

// Close releases any waiting tasks with xerrors.ErrClosed.
func (m *Mutex) Close() error {
	return m.sem.Close()
}
