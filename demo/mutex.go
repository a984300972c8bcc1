// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package demo

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"emperror.dev/errors"
	"github.com/xmidt-org/rtsync/semaphore"
	"github.com/xmidt-org/rtsync/task"
	"go.uber.org/zap"
)

// ErrLostUpdate is returned by MutexCounter when the final count does not match the increments made.
const ErrLostUpdate = errors.Sentinel("increments were lost")

// MutexCounter starts several tasks that each increment a shared counter many times.  Each
// increment is a read-modify-write with a random delay between the read and the write, which
// loses updates unless the whole sequence holds the mutex.
func MutexCounter(ctx context.Context, d Deps) error {
	const name = "mutexCounter"
	var (
		logger     = d.logger().With(zap.String("demo", name))
		results    = d.provider().NewCounter(ResultCounter)
		tasks      = d.Config.tasks()
		iterations = d.Config.iterations()
		jitter     = int64(d.Config.jitter())
		timeout    = d.Config.timeout()
		cl         = d.clock()
		shared     int
		published  int64
	)

	m := semaphore.NewMutex(semaphore.WithName(name), semaphore.WithLogger(logger), semaphore.WithClock(cl))
	defer d.Primitives.Add(name, func() State {
		owner, locked := m.Owner()
		return State{
			Name:    name,
			Kind:    KindMutex,
			Owner:   owner.String(),
			Locked:  locked,
			Waiting: m.Waiting(),
			Value:   atomic.LoadInt64(&published),
		}
	})()

	g := &group{d: d}
	for i := 0; i < tasks; i++ {
		err := g.spawn(fmt.Sprintf("incTask-%d", i), func(_ context.Context, self *task.Task) error {
			for j := 0; j < iterations; j++ {
				err := m.Guard(self.ID(), timeout, func() {
					local := shared
					cl.Sleep(time.Duration(rand.Int63n(jitter)))
					shared = local + 1
					atomic.StoreInt64(&published, int64(shared))
				})

				if err != nil {
					return err
				}
			}

			return nil
		})

		if err != nil {
			m.Close()
			g.stop()
			return err
		}
	}

	if err := g.run(ctx, func() { m.Close() }); err != nil {
		return err
	}

	if ctx.Err() != nil {
		return nil
	}

	expected := tasks * iterations
	results.Add(float64(shared))
	logger.Info("counter", zap.Int("value", shared), zap.Int("expected", expected))
	if shared != expected {
		return errors.WithDetails(ErrLostUpdate, "value", shared, "expected", expected)
	}

	return nil
}
