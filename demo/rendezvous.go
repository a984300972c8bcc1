// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package demo

import (
	"context"
	"fmt"

	"emperror.dev/errors"
	"github.com/xmidt-org/rtsync/message"
	"github.com/xmidt-org/rtsync/semaphore"
	"github.com/xmidt-org/rtsync/task"
	"go.uber.org/zap"
)

// CountingRendezvous starts several tasks that all read the same argument.  The argument belongs
// to the creator, so each task copies it and then gives a counting semaphore.  The creator takes
// the semaphore once per task before the argument is discarded.
func CountingRendezvous(ctx context.Context, d Deps) error {
	const name = "countingRendezvous"
	var (
		logger  = d.logger().With(zap.String("demo", name))
		results = d.provider().NewCounter(ResultCounter)
		tasks   = d.Config.tasks()
		timeout = d.Config.timeout()
	)

	s, err := semaphore.NewCounting(tasks, 0, semaphore.WithName(name), semaphore.WithLogger(logger), semaphore.WithClock(d.clock()))
	if err != nil {
		return err
	}

	s = d.instrument(s)
	defer d.Primitives.Add(name, func() State {
		return State{
			Name:    name,
			Kind:    KindSemaphore,
			Count:   s.Count(),
			Max:     s.Max(),
			Waiting: s.Waiting(),
		}
	})()

	argument := message.New(d.Config.text(), 0)
	argument.Count = int32(argument.Len)

	g := &group{d: d}
	for i := 0; i < tasks; i++ {
		arg := &argument
		err := g.spawn(fmt.Sprintf("Task %d", i), func(context.Context, *task.Task) error {
			received := *arg
			if err := s.Give(); err != nil {
				return err
			}

			logger.Info("received", zap.String("body", received.Text()), zap.Int32("len", received.Count))
			results.Add(1.0)
			return nil
		})

		if err != nil {
			s.Close()
			g.stop()
			return err
		}
	}

	for i := 0; i < tasks; i++ {
		if err := s.Take(timeout); err != nil {
			s.Close()
			g.stop()
			return errors.WithDetails(err, "taken", i, "tasks", tasks)
		}
	}

	logger.Info("all tasks created", zap.Int("tasks", tasks))

	// every task has its own copy now
	argument = message.Message{}

	return g.run(ctx, func() { s.Close() })
}
