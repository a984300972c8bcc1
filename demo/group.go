// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package demo

import (
	"context"

	"emperror.dev/errors"
	"github.com/xmidt-org/rtsync/task"
	"github.com/xmidt-org/rtsync/xerrors"
	"go.uber.org/multierr"
)

// group is the set of tasks started by one scenario.
type group struct {
	d     Deps
	tasks []*task.Task
}

func (g *group) spawn(name string, fn task.Func) error {
	t, err := g.d.Scheduler.Create(g.d.Config.spec(name), fn)
	if err != nil {
		return errors.WithDetails(err, "task", name)
	}

	g.tasks = append(g.tasks, t)
	return nil
}

// finished returns a channel closed once every task in this group has exited.
func (g *group) finished() <-chan struct{} {
	tasks := append([]*task.Task{}, g.tasks...)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, t := range tasks {
			<-t.Done()
		}
	}()

	return done
}

// run waits for ctx or for every task to exit, then stops the remaining tasks and returns their
// combined errors.  Cancellation is not an error.  Each release function is called before the
// tasks are stopped, so that tasks blocked on a primitive can be let go.
func (g *group) run(ctx context.Context, release ...func()) error {
	select {
	case <-ctx.Done():
	case <-g.finished():
	}

	for _, f := range release {
		f()
	}

	return g.stop()
}

func (g *group) stop() error {
	for _, t := range g.tasks {
		g.d.Scheduler.Delete(t.ID())
	}

	var err error
	for _, t := range g.tasks {
		<-t.Done()
		if taskErr := t.Err(); taskErr != nil && !errors.Is(taskErr, context.Canceled) && !errors.Is(taskErr, xerrors.ErrClosed) {
			err = multierr.Append(err, errors.WithDetails(taskErr, "task", t.Name()))
		}
	}

	return err
}
