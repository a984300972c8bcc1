// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/xmidt-org/rtsync/clock"
	"github.com/xmidt-org/rtsync/xerrors"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

// Option is a configuration option for a Scheduler
type Option func(*Scheduler)

// WithLogger sets the logger.  A nil logger sets the default.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		} else {
			s.logger = sallust.Default()
		}
	}
}

// WithClock sets the clock used by Task.Delay and Shutdown.  A nil clock sets the system clock.
func WithClock(c clock.Interface) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		} else {
			s.clock = clock.System()
		}
	}
}

func WithMeasures(m Measures) Option {
	return func(s *Scheduler) {
		s.measures = m.orDiscard()
	}
}

// Scheduler creates and tracks tasks.
type Scheduler struct {
	logger   *zap.Logger
	clock    clock.Interface
	measures Measures

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	lock     sync.Mutex
	tasks    map[ID]*Task
	shutdown bool
}

// New creates a Scheduler with no tasks.
func New(options ...Option) *Scheduler {
	s := &Scheduler{
		logger:   sallust.Default(),
		clock:    clock.System(),
		measures: Measures{}.orDiscard(),
		tasks:    make(map[ID]*Task),
	}

	for _, o := range options {
		o(s)
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	return s
}

// Create validates the spec and starts a task running fn.  The task is removed from this
// scheduler when fn returns.
func (s *Scheduler) Create(spec Spec, fn Func) (*Task, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	} else if fn == nil {
		return nil, errors.New("a task function is required")
	}

	spec.StackSize = spec.stackSize()
	t := &Task{
		id:      NewID(),
		spec:    spec,
		clock:   s.clock,
		created: s.clock.Now(),
		done:    make(chan struct{}),
	}

	s.lock.Lock()
	if s.shutdown {
		s.lock.Unlock()
		return nil, xerrors.ErrClosed
	}

	t.ctx, t.cancel = context.WithCancel(s.ctx)
	s.tasks[t.id] = t
	s.wg.Add(1)
	s.lock.Unlock()

	s.measures.Created.Add(1.0)
	s.measures.Running.Add(1.0)
	s.logger.Debug(
		"task created",
		zap.Stringer("id", t.id),
		zap.String("name", spec.Name),
		zap.Int("priority", spec.Priority),
		zap.Int("core", spec.Core),
	)

	go s.run(t, fn)
	return t, nil
}

func (s *Scheduler) run(t *Task, fn Func) {
	defer s.finish(t)

	if t.spec.Core != AnyCore {
		if err := pin(t.spec.Core); err != nil {
			s.logger.Warn(
				"unable to pin task to core",
				zap.Stringer("id", t.id),
				zap.String("name", t.spec.Name),
				zap.Int("core", t.spec.Core),
				zap.Error(err),
			)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			t.err = fmt.Errorf("task panicked: %v", r)
		}
	}()

	t.err = fn(t.ctx, t)
}

func (s *Scheduler) finish(t *Task) {
	t.cancel()

	s.lock.Lock()
	delete(s.tasks, t.id)
	s.lock.Unlock()

	s.measures.Running.Add(-1.0)
	switch {
	case t.err == nil || errors.Is(t.err, context.Canceled):
		s.logger.Debug("task exited", zap.Stringer("id", t.id), zap.String("name", t.spec.Name))

	default:
		s.measures.Failed.Add(1.0)
		s.logger.Error("task failed", zap.Stringer("id", t.id), zap.String("name", t.spec.Name), zap.Error(t.err))
	}

	close(t.done)
	s.wg.Done()
}

// Delete cancels a task.  It returns false if no such task is running.
func (s *Scheduler) Delete(id ID) bool {
	s.lock.Lock()
	t, ok := s.tasks[id]
	s.lock.Unlock()

	if ok {
		t.cancel()
	}

	return ok
}

// Lookup returns the running task with the given ID.
func (s *Scheduler) Lookup(id ID) (*Task, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	t, ok := s.tasks[id]
	return t, ok
}

// Tasks returns the running tasks in creation order.
func (s *Scheduler) Tasks() []*Task {
	s.lock.Lock()
	tasks := make([]*Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t)
	}

	s.lock.Unlock()
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].created.Equal(tasks[j].created) {
			return tasks[i].id < tasks[j].id
		}

		return tasks[i].created.Before(tasks[j].created)
	})

	return tasks
}

// Shutdown cancels every task and waits up to timeout for them to exit.  A negative timeout
// waits indefinitely.  This method returns true if all tasks exited in time.  No tasks can be
// created after Shutdown.
func (s *Scheduler) Shutdown(timeout time.Duration) bool {
	s.lock.Lock()
	s.shutdown = true
	s.lock.Unlock()

	s.cancel()

	exited := make(chan struct{})
	go func() {
		defer close(exited)
		s.wg.Wait()
	}()

	if clock.IsForever(timeout) {
		<-exited
		return true
	}

	timer := s.clock.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-exited:
		return true

	case <-timer.C():
		s.logger.Warn("tasks did not exit before the shutdown timeout", zap.Duration("timeout", timeout))
		return false
	}
}
