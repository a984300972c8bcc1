// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package demo

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/xmidt-org/rtsync/message"
	"github.com/xmidt-org/rtsync/queue"
	"github.com/xmidt-org/rtsync/task"
	"go.uber.org/zap"
)

// scan reads messages from r on its own goroutine, since a read may block indefinitely.  The
// returned channel is closed at the end of the input or once done is closed.
func scan(done <-chan struct{}, r io.Reader, logger *zap.Logger) <-chan message.Message {
	lines := make(chan message.Message)
	go func() {
		defer close(lines)
		s := message.NewScanner(r)
		for {
			m, err := s.Next()
			if err != nil {
				if err != io.EOF {
					logger.Error("unable to read input", zap.Error(err))
				}

				return
			}

			select {
			case lines <- m:
			case <-done:
				return
			}
		}
	}()

	return lines
}

func describeQueue[T any](q *queue.Queue[T]) func() State {
	return func() State {
		senders, receivers := q.Waiting()
		return State{
			Name:     q.Name(),
			Kind:     KindQueue,
			Length:   q.Len(),
			Capacity: q.Cap(),
			Waiting:  senders + receivers,
		}
	}
}

// QueueRelay passes blink delays from the input to a blinking task over one queue, and passes
// status messages back over a second queue to a printing task.  Each input line is a delay in
// milliseconds.
func QueueRelay(ctx context.Context, d Deps) error {
	const name = "queueRelay"
	var (
		logger         = d.logger().With(zap.String("demo", name))
		results        = d.provider().NewCounter(ResultCounter)
		limit          = d.Config.limit()
		timeout        = d.Config.timeout()
		blinks         = d.Config.blinks()
		runCtx, cancel = context.WithCancel(ctx)
	)

	defer cancel()
	delays, err := queue.New[int](
		d.Config.capacity(),
		queue.WithName("delayQueue"),
		queue.WithLogger(logger),
		queue.WithClock(d.clock()),
		queue.WithMeasures(queue.NewMeasures(d.provider())),
	)

	if err != nil {
		return err
	}

	replies, err := queue.New[message.Message](
		d.Config.capacity(),
		queue.WithName("msgQueue"),
		queue.WithLogger(logger),
		queue.WithClock(d.clock()),
		queue.WithMeasures(queue.NewMeasures(d.provider())),
	)

	if err != nil {
		return err
	}

	defer d.Primitives.Add(name+".delayQueue", describeQueue(delays))()
	defer d.Primitives.Add(name+".msgQueue", describeQueue(replies))()

	var (
		g     = &group{d: d}
		input = scan(runCtx.Done(), d.input(), logger)
	)

	err = g.spawn("readInput", func(ctx context.Context, _ *task.Task) error {
		for {
			select {
			case m, ok := <-input:
				if !ok {
					return nil
				}

				delay, err := cast.ToIntE(strings.TrimSpace(m.Text()))
				if err != nil {
					logger.Warn("ignoring input", zap.String("text", m.Text()))
					continue
				}

				if delay < 0 {
					delay = -delay
				}

				if err := delays.Send(delay, timeout); err != nil {
					logger.Error("could not put item on delay queue", zap.Error(err))
				}

			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	if err == nil {
		err = g.spawn("doCLI", func(ctx context.Context, _ *task.Task) error {
			printed := 0
			for {
				reply, err := replies.ReceiveCtx(ctx)
				if err != nil {
					return err
				}

				logger.Info("relay", zap.String("body", reply.Text()), zap.Int32("count", reply.Count))
				results.Add(1.0)
				printed++
				if limit > 0 && printed >= limit {
					cancel()
				}
			}
		})
	}

	if err == nil {
		err = g.spawn("blinkLED", func(_ context.Context, self *task.Task) error {
			var (
				delay   = d.Config.blinkDelay()
				counter int32
			)

			for {
				if v, ok := delays.TryReceive(); ok {
					delay = time.Duration(v) * time.Millisecond
					if err := replies.Send(message.New("Delay updated: ", int32(v)), timeout); err != nil {
						logger.Error("could not put item on msg queue", zap.Error(err))
					}
				}

				// one blink is the LED on for a delay, then off for a delay
				if err := self.Delay(delay); err != nil {
					return err
				}

				if err := self.Delay(delay); err != nil {
					return err
				}

				counter++
				if counter%int32(blinks) == 0 {
					if err := replies.Send(message.New("Blinked: ", counter), timeout); err != nil {
						logger.Error("could not put item on msg queue", zap.Error(err))
					}
				}
			}
		})
	}

	if err != nil {
		delays.Close()
		replies.Close()
		g.stop()
		return err
	}

	<-runCtx.Done()
	delays.Close()
	replies.Close()
	return g.stop()
}

// OwnedHandoff moves each input line from a reading task to a printing task through a single-slot
// queue.  The queue holds a copy of the message, so neither task ever shares memory with the other.
func OwnedHandoff(ctx context.Context, d Deps) error {
	const name = "ownedHandoff"
	var (
		logger         = d.logger().With(zap.String("demo", name))
		results        = d.provider().NewCounter(ResultCounter)
		limit          = d.Config.limit()
		runCtx, cancel = context.WithCancel(ctx)
	)

	defer cancel()
	slot, err := queue.New[message.Message](
		1,
		queue.WithName("slot"),
		queue.WithLogger(logger),
		queue.WithClock(d.clock()),
		queue.WithMeasures(queue.NewMeasures(d.provider())),
	)

	if err != nil {
		return err
	}

	defer d.Primitives.Add(name, describeQueue(slot))()

	var (
		g     = &group{d: d}
		input = scan(runCtx.Done(), d.input(), logger)
	)

	err = g.spawn("firstTask", func(ctx context.Context, _ *task.Task) error {
		for {
			select {
			case m, ok := <-input:
				if !ok {
					return nil
				}

				if err := slot.SendCtx(ctx, m); err != nil {
					return err
				}

				logger.Debug("sent", zap.String("body", m.Text()))

			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	if err == nil {
		err = g.spawn("secondTask", func(ctx context.Context, _ *task.Task) error {
			received := 0
			for {
				m, err := slot.ReceiveCtx(ctx)
				if err != nil {
					return err
				}

				logger.Info("received", zap.String("body", m.Text()), zap.Int32("count", m.Count))
				results.Add(1.0)
				received++
				if limit > 0 && received >= limit {
					cancel()
				}
			}
		})
	}

	if err != nil {
		slot.Close()
		g.stop()
		return err
	}

	<-runCtx.Done()
	slot.Close()
	return g.stop()
}
