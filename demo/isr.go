// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package demo

import (
	"context"
	"sync"

	"github.com/xmidt-org/rtsync/alarm"
	"github.com/xmidt-org/rtsync/critical"
	"github.com/xmidt-org/rtsync/deferred"
	"github.com/xmidt-org/rtsync/intc"
	"github.com/xmidt-org/rtsync/task"
	"go.uber.org/zap"
)

// adcMax is the full-scale reading of the simulated converter
const adcMax = 4096

// timerInterrupt attaches a handler to the configured line and drives that line from an
// autoreloading alarm.  The returned function undoes all of it.
func (d Deps) timerInterrupt(name string, h intc.Handler) (func(), error) {
	line := d.Config.line()
	if err := d.Controller.Attach(line, h); err != nil {
		return nil, err
	}

	if err := d.Controller.Enable(line); err != nil {
		d.Controller.Detach(line)
		return nil, err
	}

	a := alarm.New(
		d.Config.period(),
		func() { d.Controller.Raise(line) },
		alarm.WithClock(d.clock()),
		alarm.WithAutoreload(true),
		alarm.WithLogger(d.logger()),
		alarm.WithFiredCounter(d.provider().NewCounter(AlarmFiredCounter)),
	)

	remove := d.Primitives.Add(name+".alarm", func() State {
		return State{
			Name:  name + ".alarm",
			Kind:  KindAlarm,
			Value: int64(a.Fired()),
		}
	})

	a.Enable()
	return sync.OnceFunc(func() {
		a.Disable()
		d.Controller.Disable(line)
		d.Controller.Detach(line)
		remove()
	}), nil
}

// ISRSemaphore samples a simulated converter from a timer interrupt and hands each sample to a
// printing task through a binary deferred handoff.
func ISRSemaphore(ctx context.Context, d Deps) error {
	const name = "isrSemaphore"
	var (
		logger         = d.logger().With(zap.String("demo", name))
		results        = d.provider().NewCounter(ResultCounter)
		limit          = d.Config.limit()
		runCtx, cancel = context.WithCancel(ctx)
		reading        int
		printed        int
	)

	defer cancel()
	h := deferred.NewBinary[int](
		d.Controller,
		d.Config.line(),
		deferred.WithName(name),
		deferred.WithLogger(logger),
		deferred.WithOverrunCounter(d.provider().NewCounter(DeferredOverrunCounter)),
	)

	defer d.Primitives.Add(name, func() State {
		return State{
			Name:     name,
			Kind:     KindHandoff,
			State:    h.State().String(),
			Overruns: h.Overruns(),
		}
	})()

	// the handler runs only on the controller's dispatcher, so reading needs no lock
	stop, err := d.timerInterrupt(name, func(f *intc.Frame) {
		reading = (reading + 37) % adcMax
		h.Capture(f, reading)
	})

	if err != nil {
		return err
	}

	defer stop()

	g := &group{d: d}
	err = g.spawn("printValues", deferred.Func(h, func(v int) {
		logger.Info("sample", zap.Int("value", v))
		results.Add(1.0)
		printed++
		if limit > 0 && printed >= limit {
			cancel()
		}
	}))

	if err != nil {
		return err
	}

	<-runCtx.Done()
	stop()
	h.Close()
	err = g.stop()
	logger.Info("samples printed", zap.Int("count", printed), zap.Uint64("overruns", h.Overruns()))
	return err
}

// ISRCriticalSection increments a counter from a timer interrupt inside an interrupt critical
// section.  A task periodically drains the counter, one unit at a time, inside the same section.
func ISRCriticalSection(ctx context.Context, d Deps) error {
	const name = "isrCriticalSection"
	var (
		logger  = d.logger().With(zap.String("demo", name))
		results = d.provider().NewCounter(ResultCounter)
		limit   = d.Config.limit()
		section = critical.NewISR(d.Controller, d.Config.line())
		counter int
	)

	defer d.Primitives.Add(name, func() State {
		var v int
		section.Do(func() { v = counter })
		return State{
			Name:  name,
			Kind:  KindSection,
			Value: int64(v),
		}
	})()

	stop, err := d.timerInterrupt(name, func(f *intc.Frame) {
		section.DoFromISR(f, func() { counter++ })
	})

	if err != nil {
		return err
	}

	defer stop()

	g := &group{d: d}
	err = g.spawn("printValues", func(_ context.Context, self *task.Task) error {
		drained := 0
		for {
			for {
				var v int
				section.Do(func() {
					v = counter
					if counter > 0 {
						counter--
					}
				})

				if v == 0 {
					break
				}

				logger.Info("isr counter", zap.Int("value", v))
				results.Add(1.0)
				drained++
				if limit > 0 && drained >= limit {
					return nil
				}
			}

			if err := self.Delay(d.Config.delay()); err != nil {
				return err
			}
		}
	})

	if err != nil {
		return err
	}

	return g.run(ctx)
}
