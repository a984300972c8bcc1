// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"emperror.dev/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/xmidt-org/rtsync/demo"
	"github.com/xmidt-org/rtsync/intc"
	"github.com/xmidt-org/rtsync/logging"
	"github.com/xmidt-org/rtsync/queue"
	"github.com/xmidt-org/rtsync/semaphore"
	"github.com/xmidt-org/rtsync/server"
	"github.com/xmidt-org/rtsync/task"
	"github.com/xmidt-org/rtsync/xmetrics"
	"github.com/xmidt-org/rtsync/xviper"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	applicationName = "rtsyncd"

	DemoFlag  = "demo"
	ListFlag  = "list"
	ServeFlag = "serve"

	ShutdownTimeoutKey = "shutdownTimeout"

	DefaultDemo            = "isrSemaphore"
	DefaultShutdownTimeout = 10 * time.Second
)

func setupFlagSet(fs *pflag.FlagSet) {
	xviper.ConfigureFlagSet(applicationName, fs)
	fs.StringP(DemoFlag, "d", DefaultDemo, "the demo to run")
	fs.BoolP(ServeFlag, "s", true, "serve metrics and primitive state over HTTP")
	fs.Bool(ListFlag, false, "list the available demos and exit")
}

func provideLogger(v *viper.Viper) (*zap.Logger, error) {
	o, err := logging.FromViper(v)
	if err != nil {
		return nil, err
	}

	return logging.New(o), nil
}

func provideRegistry(v *viper.Viper) (xmetrics.Registry, error) {
	o, err := xmetrics.FromViper(v)
	if err != nil {
		return nil, err
	}

	return xmetrics.NewRegistry(
		o,
		intc.Metrics,
		task.Metrics,
		semaphore.Metrics,
		queue.Metrics,
		demo.Metrics,
		server.Metrics,
	)
}

func provideController(lc fx.Lifecycle, logger *zap.Logger, r xmetrics.Registry) *intc.Controller {
	c := intc.New(
		intc.WithLogger(logger),
		intc.WithMeasures(intc.NewMeasures(r)),
	)

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return c.Close()
		},
	})

	return c
}

func provideScheduler(lc fx.Lifecycle, v *viper.Viper, logger *zap.Logger, r xmetrics.Registry) (*task.Scheduler, error) {
	timeout, err := xviper.GetTimeout(v, ShutdownTimeoutKey, DefaultShutdownTimeout)
	if err != nil {
		return nil, err
	}

	s := task.New(
		task.WithLogger(logger),
		task.WithMeasures(task.NewMeasures(r)),
	)

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			if !s.Shutdown(timeout) {
				return errors.WithDetails(errors.New("tasks did not exit in time"), "timeout", timeout)
			}

			return nil
		},
	})

	return s, nil
}

type depsIn struct {
	fx.In

	Viper      *viper.Viper
	Logger     *zap.Logger
	Registry   xmetrics.Registry
	Controller *intc.Controller
	Scheduler  *task.Scheduler
	Input      io.Reader
}

func provideDeps(in depsIn) (demo.Deps, error) {
	c, err := demo.FromViper(demo.Sub(in.Viper))
	if err != nil {
		return demo.Deps{}, err
	}

	return demo.Deps{
		Logger:     in.Logger,
		Controller: in.Controller,
		Scheduler:  in.Scheduler,
		Provider:   in.Registry,
		Primitives: demo.NewPrimitives(),
		Config:     c,
		Input:      in.Input,
	}, nil
}

func runServer(lc fx.Lifecycle, v *viper.Viper, logger *zap.Logger, r xmetrics.Registry, d demo.Deps) error {
	if !v.GetBool(ServeFlag) {
		return nil
	}

	o, err := server.FromViper(server.Sub(v))
	if err != nil {
		return err
	}

	m := server.NewMeasures(r)
	s := server.New(
		o,
		server.NewHandler(server.HandlerOptions{
			Logger:   logger,
			Gatherer: r,
			Report:   func() interface{} { return demo.NewReport(d) },
			Measures: m,
		}),
		logger,
		m,
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return s.Start()
		},
		OnStop: s.Stop,
	})

	return nil
}

func runDemo(lc fx.Lifecycle, shutdowner fx.Shutdowner, v *viper.Viper, logger *zap.Logger, d demo.Deps) {
	var (
		name        = v.GetString(DemoFlag)
		ctx, cancel = context.WithCancel(context.Background())
		done        = make(chan struct{})
		result      error
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				result = demo.Run(ctx, name, d)
				if err := shutdowner.Shutdown(); err != nil {
					logger.Error("unable to request shutdown", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return result
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

func rtsyncd(arguments []string, stdin io.Reader, stdout io.Writer) int {
	fs := pflag.NewFlagSet(applicationName, pflag.ContinueOnError)
	setupFlagSet(fs)
	if err := fs.Parse(arguments); err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse command line: %s\n", err)
		return 1
	}

	if list, _ := fs.GetBool(ListFlag); list {
		for _, name := range demo.Names() {
			fmt.Fprintln(stdout, name)
		}

		return 0
	}

	v, err := xviper.New(applicationName, fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to initialize viper: %s\n", err)
		return 1
	}

	var logger *zap.Logger
	app := fx.New(
		fx.Supply(v),
		fx.Provide(
			func() io.Reader { return stdin },
			provideLogger,
			provideRegistry,
			provideController,
			provideScheduler,
			provideDeps,
		),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx")}
		}),
		fx.Populate(&logger),
		fx.Invoke(runServer, runDemo),
	)

	if err := app.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Unable to initialize %s: %s\n", applicationName, err)
		return 1
	}

	startCtx, cancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		logger.Error("unable to start", zap.Error(err))
		return 2
	}

	signals := make(chan os.Signal, 10)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(signals)

	go func() {
		for s := range app.Done() {
			signals <- s
		}
	}()

	s := server.SignalWait(logger, signals, os.Interrupt, syscall.SIGTERM)
	logger.Info("exiting", zap.Stringer("signal", s))

	stopCtx, stopCancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer stopCancel()

	var exitErr error
	if err := app.Stop(stopCtx); err != nil {
		exitErr = multierr.Append(exitErr, err)
	}

	if err := logger.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) && !errors.Is(err, syscall.ENOTTY) {
		exitErr = multierr.Append(exitErr, err)
	}

	for _, err := range multierr.Errors(exitErr) {
		fmt.Fprintf(os.Stderr, "%s\n", err)
	}

	if exitErr != nil {
		return 4
	}

	return 0
}

func main() {
	os.Exit(rtsyncd(os.Args[1:], os.Stdin, os.Stdout))
}
