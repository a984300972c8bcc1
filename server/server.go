// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

// Server runs an http.Server on an instrumented listener.
type Server struct {
	logger   *zap.Logger
	measures Measures
	address  string
	server   *http.Server

	lock     sync.Mutex
	listener net.Listener
	done     chan struct{}
}

func New(o *Options, h http.Handler, logger *zap.Logger, m Measures) *Server {
	return &Server{
		logger:   logger,
		measures: m.orDiscard(),
		address:  o.address(),
		server: &http.Server{
			Handler:           h,
			ReadHeaderTimeout: o.readHeaderTimeout(),
			IdleTimeout:       o.idleTimeout(),
			ErrorLog:          zap.NewStdLog(logger),
		},
	}
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	s.lock.Lock()
	s.listener = InstrumentListener(s.logger, s.measures.ActiveConnections, l)
	s.done = make(chan struct{})
	s.lock.Unlock()

	s.logger.Info("server listening", zap.Stringer("address", l.Addr()))
	go func() {
		defer close(s.done)
		if err := s.server.Serve(s.listener); !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server exited", zap.Error(err))
		}
	}()

	return nil
}

// Addr returns the bound address, or nil if the server has not started.
func (s *Server) Addr() net.Addr {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.listener != nil {
		return s.listener.Addr()
	}

	return nil
}

// Stop gracefully shuts down the server, waiting up to the context's deadline.
func (s *Server) Stop(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	s.lock.Lock()
	done := s.done
	s.lock.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
		}
	}

	return err
}
