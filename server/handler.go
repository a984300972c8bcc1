// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

const (
	MetricsPath    = "/metrics"
	PrimitivesPath = "/primitives"

	ContentTypeJSON    = "application/json"
	ContentTypeMsgpack = "application/msgpack"
)

// HandlerOptions holds what the server's handler needs.  Report is called for each request to
// the primitives endpoint, and its result is rendered as JSON or msgpack.
type HandlerOptions struct {
	Logger   *zap.Logger
	Gatherer prometheus.Gatherer
	Report   func() interface{}
	Measures Measures
}

// NewHandler builds the router and middleware chain.
func NewHandler(o HandlerOptions) http.Handler {
	logger := o.Logger
	if logger == nil {
		logger = sallust.Default()
	}

	gatherer := o.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	router := mux.NewRouter()
	router.Handle(MetricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.Handle(PrimitivesPath, &reportHandler{logger: logger, report: o.Report}).Methods(http.MethodGet)

	return alice.New(
		logRequests(logger),
		instrument(o.Measures.orDiscard()),
	).Then(router)
}

type reportHandler struct {
	logger *zap.Logger
	report func() interface{}
}

func (rh *reportHandler) ServeHTTP(response http.ResponseWriter, request *http.Request) {
	var value interface{}
	if rh.report != nil {
		value = rh.report()
	}

	var (
		body        []byte
		err         error
		contentType = ContentTypeJSON
	)

	if strings.Contains(request.Header.Get("Accept"), ContentTypeMsgpack) {
		contentType = ContentTypeMsgpack
		body, err = msgpack.Marshal(value)
	} else {
		body, err = json.Marshal(value)
	}

	if err != nil {
		rh.logger.Error("unable to render report", zap.Error(err))
		http.Error(response, err.Error(), http.StatusInternalServerError)
		return
	}

	response.Header().Set("Content-Type", contentType)
	response.WriteHeader(http.StatusOK)
	response.Write(body)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.code = code
	sr.ResponseWriter.WriteHeader(code)
}

func logRequests(logger *zap.Logger) alice.Constructor {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
			logger.Debug("request", zap.String("method", request.Method), zap.String("path", request.URL.Path))
			next.ServeHTTP(response, request)
		})
	}
}

func instrument(m Measures) alice.Constructor {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
			var (
				start    = time.Now()
				recorder = &statusRecorder{ResponseWriter: response, code: http.StatusOK}
			)

			next.ServeHTTP(recorder, request)
			m.Duration.Observe(time.Since(start).Seconds())
			m.Requests.With(CodeLabel, strconv.Itoa(recorder.code), MethodLabel, request.Method).Add(1.0)
		})
	}
}
