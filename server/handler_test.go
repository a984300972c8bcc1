package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/xmidt-org/rtsync/logging"
	"github.com/xmidt-org/rtsync/xmetrics"
)

type testReport struct {
	Name  string `json:"name" msgpack:"name"`
	Count int    `json:"count" msgpack:"count"`
}

func newTestHandler(t *testing.T) http.Handler {
	r, err := xmetrics.NewRegistry(
		&xmetrics.Options{DisableGoCollector: true, DisableProcessCollector: true},
		Metrics,
	)

	require.NoError(t, err)
	return NewHandler(HandlerOptions{
		Logger:   logging.NewTestLogger(t),
		Gatherer: r,
		Report:   func() interface{} { return testReport{Name: "example", Count: 3} },
		Measures: NewMeasures(r),
	})
}

func testHandlerPrimitivesJSON(t *testing.T) {
	var (
		assert   = assert.New(t)
		handler  = newTestHandler(t)
		response = httptest.NewRecorder()
	)

	handler.ServeHTTP(response, httptest.NewRequest(http.MethodGet, PrimitivesPath, nil))
	assert.Equal(http.StatusOK, response.Code)
	assert.Equal(ContentTypeJSON, response.Header().Get("Content-Type"))
	assert.JSONEq(`{"name": "example", "count": 3}`, response.Body.String())
}

func testHandlerPrimitivesMsgpack(t *testing.T) {
	var (
		assert   = assert.New(t)
		require  = require.New(t)
		handler  = newTestHandler(t)
		response = httptest.NewRecorder()
		request  = httptest.NewRequest(http.MethodGet, PrimitivesPath, nil)
	)

	request.Header.Set("Accept", ContentTypeMsgpack)
	handler.ServeHTTP(response, request)
	assert.Equal(http.StatusOK, response.Code)
	assert.Equal(ContentTypeMsgpack, response.Header().Get("Content-Type"))

	var actual testReport
	require.NoError(msgpack.Unmarshal(response.Body.Bytes(), &actual))
	assert.Equal(testReport{Name: "example", Count: 3}, actual)
}

func testHandlerMetrics(t *testing.T) {
	var (
		assert  = assert.New(t)
		handler = newTestHandler(t)
	)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, PrimitivesPath, nil))

	response := httptest.NewRecorder()
	handler.ServeHTTP(response, httptest.NewRequest(http.MethodGet, MetricsPath, nil))
	assert.Equal(http.StatusOK, response.Code)
	assert.Contains(response.Body.String(), `rtsync_primitives_api_requests_total{code="200",method="GET"} 1`)
}

func testHandlerMethodNotAllowed(t *testing.T) {
	var (
		assert   = assert.New(t)
		handler  = newTestHandler(t)
		response = httptest.NewRecorder()
	)

	handler.ServeHTTP(response, httptest.NewRequest(http.MethodPost, PrimitivesPath, nil))
	assert.Equal(http.StatusMethodNotAllowed, response.Code)
}

func testHandlerNoReport(t *testing.T) {
	var (
		assert   = assert.New(t)
		handler  = NewHandler(HandlerOptions{})
		response = httptest.NewRecorder()
	)

	handler.ServeHTTP(response, httptest.NewRequest(http.MethodGet, PrimitivesPath, nil))
	assert.Equal(http.StatusOK, response.Code)
	assert.Equal("null", response.Body.String())
}

func TestHandler(t *testing.T) {
	t.Run("PrimitivesJSON", testHandlerPrimitivesJSON)
	t.Run("PrimitivesMsgpack", testHandlerPrimitivesMsgpack)
	t.Run("Metrics", testHandlerMetrics)
	t.Run("MethodNotAllowed", testHandlerMethodNotAllowed)
	t.Run("NoReport", testHandlerNoReport)
}
