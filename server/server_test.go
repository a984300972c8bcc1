package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-kit/kit/metrics/generic"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/rtsync/logging"
)

func TestOptions(t *testing.T) {
	assert := assert.New(t)
	for _, o := range []*Options{nil, new(Options)} {
		assert.Equal(DefaultAddress, o.address())
		assert.Equal(DefaultReadHeaderTimeout, o.readHeaderTimeout())
		assert.Equal(DefaultIdleTimeout, o.idleTimeout())
	}

	o := &Options{Address: "localhost:1234", ReadHeaderTimeout: time.Second, IdleTimeout: time.Minute}
	assert.Equal("localhost:1234", o.address())
	assert.Equal(time.Second, o.readHeaderTimeout())
	assert.Equal(time.Minute, o.idleTimeout())
}

func TestFromViper(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		v       = viper.New()
	)

	v.SetConfigType("json")
	require.NoError(v.ReadConfig(strings.NewReader(`{"server": {"address": ":9090", "idleTimeout": "1m"}}`)))

	o, err := FromViper(Sub(v))
	require.NoError(err)
	assert.Equal(":9090", o.address())
	assert.Equal(time.Minute, o.idleTimeout())

	o, err = FromViper(nil)
	assert.NoError(err)
	assert.NotNil(o)
	assert.Nil(Sub(nil))
}

func TestServer(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		gauge   = generic.NewGauge("connections")
		handler = http.HandlerFunc(func(response http.ResponseWriter, _ *http.Request) {
			response.Write([]byte("hello"))
		})

		s = New(&Options{Address: "127.0.0.1:0"}, handler, logging.NewTestLogger(t), Measures{ActiveConnections: gauge})
	)

	assert.Nil(s.Addr())
	require.NoError(s.Start())
	require.NotNil(s.Addr())

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	response, err := client.Get(fmt.Sprintf("http://%s/anything", s.Addr()))
	require.NoError(err)
	body, err := io.ReadAll(response.Body)
	response.Body.Close()
	require.NoError(err)
	assert.Equal("hello", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(s.Stop(ctx))
	assert.Eventually(func() bool { return gauge.Value() == 0.0 }, time.Second, 10*time.Millisecond)
}
