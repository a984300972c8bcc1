package xmetrics

import (
	"strings"
	"testing"

	"github.com/go-kit/kit/metrics/generic"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsDefaults(t *testing.T) {
	assert := assert.New(t)
	for _, o := range []*Options{nil, new(Options)} {
		assert.Equal(DefaultNamespace, o.namespace())
		assert.Equal(DefaultSubsystem, o.subsystem())
		assert.Empty(o.Module())
		assert.NotNil(o.registry())
	}
}

func TestFromViper(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		v       = viper.New()
	)

	v.SetConfigType("json")
	require.NoError(v.ReadConfig(strings.NewReader(`{
		"metrics": {
			"namespace": "isr",
			"pedantic": true,
			"metrics": [{"name": "overruns", "type": "counter"}]
		}
	}`)))

	o, err := FromViper(v)
	require.NoError(err)
	assert.Equal("isr", o.namespace())
	assert.True(o.Pedantic)
	require.Len(o.Metrics, 1)
	assert.Equal("overruns", o.Metrics[0].Name)

	o, err = FromViper(nil)
	require.NoError(err)
	assert.NotNil(o)
}

func TestOrDiscard(t *testing.T) {
	var (
		assert  = assert.New(t)
		counter = generic.NewCounter("test")
		gauge   = generic.NewGauge("test")
	)

	assert.Equal(counter, CounterOrDiscard(counter))
	assert.NotNil(CounterOrDiscard(nil))
	assert.Equal(gauge, GaugeOrDiscard(gauge))
	assert.NotNil(GaugeOrDiscard(nil))
	assert.NotNil(HistogramOrDiscard(nil))
	assert.Equal(counter, AdderOrDiscard(counter))
	assert.NotNil(AdderOrDiscard(nil))
	assert.Equal(gauge, SetterOrDiscard(gauge))
	assert.NotNil(SetterOrDiscard(nil))

	AdderOrDiscard(nil).Add(1.0)
	SetterOrDiscard(nil).Set(1.0)
}
