package demo

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/rtsync/clock"
	"github.com/xmidt-org/rtsync/task"
)

func TestConfigDefaults(t *testing.T) {
	for _, c := range []*Config{nil, new(Config)} {
		assert := assert.New(t)
		assert.Equal(DefaultTasks, c.tasks())
		assert.Equal(DefaultIterations, c.iterations())
		assert.Equal(DefaultPeriod, c.period())
		assert.Equal(DefaultDelay, c.delay())
		assert.Equal(DefaultJitter, c.jitter())
		assert.Equal(DefaultCapacity, c.capacity())
		assert.Equal(DefaultLine, c.line())
		assert.Zero(c.limit())
		assert.Equal(DefaultBlinks, c.blinks())
		assert.Equal(DefaultBlinkDelay, c.blinkDelay())
		assert.Equal(DefaultText, c.text())
		assert.Equal(clock.Forever, c.timeout())
		assert.Equal(task.AnyCore, c.spec("test").Core)
	}
}

func TestConfigFromViper(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		v       = viper.New()
	)

	v.SetConfigType("json")
	require.NoError(v.ReadConfig(strings.NewReader(`
		{"demo": {
			"tasks": 3,
			"period": "250ms",
			"line": 9,
			"limit": 10,
			"text": "hello",
			"pin": true,
			"core": 0,
			"timeout": "nowait"
		}}
	`)))

	c, err := FromViper(Sub(v))
	require.NoError(err)
	require.NotNil(c)

	assert.Equal(3, c.tasks())
	assert.Equal(250*time.Millisecond, c.period())
	assert.EqualValues(9, c.line())
	assert.Equal(10, c.limit())
	assert.Equal("hello", c.text())
	assert.Equal(0, c.spec("pinned").Core)
	assert.Equal(clock.NoWait, c.timeout())
}

func TestConfigFromViperErrors(t *testing.T) {
	assert := assert.New(t)

	c, err := FromViper(nil)
	assert.NoError(err)
	assert.NotNil(c)
	assert.Nil(Sub(nil))

	v := viper.New()
	v.Set("timeout", "sometimes")
	c, err = FromViper(v)
	assert.Nil(c)
	assert.Error(err)

	v = viper.New()
	v.Set("tasks", "many")
	c, err = FromViper(v)
	assert.Nil(c)
	assert.Error(err)
}
