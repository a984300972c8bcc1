package clocktest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 8, 12, 0, 0, 0, 0, time.UTC)

func testManualTimer(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		m       = NewManual(epoch)
		timer   = m.NewTimer(time.Second)
	)

	require.Equal(1, m.Pending())
	m.Advance(500 * time.Millisecond)
	select {
	case <-timer.C():
		assert.Fail("The timer fired early")
	default:
	}

	m.Advance(500 * time.Millisecond)
	select {
	case now := <-timer.C():
		assert.Equal(epoch.Add(time.Second), now)
	default:
		assert.Fail("The timer did not fire")
	}

	assert.Zero(m.Pending())
	assert.False(timer.Stop())
}

func testManualTimerStop(t *testing.T) {
	var (
		assert = assert.New(t)
		m      = NewManual(epoch)
		timer  = m.NewTimer(time.Second)
	)

	assert.True(timer.Stop())
	m.Advance(time.Hour)
	select {
	case <-timer.C():
		assert.Fail("A stopped timer fired")
	default:
	}
}

func testManualTimerReset(t *testing.T) {
	var (
		assert = assert.New(t)
		m      = NewManual(epoch)
		timer  = m.NewTimer(time.Second)
	)

	assert.True(timer.Reset(time.Minute))
	m.Advance(time.Second)
	select {
	case <-timer.C():
		assert.Fail("A reset timer fired at its old time")
	default:
	}

	m.Advance(time.Minute)
	select {
	case <-timer.C():
	default:
		assert.Fail("A reset timer did not fire")
	}
}

func testManualTicker(t *testing.T) {
	var (
		assert = assert.New(t)
		m      = NewManual(epoch)
		ticker = m.NewTicker(time.Second)
	)

	defer ticker.Stop()
	for i := 0; i < 3; i++ {
		m.Advance(time.Second)
		select {
		case <-ticker.C():
		default:
			assert.Fail("The ticker did not tick")
		}
	}

	assert.Equal(1, m.Pending())
	assert.Panics(func() { m.NewTicker(0) })
}

func testManualSleep(t *testing.T) {
	var (
		assert = assert.New(t)
		m      = NewManual(epoch)
		done   = make(chan struct{})
	)

	go func() {
		defer close(done)
		m.Sleep(time.Minute)
	}()

	assert.True(m.AwaitPending(1, 5*time.Second))
	m.Advance(time.Minute)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		assert.Fail("Sleep did not return")
	}
}

func TestManual(t *testing.T) {
	t.Run("Timer", testManualTimer)
	t.Run("TimerStop", testManualTimerStop)
	t.Run("TimerReset", testManualTimerReset)
	t.Run("Ticker", testManualTicker)
	t.Run("Sleep", testManualSleep)
}
