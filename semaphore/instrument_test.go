package semaphore

import (
	"context"
	"testing"
	"time"

	"github.com/go-kit/kit/metrics/generic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/rtsync/clock"
	"github.com/xmidt-org/rtsync/intc"
	"github.com/xmidt-org/rtsync/xerrors"
)

func newInstrumented(t *testing.T) (Interface, *generic.Gauge, *generic.Counter, *generic.Counter) {
	var (
		resources = generic.NewGauge("resources")
		errors    = generic.NewCounter("errors")
		overruns  = generic.NewCounter("overruns")
	)

	s, err := NewCounting(2, 2)
	require.NoError(t, err)

	return Instrument(s, WithResources(resources), WithErrors(errors), WithOverruns(overruns)),
		resources, errors, overruns
}

func testInstrumentNilSemaphore(t *testing.T) {
	assert.Panics(t, func() {
		Instrument(nil)
	})
}

func testInstrumentNilOptions(t *testing.T) {
	assert := assert.New(t)
	s := Instrument(NewBinary(), WithResources(nil), WithErrors(nil), WithOverruns(nil))
	assert.NoError(s.Give())
	assert.ErrorIs(s.Give(), xerrors.ErrCapacityExceeded)
	assert.True(s.TryTake())
	assert.False(s.TryTake())
}

func testInstrumentTakeGive(t *testing.T) {
	var (
		assert                         = assert.New(t)
		s, resources, errors, overruns = newInstrumented(t)
		frame                          = intc.NewFrame(0)
	)

	assert.NoError(s.Take(clock.Forever))
	assert.Equal(1.0, resources.Value())

	assert.True(s.TakeFromISR(frame))
	assert.Equal(2.0, resources.Value())

	assert.False(s.TryTake())
	assert.False(s.TakeFromISR(frame))
	assert.ErrorIs(s.Take(clock.NoWait), xerrors.ErrWouldBlock)
	assert.Equal(3.0, errors.Value())

	woken, err := s.GiveFromISR(frame)
	assert.False(woken)
	assert.NoError(err)
	assert.NoError(s.Give())
	assert.Zero(resources.Value())

	assert.ErrorIs(s.Give(), xerrors.ErrCapacityExceeded)
	assert.Equal(1.0, overruns.Value())
	assert.Zero(resources.Value())
}

func testInstrumentTakeCtx(t *testing.T) {
	var (
		assert                  = assert.New(t)
		s, resources, errors, _ = newInstrumented(t)
		ctx, cancel             = context.WithTimeout(context.Background(), 10*time.Millisecond)
	)

	defer cancel()
	assert.NoError(s.TakeCtx(ctx))
	assert.True(s.TryTake())
	assert.ErrorIs(s.TakeCtx(ctx), context.DeadlineExceeded)
	assert.Equal(2.0, resources.Value())
	assert.Equal(1.0, errors.Value())
}

func TestInstrument(t *testing.T) {
	t.Run("NilSemaphore", testInstrumentNilSemaphore)
	t.Run("NilOptions", testInstrumentNilOptions)
	t.Run("TakeGive", testInstrumentTakeGive)
	t.Run("TakeCtx", testInstrumentTakeCtx)
}

func TestMetrics(t *testing.T) {
	assert := assert.New(t)
	names := make(map[string]bool)
	for _, m := range Metrics() {
		names[m.Name] = true
	}

	assert.Equal(map[string]bool{ResourcesGauge: true, TakeErrorCounter: true, OverrunCounter: true}, names)
}
