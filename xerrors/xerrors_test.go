package xerrors

import (
	"fmt"
	"testing"

	"emperror.dev/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestErrWouldBlock(t *testing.T) {
	assert := assert.New(t)
	assert.True(errors.Is(ErrWouldBlock, ErrTimeout))
	assert.False(errors.Is(ErrTimeout, ErrWouldBlock))
	assert.NotEmpty(ErrWouldBlock.Error())
}

func testOwnershipErrorHeld(t *testing.T) {
	var (
		assert = assert.New(t)
		err    = NewOwnershipError("counter", "task-a", "task-b")
	)

	assert.Contains(err.Error(), "task-a")
	assert.Contains(err.Error(), "task-b")
	assert.True(errors.Is(err, ErrOwnershipViolation))

	var oe *OwnershipError
	assert.True(errors.As(fmt.Errorf("wrapped: %w", err), &oe))
	assert.Equal("task-a", oe.Holder)
}

func testOwnershipErrorNotHeld(t *testing.T) {
	var (
		assert = assert.New(t)
		err    = NewOwnershipError("counter", "", "task-b")
	)

	assert.Contains(err.Error(), "not held")
	assert.Equal(KindOwnershipViolation, KindOf(err))
}

func TestOwnershipError(t *testing.T) {
	t.Run("Held", testOwnershipErrorHeld)
	t.Run("NotHeld", testOwnershipErrorNotHeld)
}

func TestExhausted(t *testing.T) {
	var (
		assert = assert.New(t)
		err    = Exhausted("capacity must be positive", "capacity", 0)
	)

	assert.True(errors.Is(err, ErrResourceExhausted))
	assert.Equal(KindResourceExhausted, KindOf(err))
	assert.Contains(err.Error(), "capacity must be positive")
	assert.Equal([]interface{}{"capacity", 0}, errors.GetDetails(err))
}

func TestKindOf(t *testing.T) {
	testData := []struct {
		err         error
		expected    Kind
		recoverable bool
	}{
		{nil, KindNone, false},
		{ErrTimeout, KindTimeout, true},
		{ErrWouldBlock, KindWouldBlock, true},
		{ErrCapacityExceeded, KindCapacityExceeded, true},
		{fmt.Errorf("send: %w", ErrCapacityExceeded), KindCapacityExceeded, true},
		{NewOwnershipError("m", "a", "b"), KindOwnershipViolation, false},
		{Exhausted("nope"), KindResourceExhausted, false},
		{ErrClosed, KindClosed, false},
		{errors.New("something else"), KindUnknown, false},
	}

	for _, record := range testData {
		t.Run(record.expected.String(), func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(record.expected, KindOf(record.err))
			assert.Equal(record.recoverable, Recoverable(record.err))
		})
	}
}

func TestFirstCause(t *testing.T) {
	assert := assert.New(t)
	assert.Nil(FirstCause(nil))
	assert.Equal(ErrTimeout, FirstCause(ErrTimeout))
	assert.Equal(ErrTimeout, FirstCause(fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", ErrTimeout))))
	assert.Equal(ErrOwnershipViolation, FirstCause(NewOwnershipError("m", "a", "b")))
}

func TestFatal(t *testing.T) {
	var (
		require = require.New(t)
		logger  = zaptest.NewLogger(t)
		err     = NewOwnershipError("m", "a", "b")
	)

	require.PanicsWithValue(err, func() {
		Fatal(logger, err)
	})

	require.Panics(func() {
		Fatal(nil, ErrResourceExhausted)
	})
}
