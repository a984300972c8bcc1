package queue

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-kit/kit/metrics/generic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/rtsync/clock"
	"github.com/xmidt-org/rtsync/clock/clocktest"
	"github.com/xmidt-org/rtsync/intc"
	"github.com/xmidt-org/rtsync/xerrors"
	"go.uber.org/zap/zaptest"
)

type record struct {
	Body  [8]byte
	Count int32
}

func ExampleQueue() {
	q, _ := New[int](5, WithName("example"))

	for i := 1; i <= 3; i++ {
		q.Send(i*10, clock.NoWait)
	}

	for q.Len() > 0 {
		v, _ := q.Receive(clock.NoWait)
		fmt.Println(v)
	}

	// Output:
	// 10
	// 20
	// 30
}

func newTestQueue[T any](t *testing.T, capacity int, o ...Option) *Queue[T] {
	q, err := New[T](capacity, append([]Option{WithLogger(zaptest.NewLogger(t))}, o...)...)
	require.NoError(t, err)
	return q
}

func awaitWaiting[T any](t *testing.T, q *Queue[T], senders, receivers int) {
	require.Eventually(t, func() bool {
		s, r := q.Waiting()
		return s == senders && r == receivers
	}, time.Second, time.Millisecond)
}

func testNewInvalid(t *testing.T) {
	assert := assert.New(t)

	for _, c := range []int{0, -1} {
		q, err := New[int](c)
		assert.Nil(q)
		assert.ErrorIs(err, xerrors.ErrResourceExhausted)
	}

	q, err := New[[]byte](5)
	assert.Nil(q)
	assert.ErrorIs(err, xerrors.ErrResourceExhausted)
}

func testNewValid(t *testing.T) {
	var (
		assert = assert.New(t)
		q      = newTestQueue[record](t, 5, WithName("valid"), WithClock(nil), WithLogger(nil))
	)

	assert.Equal("valid", q.Name())
	assert.Equal(5, q.Cap())
	assert.Zero(q.Len())
	assert.Equal(5, q.Spaces())
}

func TestNew(t *testing.T) {
	t.Run("Invalid", testNewInvalid)
	t.Run("Valid", testNewValid)
}

func testCapacity(t *testing.T, capacity int) {
	var (
		assert = assert.New(t)
		q      = newTestQueue[int](t, capacity)
	)

	for i := 0; i < capacity; i++ {
		assert.NoError(q.TrySend(i))
		assert.Equal(i+1, q.Len())
	}

	assert.ErrorIs(q.TrySend(capacity), xerrors.ErrCapacityExceeded)
	assert.ErrorIs(q.Send(capacity, clock.NoWait), xerrors.ErrCapacityExceeded)
	assert.Equal(capacity, q.Len())
	assert.Zero(q.Spaces())

	v, ok := q.TryReceive()
	assert.True(ok)
	assert.Zero(v)

	assert.NoError(q.TrySend(capacity))
	assert.Equal(capacity, q.Len())

	for i := 1; i <= capacity; i++ {
		v, err := q.Receive(clock.NoWait)
		assert.NoError(err)
		assert.Equal(i, v)
	}

	_, ok = q.TryReceive()
	assert.False(ok)

	_, err := q.Receive(clock.NoWait)
	assert.ErrorIs(err, xerrors.ErrWouldBlock)
}

func testFIFOConcurrent(t *testing.T, capacity int) {
	const (
		producers = 4
		perTask   = 200
	)

	var (
		assert = assert.New(t)
		q      = newTestQueue[record](t, capacity)
		wg     sync.WaitGroup
		last   = make(map[byte]int32)
	)

	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func(p byte) {
			defer wg.Done()
			var r record
			r.Body[0] = p
			for i := int32(0); i < perTask; i++ {
				r.Count = i
				assert.NoError(q.Send(r, clock.Forever))
			}
		}(byte(p))
	}

	for i := 0; i < producers*perTask; i++ {
		r, err := q.Receive(time.Second)
		if !assert.NoError(err) {
			break
		}

		previous, seen := last[r.Body[0]]
		if seen {
			assert.Equal(previous+1, r.Count, "items from one producer must arrive in send order")
		} else {
			assert.Zero(r.Count)
		}

		last[r.Body[0]] = r.Count
	}

	wg.Wait()
	assert.Zero(q.Len())
}

func testCopyIsolation(t *testing.T, capacity int) {
	var (
		assert = assert.New(t)
		q      = newTestQueue[record](t, capacity)
		r      = record{Count: 1}
	)

	copy(r.Body[:], "original")
	assert.NoError(q.TrySend(r))

	r.Count = 2
	copy(r.Body[:], "mutated!")

	peeked, ok := q.Peek()
	assert.True(ok)
	assert.Equal("original", string(peeked.Body[:]))

	peeked.Count = 99
	received, err := q.Receive(clock.NoWait)
	assert.NoError(err)
	assert.Equal(int32(1), received.Count)
	assert.Equal("original", string(received.Body[:]))
}

func testSendBlocksUntilReceive(t *testing.T, capacity int) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		q       = newTestQueue[int](t, capacity)
		results = make(chan error, 2)
	)

	for i := 0; i < capacity; i++ {
		require.NoError(q.TrySend(i))
	}

	go func() { results <- q.Send(100, clock.Forever) }()
	awaitWaiting(t, q, 1, 0)
	go func() { results <- q.Send(200, clock.Forever) }()
	awaitWaiting(t, q, 2, 0)

	frame := intc.NewFrame(0)
	v, ok, woken := q.ReceiveFromISR(frame)
	assert.True(ok)
	assert.True(woken, "receiving from a full queue admits a blocked sender")
	assert.True(frame.Yielded())
	assert.Equal(0, v)
	assert.Equal(capacity, q.Len())

	for i := 1; i < capacity; i++ {
		v, err := q.Receive(clock.NoWait)
		assert.NoError(err)
		assert.Equal(i, v)
	}

	for _, expected := range []int{100, 200} {
		v, err := q.Receive(time.Second)
		assert.NoError(err)
		assert.Equal(expected, v)
	}

	for i := 0; i < 2; i++ {
		assert.NoError(<-results)
	}
}

func testReceiveHandoff(t *testing.T, capacity int) {
	var (
		assert  = assert.New(t)
		q       = newTestQueue[string](t, capacity)
		results = make(chan string, 2)
	)

	for i := 0; i < 2; i++ {
		go func() {
			v, err := q.ReceiveCtx(context.Background())
			if assert.NoError(err) {
				results <- v
			}
		}()

		awaitWaiting(t, q, 0, i+1)
	}

	frame := intc.NewFrame(1)
	woken, err := q.SendFromISR(frame, "first")
	assert.True(woken)
	assert.NoError(err)
	assert.True(frame.Yielded())
	assert.Equal("first", <-results)
	assert.Zero(q.Len(), "a value handed to a receiver never occupies a slot")

	assert.NoError(q.SendCtx(context.Background(), "second"))
	assert.Equal("second", <-results)

	woken, err = q.SendFromISR(intc.NewFrame(1), "queued")
	assert.False(woken)
	assert.NoError(err)
	assert.Equal(1, q.Len())
}

func testTimeouts(t *testing.T, capacity int) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		c       = clocktest.NewManual(time.Now())
		q       = newTestQueue[int](t, capacity, WithClock(c))
		result  = make(chan error, 1)
	)

	go func() {
		_, err := q.Receive(50 * time.Millisecond)
		result <- err
	}()

	awaitWaiting(t, q, 0, 1)
	require.True(c.AwaitPending(1, time.Second))
	c.Advance(49 * time.Millisecond)

	select {
	case err := <-result:
		assert.Fail("the receive returned before its timeout", "%v", err)
	case <-time.After(20 * time.Millisecond):
	}

	c.Advance(time.Millisecond)
	assert.ErrorIs(<-result, xerrors.ErrTimeout)
	awaitWaiting(t, q, 0, 0)

	// the abandoned receiver must not consume this item
	require.NoError(q.TrySend(7))
	assert.Equal(1, q.Len())

	for q.Spaces() > 0 {
		require.NoError(q.TrySend(8))
	}

	go func() {
		result <- q.Send(9, 50*time.Millisecond)
	}()

	awaitWaiting(t, q, 1, 0)
	require.True(c.AwaitPending(1, time.Second))
	c.Advance(50 * time.Millisecond)
	assert.ErrorIs(<-result, xerrors.ErrTimeout)
	awaitWaiting(t, q, 0, 0)
	assert.Equal(capacity, q.Len())

	v, err := q.Receive(clock.NoWait)
	assert.NoError(err)
	assert.Equal(7, v)
}

func testCancel(t *testing.T, capacity int) {
	var (
		assert      = assert.New(t)
		q           = newTestQueue[int](t, capacity)
		ctx, cancel = context.WithCancel(context.Background())
		result      = make(chan error, 1)
	)

	go func() {
		_, err := q.ReceiveCtx(ctx)
		result <- err
	}()

	awaitWaiting(t, q, 0, 1)
	cancel()
	assert.ErrorIs(<-result, context.Canceled)
	awaitWaiting(t, q, 0, 0)
}

func testReset(t *testing.T, capacity int) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		q       = newTestQueue[int](t, capacity)
		result  = make(chan error, 1)
	)

	for i := 0; i < capacity; i++ {
		require.NoError(q.TrySend(i))
	}

	go func() { result <- q.Send(-1, clock.Forever) }()
	awaitWaiting(t, q, 1, 0)

	assert.NoError(q.Reset())
	assert.NoError(<-result)
	assert.Equal(1, q.Len())

	v, ok := q.Peek()
	assert.True(ok)
	assert.Equal(-1, v)
}

func testClose(t *testing.T, capacity int) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		q       = newTestQueue[int](t, capacity)
		results = make(chan error, 1)
	)

	go func() {
		_, err := q.Receive(clock.Forever)
		results <- err
	}()

	awaitWaiting(t, q, 0, 1)
	require.NoError(q.Close())
	assert.ErrorIs(<-results, xerrors.ErrClosed)

	assert.ErrorIs(q.Close(), xerrors.ErrClosed)
	assert.ErrorIs(q.TrySend(1), xerrors.ErrClosed)
	assert.ErrorIs(q.Reset(), xerrors.ErrClosed)
	_, err := q.Receive(clock.NoWait)
	assert.ErrorIs(err, xerrors.ErrClosed)
	_, ok := q.Peek()
	assert.False(ok)

	_, err = q.SendFromISR(intc.NewFrame(0), 1)
	assert.ErrorIs(err, xerrors.ErrClosed)
}

func TestQueue(t *testing.T) {
	for _, c := range []int{1, 2, 5} {
		c := c
		t.Run("capacity="+strconv.Itoa(c), func(t *testing.T) {
			t.Run("Capacity", func(t *testing.T) { testCapacity(t, c) })
			t.Run("FIFOConcurrent", func(t *testing.T) { testFIFOConcurrent(t, c) })
			t.Run("CopyIsolation", func(t *testing.T) { testCopyIsolation(t, c) })
			t.Run("SendBlocksUntilReceive", func(t *testing.T) { testSendBlocksUntilReceive(t, c) })
			t.Run("ReceiveHandoff", func(t *testing.T) { testReceiveHandoff(t, c) })
			t.Run("Timeouts", func(t *testing.T) { testTimeouts(t, c) })
			t.Run("Cancel", func(t *testing.T) { testCancel(t, c) })
			t.Run("Reset", func(t *testing.T) { testReset(t, c) })
			t.Run("Close", func(t *testing.T) { testClose(t, c) })
		})
	}
}

func TestIndependentQueues(t *testing.T) {
	var (
		assert   = assert.New(t)
		commands = newTestQueue[int](t, 1)
		replies  = newTestQueue[int](t, 1)
	)

	assert.NoError(commands.TrySend(1))
	assert.ErrorIs(commands.TrySend(2), xerrors.ErrCapacityExceeded)
	assert.NoError(replies.TrySend(3))
	assert.Zero(commands.Spaces())
	assert.Zero(replies.Spaces())

	v, ok := replies.TryReceive()
	assert.True(ok)
	assert.Equal(3, v)
	assert.Equal(1, commands.Len())
}

func TestMeasures(t *testing.T) {
	var (
		assert   = assert.New(t)
		measures = Measures{
			Depth:    generic.NewGauge("depth"),
			Sent:     generic.NewCounter("sent"),
			Received: generic.NewCounter("received"),
			Full:     generic.NewCounter("full"),
		}

		q = newTestQueue[int](t, 2, WithMeasures(measures))
	)

	assert.NoError(q.TrySend(1))
	assert.NoError(q.TrySend(2))
	assert.Error(q.TrySend(3))
	_, ok := q.TryReceive()
	assert.True(ok)

	assert.Equal(1.0, measures.Depth.(*generic.Gauge).Value())
	assert.Equal(2.0, measures.Sent.(*generic.Counter).Value())
	assert.Equal(1.0, measures.Received.(*generic.Counter).Value())
	assert.Equal(1.0, measures.Full.(*generic.Counter).Value())
}
