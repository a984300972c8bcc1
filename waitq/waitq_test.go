package waitq

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isReady[T any](w *Waiter[T]) bool {
	select {
	case <-w.Ready():
		return true
	default:
		return false
	}
}

func testListFIFO(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		l      List[int]
		first  = NewWaiter[int]("first")
		second = NewWaiter[int]("second")
		third  = NewWaiter[int]("third")
	)

	l.Enqueue(first)
	l.Enqueue(second)
	l.Enqueue(third)
	assert.Equal(3, l.Len())
	assert.Equal([]string{"first", "second", "third"}, l.Owners())

	front, ok := l.Front()
	require.True(ok)
	assert.Equal(first, front)

	w, ok := l.Wake(10)
	require.True(ok)
	assert.Equal(first, w)
	assert.True(isReady(first))
	assert.Equal(10, first.Value())
	assert.NoError(first.Err())
	assert.False(isReady(second))

	w, ok = l.Wake(20)
	require.True(ok)
	assert.Equal(second, w)
	assert.Equal(20, second.Value())
	assert.Equal(1, l.Len())
}

func testListRemove(t *testing.T) {
	var (
		assert = assert.New(t)

		l      List[string]
		first  = NewWaiter[string]("first")
		second = NewWaiter[string]("second")
	)

	l.Enqueue(first)
	l.Enqueue(second)

	assert.True(l.Remove(second))
	assert.False(l.Remove(second))
	assert.Equal(1, l.Len())

	_, ok := l.Wake("delivered")
	assert.True(ok)
	assert.False(l.Remove(first), "a released waiter can no longer be removed")
	assert.True(isReady(first))
	assert.False(isReady(second))
}

func testListRelease(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		l      List[int]
		sender = NewSender("sender", 42)
	)

	_, ok := l.Release()
	assert.False(ok)

	l.Enqueue(sender)
	front, ok := l.Front()
	require.True(ok)
	assert.Equal(42, front.Value())

	w, ok := l.Release()
	require.True(ok)
	assert.Equal(sender, w)
	assert.Equal(42, w.Value())
	assert.True(isReady(sender))
	assert.Equal("sender", sender.Owner())
}

func testListDrain(t *testing.T) {
	var (
		assert  = assert.New(t)
		l       List[int]
		closed  = errors.New("closed")
		waiters = []*Waiter[int]{NewWaiter[int]("a"), NewWaiter[int]("b")}
	)

	for _, w := range waiters {
		l.Enqueue(w)
	}

	assert.Equal(2, l.Drain(closed))
	assert.Zero(l.Len())
	for _, w := range waiters {
		assert.True(isReady(w))
		assert.Equal(closed, w.Err())
	}

	assert.Zero(l.Drain(closed))
}

func testListEmpty(t *testing.T) {
	var (
		assert = assert.New(t)
		l      List[int]
	)

	_, ok := l.Front()
	assert.False(ok)
	_, ok = l.Wake(1)
	assert.False(ok)
	assert.Empty(l.Owners())
}

func TestList(t *testing.T) {
	t.Run("FIFO", testListFIFO)
	t.Run("Remove", testListRemove)
	t.Run("Release", testListRelease)
	t.Run("Drain", testListDrain)
	t.Run("Empty", testListEmpty)
}
