// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package waitq

import (
	"github.com/gammazero/deque"
)

// Waiter is a single blocked context.  The value slot carries whatever the hand-off transfers:
// the item offered by a blocked sender, or the item delivered to a blocked receiver.
type Waiter[T any] struct {
	owner string
	ready chan struct{}
	value T
	err   error
}

// NewWaiter creates a Waiter for the given owner, which is usually a task identifier.
func NewWaiter[T any](owner string) *Waiter[T] {
	return &Waiter[T]{
		owner: owner,
		ready: make(chan struct{}, 1),
	}
}

// NewSender creates a Waiter that offers v to whichever context dequeues it.
func NewSender[T any](owner string, v T) *Waiter[T] {
	w := NewWaiter[T](owner)
	w.value = v
	return w
}

// Owner returns the identifier this waiter was created with.
func (w *Waiter[T]) Owner() string {
	return w.owner
}

// Ready is signaled exactly once, when this waiter is released from its List.
func (w *Waiter[T]) Ready() <-chan struct{} {
	return w.ready
}

// Value returns the value slot.  For a released receiver this is the delivered item.
func (w *Waiter[T]) Value() T {
	return w.value
}

// Err returns the error this waiter was released with, if any.
func (w *Waiter[T]) Err() error {
	return w.err
}

func (w *Waiter[T]) signal() {
	w.ready <- struct{}{}
}

// List is a FIFO of waiters.  The zero value is an empty list ready to use.
type List[T any] struct {
	waiters deque.Deque[*Waiter[T]]
}

// Len returns the number of waiters still queued.
func (l *List[T]) Len() int {
	return l.waiters.Len()
}

// Enqueue appends w to the back of this list.
func (l *List[T]) Enqueue(w *Waiter[T]) {
	l.waiters.PushBack(w)
}

// Front returns the waiter that would be released next without releasing it.
func (l *List[T]) Front() (*Waiter[T], bool) {
	if l.waiters.Len() == 0 {
		return nil, false
	}

	return l.waiters.At(0), true
}

// Wake releases the front waiter, storing v in its value slot.  If the list is empty, this
// method returns false.
func (l *List[T]) Wake(v T) (*Waiter[T], bool) {
	if l.waiters.Len() == 0 {
		return nil, false
	}

	w := l.waiters.PopFront()
	w.value = v
	w.signal()
	return w, true
}

// Release releases the front waiter without touching its value slot.  This is how a blocked
// sender is admitted after its offered value has been consumed.
func (l *List[T]) Release() (*Waiter[T], bool) {
	if l.waiters.Len() == 0 {
		return nil, false
	}

	w := l.waiters.PopFront()
	w.signal()
	return w, true
}

// Remove takes w out of this list, which is what a waiter does when its wait budget runs out.
// If w is no longer queued, this method returns false and w has already been released.
func (l *List[T]) Remove(w *Waiter[T]) bool {
	for i := 0; i < l.waiters.Len(); i++ {
		if l.waiters.At(i) == w {
			l.waiters.Remove(i)
			return true
		}
	}

	return false
}

// Drain releases every queued waiter with the given error, returning how many were released.
func (l *List[T]) Drain(err error) int {
	count := 0
	for l.waiters.Len() > 0 {
		w := l.waiters.PopFront()
		w.err = err
		w.signal()
		count++
	}

	return count
}

// Owners returns the owners of the queued waiters, front first.
func (l *List[T]) Owners() []string {
	owners := make([]string, 0, l.waiters.Len())
	for i := 0; i < l.waiters.Len(); i++ {
		owners = append(owners, l.waiters.At(i).owner)
	}

	return owners
}
