/**
 * Copyright (c) 2025, The Rivulet Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package concurrent

import (
	"errors"
	"sync"
)

// ErrQueueClosed is returned by Push to indicate the queue cannot accept the new element because
// it has been closed.
var ErrQueueClosed = errors.New("queue: closed")

// Queue is a thread-safe FIFO of T. Elements are added with Push and removed with Poll; closing
// the queue stops it from accepting new elements while anything already queued stays available.
// The zero value is an open, empty queue.
type Queue[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool
}

// NewQueue creates an open, empty Queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Push appends v at the tail of the queue. It returns ErrQueueClosed if the queue has been closed.
func (q *Queue[T]) Push(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	q.items = append(q.items, v)
	return nil
}

// Poll removes and returns the element at the head of the queue. It reports false when the queue
// is currently empty; this says nothing about whether the queue is closed.
func (q *Queue[T]) Poll() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.items) == 0 {
		return zero, false
	}

	head := q.items[0]
	// Clear the vacated slot so the queue does not pin the element.
	q.items[0] = zero
	q.items = q.items[1:]
	return head, true
}

// Len returns the number of queued elements.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops the queue from accepting new elements. Elements queued before the close remain
// available through Poll. Closing an already-closed queue is a no-op.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}
