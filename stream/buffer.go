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

package stream

import (
	"sync"

	"github.com/rivulabs/rivulet/concurrent"
	"github.com/rivulabs/rivulet/events"
)

// Buffer is an in-memory Readable fed by a producer. Push queues a chunk and announces
// EventReadable; End and Fail settle the source with their terminal event. Chunks come back out
// of Read one at a time with producer-defined granularity, so the size hint is ignored.
//
// EventEnd is deferred until the consumer has drained everything queued before End was called.
// Subscribe before driving the producer: terminal events emitted with nobody attached are not
// replayed.
type Buffer[T any] struct {
	*events.Emitter

	queue *concurrent.Queue[T]

	mu         sync.Mutex
	ended      bool
	failed     bool
	endEmitted bool
}

var _ Readable[int] = (*Buffer[int])(nil)

// NewBuffer creates an empty, open Buffer.
func NewBuffer[T any]() *Buffer[T] {
	return &Buffer[T]{
		Emitter: events.NewEmitter(),
		queue:   concurrent.NewQueue[T](),
	}
}

// Push queues v for the consumer and emits EventReadable. It fails with concurrent.ErrQueueClosed
// once the buffer has been ended or failed.
func (b *Buffer[T]) Push(v T) error {
	if err := b.queue.Push(v); err != nil {
		return err
	}
	b.Emit(EventReadable, nil)
	return nil
}

// End marks the producer side as finished. EventEnd is emitted as soon as the queue is empty,
// which may be immediately or from a later Read that finds the buffer drained. Calling End after
// End or Fail is a no-op.
func (b *Buffer[T]) End() {
	b.mu.Lock()
	if b.ended || b.failed {
		b.mu.Unlock()
		return
	}
	b.ended = true
	b.mu.Unlock()

	b.queue.Close()
	b.maybeEmitEnd()
}

// Fail settles the buffer with err, emitting EventError immediately. Chunks still queued are never
// delivered. Calling Fail after End or Fail is a no-op.
func (b *Buffer[T]) Fail(err error) {
	b.mu.Lock()
	if b.ended || b.failed {
		b.mu.Unlock()
		return
	}
	b.failed = true
	b.mu.Unlock()

	b.queue.Close()
	b.Emit(EventError, err)
}

// Read implements Readable. The size hint is ignored: chunks keep the granularity their producer
// pushed them with.
func (b *Buffer[T]) Read(int) (T, bool) {
	v, ok := b.queue.Poll()
	b.maybeEmitEnd()
	return v, ok
}

// On attaches a listener like events.Emitter.On does, and additionally re-announces EventReadable
// when data is already queued, so a consumer that subscribes after Push is not stranded waiting
// for a notification that fired before it was listening.
func (b *Buffer[T]) On(event string, fn events.Listener) *events.Registration {
	reg := b.Emitter.On(event, fn)
	b.replayReadable(event)
	return reg
}

// Once attaches a single-fire listener like events.Emitter.Once does, with the same EventReadable
// re-announcement as On.
func (b *Buffer[T]) Once(event string, fn events.Listener) *events.Registration {
	reg := b.Emitter.Once(event, fn)
	b.replayReadable(event)
	return reg
}

func (b *Buffer[T]) replayReadable(event string) {
	if event == EventReadable && b.queue.Len() > 0 {
		// Asynchronously, so the subscriber never observes its own listener firing before the
		// subscription call returned.
		go b.Emit(EventReadable, nil)
	}
}

func (b *Buffer[T]) maybeEmitEnd() {
	b.mu.Lock()
	fire := b.ended && !b.endEmitted && b.queue.Len() == 0
	if fire {
		b.endEmitted = true
	}
	b.mu.Unlock()

	if fire {
		b.Emit(EventEnd, nil)
	}
}
