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

// Package streamiter adapts a push-based stream.Readable into a pull-based iterator. The consumer
// asks for one chunk at a time with Next; the adapter subscribes to source events only while a
// call is actually waiting, and detaches them again before the call returns.
//
// An Iterator tracks the source through four states. While the source is not known to be readable,
// Next races two single-fire waits, "until readable" against "until end", and re-evaluates once
// either fires. While readable, Next pulls directly from the source; an empty read simply means
// the readability notification was stale, and Next goes back to waiting. The two terminal states
// are sticky: after the source ends every call returns iterator.Done, and after the source fails
// every suspended and future call returns the source's error unchanged.
package streamiter

import (
	"fmt"
	"sync"

	"github.com/rivulabs/rivulet/concurrent"
	"github.com/rivulabs/rivulet/iterator"
	"github.com/rivulabs/rivulet/stream"
)

// iterationState tracks what the adapter currently knows about its source.
type iterationState int

const (
	// The source has no data known to be available; a Next call must wait for notifications.
	stateNotReadable iterationState = iota

	// The source announced readability that has not been consumed or invalidated yet.
	stateReadable

	// The source is exhausted. Terminal, except that a late failure may still override it.
	stateEnded

	// The source failed. Terminal.
	stateErrored
)

// config carries the creation options for an Iterator.
type config struct {
	size int
}

// An Option customizes an Iterator at creation time.
type Option func(*config)

// WithSize makes every read request ask the source for exactly size units. Without this option
// reads are issued with no size hint and the source's default read policy applies.
func WithSize(size int) Option {
	return func(cfg *config) {
		cfg.size = size
	}
}

// Iterator is the pull-side adapter over one push-based source. Create one with New and consume it
// with Next (or range over All).
//
// An Iterator assumes a single consumer: a new Next call must not be issued before the previous
// one returned. Several calls suspended at once are still failed correctly on a source error, but
// the order in which concurrent calls observe data is unspecified.
type Iterator[T any] struct {
	source stream.Readable[T]
	size   int

	// mu guards state, err and waiters. Signals are always fired outside of it.
	mu      sync.Mutex
	state   iterationState
	err     error
	waiters map[*concurrent.Signal]struct{}
}

// New wraps source into an Iterator. The returned Iterator immediately attaches its two lifetime
// subscriptions, one for EventEnd and one for EventError, so terminal events are observed even
// while no Next call is in flight. Wrap the source before driving it: terminal events emitted
// beforehand go unseen.
//
// The Iterator takes over the source: no other component may read from it or subscribe on its
// behalf.
func New[T any](source stream.Readable[T], opts ...Option) *Iterator[T] {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	it := &Iterator[T]{
		source:  source,
		size:    cfg.size,
		waiters: make(map[*concurrent.Signal]struct{}),
	}

	source.Once(stream.EventEnd, func(interface{}) {
		it.mu.Lock()
		if it.state != stateErrored {
			it.state = stateEnded
		}
		it.mu.Unlock()
	})

	source.Once(stream.EventError, func(payload interface{}) {
		err, ok := payload.(error)
		if !ok {
			err = fmt.Errorf("stream error: %v", payload)
		}
		it.fail(err)
	})

	return it
}

// Next returns the next chunk the source produces. It suspends the calling goroutine while the
// source has nothing available, returns iterator.Done forever once the source has ended, and
// returns the source's failure forever once the source has errored.
func (it *Iterator[T]) Next() (T, error) {
	var zero T

	for {
		it.mu.Lock()
		state, err := it.state, it.err
		it.mu.Unlock()

		switch state {
		case stateEnded:
			return zero, iterator.Done

		case stateErrored:
			return zero, err

		case stateReadable:
			if value, ok := it.source.Read(it.size); ok {
				return value, nil
			}

			// The readability announcement was stale. Fall back to waiting, unless an event
			// listener moved the state on during the read.
			it.mu.Lock()
			if it.state == stateReadable {
				it.state = stateNotReadable
			}
			it.mu.Unlock()

		case stateNotReadable:
			waitErr := it.suspend()
			if waitErr != nil {
				return zero, waitErr
			}
		}
	}
}

// suspend parks the caller until the source reports either readability or its end, whichever
// comes first. Both waits are unconditionally cleaned up before suspend returns, the loser of the
// race as well as the winner, so no listener outlives the call that registered it.
func (it *Iterator[T]) suspend() error {
	untilReadable := it.until(stream.EventReadable, stateReadable)
	untilEnd := it.until(stream.EventEnd, stateEnded)
	defer untilReadable.cleanup()
	defer untilEnd.cleanup()

	// The source may have settled between the state check in Next and the subscriptions above;
	// its lifetime listeners recorded that, so consult the state once more before parking.
	it.mu.Lock()
	settled := it.state != stateNotReadable
	it.mu.Unlock()
	if settled {
		return nil
	}

	select {
	case <-untilReadable.signal.Done():
		return untilReadable.signal.Err()
	case <-untilEnd.signal.Done():
		return untilEnd.signal.Err()
	}
}

// fail moves the iterator into its errored state and force-fails every wait currently suspended.
// The first failure wins; it overrides even a previously observed end.
func (it *Iterator[T]) fail(err error) {
	it.mu.Lock()
	it.err = err
	it.state = stateErrored
	pending := it.waiters
	it.waiters = make(map[*concurrent.Signal]struct{})
	it.mu.Unlock()

	for signal := range pending {
		signal.Fire(err)
	}
}
