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

// Package concurrent provides the small synchronization primitives used to bridge push-based event
// delivery onto suspended pull-side callers.
package concurrent

import "sync"

// A Signal is a single-fire notification. It starts unfired; the first call to Fire settles it,
// optionally with a failure value, and closes the channel returned by Done. Every later Fire is a
// no-op, which makes it safe for several independent parties (the event that the waiter is
// interested in, and an error fan-out that force-fails every waiter) to attempt to settle the same
// Signal.
type Signal struct {
	fire sync.Once
	err  error
	done chan struct{}
}

// NewSignal creates an unfired Signal.
func NewSignal() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Fire settles the signal. A nil err marks a successful notification; a non-nil err marks a
// failure. Only the first call has any effect.
func (s *Signal) Fire(err error) {
	s.fire.Do(func() {
		s.err = err
		close(s.done)
	})
}

// Done returns a channel that is closed once the signal has fired.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}

// Err returns the failure the signal fired with, if any. It returns nil while the signal has not
// fired yet, so callers should consult it only after Done is closed.
func (s *Signal) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}
