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

package streamiter

import (
	"github.com/rivulabs/rivulet/concurrent"
)

// A wait pairs a single-fire suspension with the action that tears it down. cleanup detaches the
// event listener if it has not fired yet and withdraws the wait from the error fan-out registry;
// it is safe to call after the signal fired, and calling it twice is harmless.
type wait struct {
	signal  *concurrent.Signal
	cleanup func()
}

// until builds a wait on one emission of the given source event. When the event fires, the
// listener advances the iterator to next (unless a terminal state was reached in the meantime),
// withdraws itself from the fan-out registry and settles the signal successfully. Until then the
// signal stays registered, so a source failure settles it with the error instead.
func (it *Iterator[T]) until(event string, next iterationState) wait {
	signal := concurrent.NewSignal()

	reg := it.source.Once(event, func(interface{}) {
		it.mu.Lock()
		if it.state != stateEnded && it.state != stateErrored {
			it.state = next
		}
		delete(it.waiters, signal)
		it.mu.Unlock()

		signal.Fire(nil)
	})

	it.mu.Lock()
	it.waiters[signal] = struct{}{}
	it.mu.Unlock()

	return wait{
		signal: signal,
		cleanup: func() {
			reg.Remove()

			it.mu.Lock()
			delete(it.waiters, signal)
			it.mu.Unlock()
		},
	}
}
