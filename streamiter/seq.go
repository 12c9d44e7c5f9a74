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
	"iter"

	"github.com/rivulabs/rivulet/iterator"
)

// All returns a sequence over the remaining chunks, so an Iterator can be consumed directly with
// a range statement:
//
//	for chunk, err := range it.All() {
//		if err != nil {
//			return err
//		}
//		process(chunk)
//	}
//
// The sequence stops without yielding anything further once the source ends. A source failure is
// yielded once, as the final pair, with a zero value. Like Next, All assumes a single consumer and
// the returned sequence is single-use.
func (it *Iterator[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			value, err := it.Next()
			if err == iterator.Done {
				return
			}
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !yield(value, nil) {
				return
			}
		}
	}
}
