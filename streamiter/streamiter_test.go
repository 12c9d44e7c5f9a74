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

package streamiter_test

import (
	"errors"

	"github.com/rivulabs/rivulet/internal/testutil"
	"github.com/rivulabs/rivulet/iterator"
	"github.com/rivulabs/rivulet/stream"
	"github.com/rivulabs/rivulet/streamiter"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// iteration captures the outcome of one Next call issued on its own goroutine.
type iteration struct {
	value string
	err   error
}

// nextAsync issues one Next call asynchronously and returns the channel its outcome arrives on.
func nextAsync(it *streamiter.Iterator[string]) <-chan iteration {
	results := make(chan iteration, 1)
	go func() {
		value, err := it.Next()
		results <- iteration{value: value, err: err}
	}()
	return results
}

// readableListeners returns a poll function over the number of "readable" listeners currently
// attached to source, for waiting until a Next call has actually suspended.
func readableListeners(source *testutil.ScriptedSource[string]) func() int {
	return func() int {
		return source.ListenerCount(stream.EventReadable)
	}
}

var _ = Describe("Iterator", func() {
	Describe("pulling data", func() {
		It("suspends until the source becomes readable, then returns what the read produced", func() {
			source := testutil.NewScriptedSource(testutil.ReadResult[string]{Value: "abc", OK: true})
			it := streamiter.New[string](source)

			results := nextAsync(it)
			Eventually(readableListeners(source)).Should(Equal(1))
			source.Emit(stream.EventReadable, nil)

			var result iteration
			Eventually(results).Should(Receive(&result))
			Expect(result.err).ShouldNot(HaveOccurred())
			Expect(result.value).Should(Equal("abc"))
		})

		It("issues reads with no size hint by default", func() {
			source := testutil.NewScriptedSource(testutil.ReadResult[string]{Value: "abc", OK: true})
			it := streamiter.New[string](source)

			results := nextAsync(it)
			Eventually(readableListeners(source)).Should(Equal(1))
			source.Emit(stream.EventReadable, nil)
			Eventually(results).Should(Receive())

			Expect(source.ReadSizes()).Should(Equal([]int{0}))
		})

		It("issues every read with the configured size hint", func() {
			source := testutil.NewScriptedSource(testutil.ReadResult[string]{Value: "abc", OK: true})
			it := streamiter.New[string](source, streamiter.WithSize(16))

			results := nextAsync(it)
			Eventually(readableListeners(source)).Should(Equal(1))
			source.Emit(stream.EventReadable, nil)
			Eventually(results).Should(Receive())

			Expect(source.ReadSizes()).Should(Equal([]int{16}))
		})

		It("re-suspends quietly when a readability announcement yields no data", func() {
			source := testutil.NewScriptedSource(
				// The first announcement turns out to be stale.
				testutil.ReadResult[string]{},
				testutil.ReadResult[string]{Value: "late", OK: true},
			)
			it := streamiter.New[string](source)

			results := nextAsync(it)
			Eventually(readableListeners(source)).Should(Equal(1))
			source.Emit(stream.EventReadable, nil)

			// The empty read sends the call back to waiting; nothing surfaces to the consumer.
			Eventually(source.ReadCount).Should(Equal(1))
			Consistently(results).ShouldNot(Receive())

			Eventually(readableListeners(source)).Should(Equal(1))
			source.Emit(stream.EventReadable, nil)

			var result iteration
			Eventually(results).Should(Receive(&result))
			Expect(result.err).ShouldNot(HaveOccurred())
			Expect(result.value).Should(Equal("late"))
		})
	})

	Describe("end of stream", func() {
		It("reports Done to a suspended call when the source ends", func() {
			source := testutil.NewScriptedSource[string]()
			it := streamiter.New[string](source)

			results := nextAsync(it)
			// The lifetime end subscription plus the raced "until end" wait.
			Eventually(func() int { return source.ListenerCount(stream.EventEnd) }).Should(Equal(2))
			source.Emit(stream.EventEnd, nil)

			var result iteration
			Eventually(results).Should(Receive(&result))
			Expect(result.err).Should(Equal(iterator.Done))
		})

		It("keeps reporting Done on every later call", func() {
			source := testutil.NewScriptedSource[string]()
			it := streamiter.New[string](source)

			source.Emit(stream.EventEnd, nil)

			for i := 0; i < 3; i++ {
				_, err := it.Next()
				Expect(err).Should(Equal(iterator.Done))
			}
			Expect(source.ReadCount()).Should(BeZero())
		})
	})

	Describe("source failure", func() {
		It("fails every suspended call with the source's error value", func() {
			source := testutil.NewScriptedSource[string]()
			it := streamiter.New[string](source)
			boom := errors.New("boom")

			first := nextAsync(it)
			second := nextAsync(it)
			Eventually(readableListeners(source)).Should(Equal(2))

			source.Emit(stream.EventError, boom)

			var r1, r2 iteration
			Eventually(first).Should(Receive(&r1))
			Eventually(second).Should(Receive(&r2))
			Expect(r1.err).Should(BeIdenticalTo(boom))
			Expect(r2.err).Should(BeIdenticalTo(boom))

			// A later call fails identically and immediately, without subscribing to anything.
			_, err := it.Next()
			Expect(err).Should(BeIdenticalTo(boom))
			Expect(source.ListenerCount(stream.EventReadable)).Should(BeZero())
		})

		It("keeps failing with the same error on every later call", func() {
			source := testutil.NewScriptedSource[string]()
			it := streamiter.New[string](source)
			boom := errors.New("boom")

			source.Emit(stream.EventError, boom)

			for i := 0; i < 3; i++ {
				_, err := it.Next()
				Expect(err).Should(BeIdenticalTo(boom))
			}
		})

		It("lets a failure take over even after the source ended", func() {
			source := testutil.NewScriptedSource[string]()
			it := streamiter.New[string](source)
			boom := errors.New("boom")

			source.Emit(stream.EventEnd, nil)
			source.Emit(stream.EventError, boom)

			_, err := it.Next()
			Expect(err).Should(BeIdenticalTo(boom))
		})

		It("coerces a non-error failure payload into an error", func() {
			source := testutil.NewScriptedSource[string]()
			it := streamiter.New[string](source)

			source.Emit(stream.EventError, "wire torn")

			_, err := it.Next()
			Expect(err).Should(MatchError("stream error: wire torn"))
		})
	})

	Describe("listener bookkeeping", func() {
		It("returns listener registrations to baseline after a call resolves", func() {
			source := testutil.NewScriptedSource(testutil.ReadResult[string]{Value: "abc", OK: true})
			it := streamiter.New[string](source)

			endBaseline := source.ListenerCount(stream.EventEnd)
			errorBaseline := source.ListenerCount(stream.EventError)

			results := nextAsync(it)
			Eventually(readableListeners(source)).Should(Equal(1))
			Expect(source.ListenerCount(stream.EventEnd)).Should(Equal(endBaseline + 1))

			source.Emit(stream.EventReadable, nil)
			Eventually(results).Should(Receive())

			Expect(source.ListenerCount(stream.EventReadable)).Should(BeZero())
			Expect(source.ListenerCount(stream.EventEnd)).Should(Equal(endBaseline))
			Expect(source.ListenerCount(stream.EventError)).Should(Equal(errorBaseline))
		})
	})

	Describe("over a Buffer source", func() {
		It("drains pushed chunks and then reports Done, repeatedly", func() {
			buffer := stream.NewBuffer[string]()
			it := streamiter.New[string](buffer)

			Expect(buffer.Push("abc")).Should(Succeed())

			value, err := it.Next()
			Expect(err).ShouldNot(HaveOccurred())
			Expect(value).Should(Equal("abc"))

			buffer.End()

			_, err = it.Next()
			Expect(err).Should(Equal(iterator.Done))
			_, err = it.Next()
			Expect(err).Should(Equal(iterator.Done))
		})

		It("never surfaces chunks queued behind a failure", func() {
			buffer := stream.NewBuffer[string]()
			it := streamiter.New[string](buffer)
			boom := errors.New("boom")

			Expect(buffer.Push("lost")).Should(Succeed())
			buffer.Fail(boom)

			_, err := it.Next()
			Expect(err).Should(BeIdenticalTo(boom))
		})
	})
})
