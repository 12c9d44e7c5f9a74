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

	"github.com/rivulabs/rivulet/stream"
	"github.com/rivulabs/rivulet/streamiter"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("All", func() {
	It("ranges over every chunk and stops at the end of the stream", func() {
		buffer := stream.NewBuffer[string]()
		it := streamiter.New[string](buffer)

		Expect(buffer.Push("a")).Should(Succeed())
		Expect(buffer.Push("b")).Should(Succeed())
		buffer.End()

		var chunks []string
		for chunk, err := range it.All() {
			Expect(err).ShouldNot(HaveOccurred())
			chunks = append(chunks, chunk)
		}
		Expect(chunks).Should(Equal([]string{"a", "b"}))
	})

	It("ranges over nothing for an already-ended source", func() {
		buffer := stream.NewBuffer[string]()
		it := streamiter.New[string](buffer)
		buffer.End()

		for range it.All() {
			Fail("no iteration expected")
		}
	})

	It("yields a terminal failure exactly once, as the final pair", func() {
		buffer := stream.NewBuffer[string]()
		it := streamiter.New[string](buffer)
		boom := errors.New("boom")
		buffer.Fail(boom)

		var pairs int
		for _, err := range it.All() {
			pairs++
			Expect(err).Should(BeIdenticalTo(boom))
		}
		Expect(pairs).Should(Equal(1))
	})

	It("stops pulling when the consumer breaks out", func() {
		buffer := stream.NewBuffer[string]()
		it := streamiter.New[string](buffer)

		Expect(buffer.Push("a")).Should(Succeed())
		Expect(buffer.Push("b")).Should(Succeed())
		buffer.End()

		for chunk, err := range it.All() {
			Expect(err).ShouldNot(HaveOccurred())
			Expect(chunk).Should(Equal("a"))
			break
		}

		// The remainder of the stream is still there for a direct pull.
		chunk, err := it.Next()
		Expect(err).ShouldNot(HaveOccurred())
		Expect(chunk).Should(Equal("b"))
	})
})
