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

// Package testutil provides test doubles shared by the Rivulet test suites.
package testutil

import (
	"sync"

	"github.com/rivulabs/rivulet/events"
	"github.com/rivulabs/rivulet/stream"
)

// ReadResult scripts the outcome of one ScriptedSource.Read call.
type ReadResult[T any] struct {
	Value T
	OK    bool
}

// ScriptedSource is a stream.Readable for tests. Events are delivered by calling Emit on the
// embedded Emitter directly, and Read consumes pre-scripted results one per call, recording the
// size hint each call was issued with. Once the script runs out, reads come back empty.
type ScriptedSource[T any] struct {
	*events.Emitter

	mu      sync.Mutex
	results []ReadResult[T]
	sizes   []int
}

var _ stream.Readable[string] = (*ScriptedSource[string])(nil)

// NewScriptedSource creates a ScriptedSource primed with the given read results.
func NewScriptedSource[T any](results ...ReadResult[T]) *ScriptedSource[T] {
	return &ScriptedSource[T]{
		Emitter: events.NewEmitter(),
		results: results,
	}
}

// Script appends further read results to the script.
func (s *ScriptedSource[T]) Script(results ...ReadResult[T]) {
	s.mu.Lock()
	s.results = append(s.results, results...)
	s.mu.Unlock()
}

// Read implements stream.Readable by consuming the next scripted result.
func (s *ScriptedSource[T]) Read(size int) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sizes = append(s.sizes, size)

	if len(s.results) == 0 {
		var zero T
		return zero, false
	}
	next := s.results[0]
	s.results = s.results[1:]
	return next.Value, next.OK
}

// ReadSizes returns the size hints of every Read call seen so far, in call order.
func (s *ScriptedSource[T]) ReadSizes() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	sizes := make([]int, len(s.sizes))
	copy(sizes, s.sizes)
	return sizes
}

// ReadCount returns the number of Read calls seen so far.
func (s *ScriptedSource[T]) ReadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sizes)
}
