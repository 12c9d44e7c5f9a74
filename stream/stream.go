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

// Package stream defines the contract for push-based readable sources: data providers that
// announce progress through events rather than being polled for completion. A source emits
// EventReadable whenever data may be available, exactly one EventEnd when it is exhausted, and
// exactly one EventError (instead of EventEnd) on unrecoverable failure. The package also ships
// Buffer, an in-memory source implementation fed by a producer.
package stream

import "github.com/rivulabs/rivulet/events"

// Event names emitted by a Readable source.
const (
	// EventReadable announces that data may be available for reading. It can fire any number of
	// times, including spuriously: a Read issued in response may still come back empty.
	EventReadable = "readable"

	// EventEnd announces that the source is exhausted. It fires at most once and carries no
	// payload.
	EventEnd = "end"

	// EventError announces an unrecoverable failure. It fires at most once, carries the failure
	// as payload, and is mutually exclusive with EventEnd.
	EventError = "error"
)

// Readable is a push-based source of T chunks. Consumers subscribe to the events above through
// the embedded Subscriber and pull data with Read.
type Readable[T any] interface {
	events.Subscriber

	// Read returns the next chunk of data, if one is currently available. It never blocks:
	// returning false only means nothing is available right now, not that the source has ended.
	// A positive size asks the source for that many units; size <= 0 leaves the amount to the
	// source's default read policy.
	Read(size int) (T, bool)
}
