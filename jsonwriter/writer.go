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

// Package jsonwriter drains a pull iterator into streaming JSON output. Values are encoded one at
// a time as they are pulled, so an arbitrarily long iteration is written with bounded memory.
package jsonwriter

import (
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/rivulabs/rivulet/iterator"
)

// Iterator is the pull surface this package consumes: anything with a Next that returns
// iterator.Done at the end of the iteration.
type Iterator[T any] interface {
	Next() (T, error)
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WriteArray drains src and writes every value it produces into w as one JSON array. It stops at
// iterator.Done and returns nil; any other error, from the iterator or from encoding, is returned
// as-is and the output is left incomplete.
func WriteArray[T any](w io.Writer, src Iterator[T]) error {
	stream := json.BorrowStream(w)
	defer json.ReturnStream(stream)

	stream.WriteArrayStart()
	first := true
	for {
		value, err := src.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return err
		}

		if !first {
			stream.WriteMore()
		}
		first = false

		stream.WriteVal(value)
		if stream.Error != nil {
			return stream.Error
		}
	}
	stream.WriteArrayEnd()

	if err := stream.Flush(); err != nil {
		return err
	}
	return stream.Error
}

// WriteLines drains src and writes every value it produces into w as newline-delimited JSON, one
// value per line. Termination and error behavior match WriteArray.
func WriteLines[T any](w io.Writer, src Iterator[T]) error {
	stream := json.BorrowStream(w)
	defer json.ReturnStream(stream)

	for {
		value, err := src.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return err
		}

		stream.WriteVal(value)
		stream.WriteRaw("\n")
		if stream.Error != nil {
			return stream.Error
		}
	}

	if err := stream.Flush(); err != nil {
		return err
	}
	return stream.Error
}
