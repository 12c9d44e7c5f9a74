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

// Package events provides a small event dispatcher with named events and ordered listener
// delivery. It backs the push side of Rivulet's stream sources: a source emits "readable", "end"
// and "error" notifications through an Emitter, and subscribers attach listeners with either
// fire-until-removed (On) or fire-once (Once) semantics.
package events

import "sync"

// Listener is a callback attached to an Emitter for a named event. The payload is whatever value
// the emitting side passed to Emit; events that carry no data pass nil.
type Listener func(payload interface{})

// Emitter dispatches named events to attached listeners. Listeners for an event are invoked in the
// order they were attached. An Emitter is safe for concurrent use; the zero value is ready to use.
type Emitter struct {
	mu        sync.Mutex
	listeners map[string][]*Registration
}

// A Registration represents one listener attached to an Emitter. It is handed back by On and Once
// so the listener can later be detached without relying on function identity.
type Registration struct {
	emitter *Emitter
	event   string
	fn      Listener
	once    bool

	// Guarded by emitter.mu. A registration becomes detached either explicitly via Remove or
	// implicitly when a once-listener fires.
	detached bool
}

// NewEmitter creates an empty Emitter.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// Subscriber is the subset of Emitter through which subscriptions are made. Sources expose this
// interface to their consumers while keeping Emit to themselves.
type Subscriber interface {
	// On attaches a listener that fires on every emission of event until removed.
	On(event string, fn Listener) *Registration

	// Once attaches a listener that fires on the next emission of event and is then detached.
	Once(event string, fn Listener) *Registration

	// ListenerCount returns the number of listeners currently attached for event.
	ListenerCount(event string) int
}

var _ Subscriber = (*Emitter)(nil)

// On attaches fn to fire on every emission of event until its registration is removed.
func (e *Emitter) On(event string, fn Listener) *Registration {
	return e.attach(event, fn, false)
}

// Once attaches fn to fire on the next emission of event only. The registration is detached before
// fn runs, so re-attaching from within the listener is well-defined.
func (e *Emitter) Once(event string, fn Listener) *Registration {
	return e.attach(event, fn, true)
}

func (e *Emitter) attach(event string, fn Listener, once bool) *Registration {
	reg := &Registration{
		emitter: e,
		event:   event,
		fn:      fn,
		once:    once,
	}

	e.mu.Lock()
	if e.listeners == nil {
		e.listeners = make(map[string][]*Registration)
	}
	e.listeners[event] = append(e.listeners[event], reg)
	e.mu.Unlock()

	return reg
}

// Emit delivers payload to every listener attached for event, in attachment order. The listener
// set is snapshotted up front: listeners attached or removed by a running listener take effect on
// the next emission.
func (e *Emitter) Emit(event string, payload interface{}) {
	e.mu.Lock()
	attached := e.listeners[event]
	firing := make([]*Registration, 0, len(attached))
	var remaining []*Registration
	for _, reg := range attached {
		if reg.detached {
			continue
		}
		firing = append(firing, reg)
		if reg.once {
			reg.detached = true
		} else {
			remaining = append(remaining, reg)
		}
	}
	if len(remaining) == 0 {
		delete(e.listeners, event)
	} else {
		e.listeners[event] = remaining
	}
	e.mu.Unlock()

	for _, reg := range firing {
		reg.fn(payload)
	}
}

// ListenerCount implements Subscriber.
func (e *Emitter) ListenerCount(event string) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	count := 0
	for _, reg := range e.listeners[event] {
		if !reg.detached {
			count++
		}
	}
	return count
}

// Remove detaches the listener from its Emitter. It is idempotent and remains a safe no-op after a
// once-listener has already fired.
func (r *Registration) Remove() {
	e := r.emitter

	e.mu.Lock()
	defer e.mu.Unlock()

	if r.detached {
		return
	}
	r.detached = true

	attached := e.listeners[r.event]
	for i, reg := range attached {
		if reg == r {
			e.listeners[r.event] = append(attached[:i:i], attached[i+1:]...)
			break
		}
	}
	if len(e.listeners[r.event]) == 0 {
		delete(e.listeners, r.event)
	}
}
