// Copyright 2025 Ahmad Sameh(asmsh)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package future

import (
	"sync"
	"weak"

	"github.com/asmsh/future/internal/status"
)

// Future is the observer handle for an eventual Result.
//
// A Future holds a strong reference only to the small resolution cell it
// shares with its FutureSource, and a weak reference to the continuation
// registry the source owns. Consuming a future (registering Then, Catch,
// Finally callbacks) therefore never keeps the producer side alive: once
// every strong owner of the FutureSource releases it, the registry and
// every not-yet-fired continuation in it, including any reference cycle
// the captured closures form among themselves, is reclaimed, and the
// future is pending forever (see IsEternallyPending).
//
// The zero value is not usable; futures come from a FutureSource or from
// the WithResult and WithFailure constructors.
type Future[T any] struct {
	cell *cell[T]
	reg  weak.Pointer[registry[T]]
}

// cell is the resolution cell shared between a Future and its source.
// It intentionally holds no closures, so it can't root a cycle.
type cell[T any] struct {
	status status.FutureStatus

	// holds the outcome of the future.
	// written once, before the status turns terminal.
	// don't read it unless the status is known to be terminal.
	res Result[T]

	// closed when the future is resolved.
	// it has one writer, the source's winning resolver call.
	done chan struct{}
}

// continuation links one registered callback with the execution context
// it must run on.
type continuation[T any] struct {
	ec ExecutionContext
	fn func(Result[T])
}

func (c continuation[T]) dispatch(res Result[T]) {
	c.ec.Run(func() { c.fn(res) })
}

// registry is the pending-continuation list. It's strongly owned only by
// the FutureSource, which is the whole point: the closures inside may
// capture futures, tokens, and each other freely, and they all die with
// the source.
type registry[T any] struct {
	mu    sync.Mutex
	fired bool
	subs  []continuation[T]
}

// add appends c, unless the registry has already fired.
func (r *registry[T]) add(c continuation[T]) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fired {
		return false
	}
	r.subs = append(r.subs, c)
	return true
}

// drain fires every registered continuation exactly once.
// Called once, by the winning resolver, after the cell turned terminal.
func (r *registry[T]) drain(res Result[T]) {
	r.mu.Lock()
	r.fired = true
	subs := r.subs
	r.subs = nil
	r.mu.Unlock()

	for _, c := range subs {
		c.dispatch(res)
	}
}

// WithResult returns an already-resolved Future holding v, after
// applying the collapsing rule: if v is itself a future, the returned
// future adopts its eventual outcome instead of storing it as a value.
func WithResult[T any](v T) *Future[T] {
	s := NewSource[T]()
	s.TrySetResult(v)
	return s.Future()
}

// WithFailure returns an already-failed Future holding err.
func WithFailure[T any](err error) *Future[T] {
	s := NewSource[T]()
	s.TrySetFailure(err)
	return s.Future()
}

// IsResolved reports whether the future holds its final outcome.
func (f *Future[T]) IsResolved() bool {
	return status.IsResolved(f.cell.status.Load())
}

// HasResult reports whether the future resolved with a result value.
func (f *Future[T]) HasResult() bool {
	return status.IsResult(f.cell.status.Load())
}

// HasFailure reports whether the future resolved with a failure.
func (f *Future[T]) HasFailure() bool {
	return status.IsFailure(f.cell.status.Load())
}

// State returns the future's current state without blocking.
// Along with Val and Err, it makes Future implement Result.
func (f *Future[T]) State() State {
	s := f.cell.status.Load()
	switch {
	case status.IsResult(s):
		return HasResult
	case status.IsFailure(s):
		return HasFailure
	default:
		return Pending
	}
}

// TryRes returns the future's outcome, if it's already resolved.
func (f *Future[T]) TryRes() (res Result[T], ok bool) {
	if !status.IsResolved(f.cell.status.Load()) {
		return nil, false
	}
	return f.cell.res, true
}

// Done returns a channel that's closed once the future resolves.
// The channel of a future whose source was released unresolved is never
// closed.
func (f *Future[T]) Done() <-chan struct{} {
	return f.cell.done
}

// Wait blocks the calling goroutine until the future resolves.
// It never returns for an eternally pending future; callers that can't
// rule that out should select on Done instead.
func (f *Future[T]) Wait() {
	<-f.cell.done
}

// Res waits for the future to resolve, and returns its outcome.
func (f *Future[T]) Res() Result[T] {
	f.Wait()
	return f.cell.res
}

// Val waits for the future to resolve, and returns its result value,
// or the zero value if it failed.
func (f *Future[T]) Val() T {
	return f.Res().Val()
}

// Err waits for the future to resolve, and returns its failure, or nil.
func (f *Future[T]) Err() error {
	return f.Res().Err()
}

// IsEternallyPending reports whether the future can no longer resolve:
// its source was released without ever setting an outcome.
// Detection relies on the source having been garbage collected, so a
// true result is definitive while a false one may simply be early.
func (f *Future[T]) IsEternallyPending() bool {
	if f.reg.Value() != nil {
		return false
	}
	// the registry is gone; distinguish a source that resolved before it
	// was released from one that never resolved at all.
	return !f.IsResolved()
}

// subscribe arranges for fn to run on ec with the future's outcome.
// If the future is already resolved, fn is scheduled immediately; it's
// still dispatched through ec, never invoked on the registering
// goroutine (unless ec is the inline context).
// If the source is already gone, fn will never run.
func (f *Future[T]) subscribe(ec ExecutionContext, fn func(Result[T])) {
	c := continuation[T]{ec: ec, fn: fn}
	if res, ok := f.TryRes(); ok {
		c.dispatch(res)
		return
	}
	reg := f.reg.Value()
	if reg == nil {
		// the source is gone; the future is pending forever.
		return
	}
	if reg.add(c) {
		return
	}
	// lost the race with resolution: the registry fired while this call
	// was registering, so the outcome is readable now.
	if res, ok := f.TryRes(); ok {
		c.dispatch(res)
	}
}

// anyFuture is the untyped view of a Future, used by the collapsing loop
// to peel nesting across different type parameters.
type anyFuture interface {
	pollAny() (val any, err error, resolved bool)
	subscribeAny(fn func(val any, err error))
}

func (f *Future[T]) pollAny() (val any, err error, resolved bool) {
	res, ok := f.TryRes()
	if !ok {
		return nil, nil, false
	}
	return res.Val(), res.Err(), true
}

func (f *Future[T]) subscribeAny(fn func(val any, err error)) {
	f.subscribe(inlineContext{}, func(res Result[T]) {
		fn(res.Val(), res.Err())
	})
}
