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
	"fmt"
	"weak"
)

// FutureSource is the producer handle that resolves its paired Future
// exactly once.
//
// The source is the sole strong owner of the future's continuation
// registry. A producer must not capture its own source inside a
// continuation registered on that source's future: that is the one
// cycle the ownership discipline doesn't break for you.
type FutureSource[T any] struct {
	cell *cell[T]
	reg  *registry[T]
	fut  *Future[T]
}

// NewSource returns a source whose future is pending until one of the
// TrySet calls takes effect.
func NewSource[T any]() *FutureSource[T] {
	c := &cell[T]{done: make(chan struct{})}
	r := &registry[T]{}
	return &FutureSource[T]{
		cell: c,
		reg:  r,
		fut:  &Future[T]{cell: c, reg: weak.Make(r)},
	}
}

// NewSourceUntil returns a source whose future fails with ErrCancelled
// as soon as tok cancels, unless the producer resolved it first.
// Cancellation is cooperative: the producer is still responsible for
// noticing the token and ceasing its own work.
func NewSourceUntil[T any](tok *CancelToken) *FutureSource[T] {
	s := NewSource[T]()
	watchCancel(tok, s)
	return s
}

// Future returns the paired observer handle.
func (s *FutureSource[T]) Future() *Future[T] {
	return s.fut
}

// TrySetResult attempts to resolve the future with v, and reports
// whether the call took effect. Only the first TrySetResult or
// TrySetFailure on a source does; producers can safely race multiple
// completion paths and let the winner stand.
//
// If v is itself a future, the outcome is adopted from it instead,
// recursively, per the collapsing rule. The call still reports true:
// the resolution is committed, even though it may become observable
// only once the inner future resolves.
func (s *FutureSource[T]) TrySetResult(v T) bool {
	return s.resolveTo(Val(v))
}

// TrySetFailure attempts to fail the future with err, and reports
// whether the call took effect. A nil err is recorded as ErrNilFailure.
func (s *FutureSource[T]) TrySetFailure(err error) bool {
	if err == nil {
		err = ErrNilFailure
	}
	return s.resolveTo(Err[T](err))
}

// resolveTo is the single entry point for resolution: one caller wins
// the Pending -> Resolving transition and runs the collapsing loop;
// everyone else is reported ineffective.
func (s *FutureSource[T]) resolveTo(res Result[T]) bool {
	if !s.cell.status.StartResolving() {
		return false
	}
	s.collapse(res)
	return true
}

// collapse peels future-of-future nesting one layer at a time until a
// non-future value or a failure is reached, then finishes resolution.
//
// The peeling is iterative on purpose: nesting depth costs loop
// iterations, never stack frames. A pending inner future suspends the
// loop by subscribing to it; the subscription resumes the same loop
// with the inner outcome, so arbitrarily deep asynchronous nesting
// unwinds one resolved layer per step.
func (s *FutureSource[T]) collapse(res Result[T]) {
	for {
		if res == nil {
			res = Empty[T]()
		}

		// a future returned directly as a Result (a Then callback
		// returning its next future).
		if inner, ok := res.(*Future[T]); ok {
			if r, resolved := inner.TryRes(); resolved {
				res = r
				continue
			}
			inner.subscribe(inlineContext{}, s.collapse)
			return
		}

		// a future stored as the result value (nesting across type
		// parameters, e.g. a Future[any] holding a *Future[int]).
		if res.Err() == nil {
			if inner, ok := any(res.Val()).(anyFuture); ok {
				if v, err, resolved := inner.pollAny(); resolved {
					res = convertRes[T](v, err)
					continue
				}
				inner.subscribeAny(func(v any, err error) {
					s.collapse(convertRes[T](v, err))
				})
				return
			}
		}

		break
	}
	s.finish(res)
}

// finish publishes the final outcome: result first, then the terminal
// status, then the done channel, and the registered continuations last.
// Any observer that sees a terminal status can therefore read the
// result, and any continuation that raced the resolution is either in
// the drained list or observes the terminal status itself.
func (s *FutureSource[T]) finish(res Result[T]) {
	c := s.cell
	c.res = res
	if res.Err() != nil {
		c.status.SetFailure()
	} else {
		c.status.SetResult()
	}
	close(c.done)
	s.reg.drain(res)
}

// convertRes rebuilds a typed Result from the untyped view of an inner
// future's outcome.
func convertRes[T any](v any, err error) Result[T] {
	if err != nil {
		if tv, ok := v.(T); ok {
			return ValErr(tv, err)
		}
		return Err[T](err)
	}
	if v == nil {
		return Empty[T]()
	}
	tv, ok := v.(T)
	if !ok {
		return Err[T](fmt.Errorf("%w: got %T", ErrResultType, v))
	}
	return Val(tv)
}
