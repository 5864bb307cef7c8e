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

// CallOption configures a single continuation registration.
type CallOption func(*callConf)

type callConf struct {
	ec  ExecutionContext
	tok *CancelToken
}

// On makes the continuation run on ec, overriding the default context
// selection.
func On(ec ExecutionContext) CallOption {
	return func(c *callConf) { c.ec = ec }
}

// Unless ties the continuation to tok: once tok cancels, a continuation
// that hasn't started yet never runs, and its future fails with
// ErrCancelled instead.
//
// The token is re-checked on the target execution context immediately
// before the callback would run. For main-context consumers this is the
// ordering guarantee: code on main that observes the token as cancelled
// can rely on no further main-context continuation for that token
// firing afterwards, even if the cancellation raced a callback that was
// already scheduled from another goroutine.
func Unless(tok *CancelToken) CallOption {
	return func(c *callConf) { c.tok = tok }
}

// getCallConf resolves the options of one registration. The execution
// context, when not named with On, is decided here, at registration
// time: main if the registering code runs on the registered main
// context, a fresh goroutine otherwise.
func getCallConf(opts []CallOption) callConf {
	var c callConf
	for _, opt := range opts {
		opt(&c)
	}
	if c.ec == nil {
		c.ec = callerContext()
	}
	return c
}

// Then registers cb to transform the future's result.
//
// If the future resolves with a result, cb runs on the registration's
// execution context with that result, and the returned future resolves
// to cb's return value, collapsed if it's itself a future. If the
// future resolves with a failure, the failure propagates to the
// returned future and cb never runs. A panic inside cb fails the
// returned future with a PanicError.
func (f *Future[T]) Then(cb func(val T) Result[T], opts ...CallOption) *Future[T] {
	if cb == nil {
		panic(nilCallbackPanicMsg)
	}
	conf := getCallConf(opts)
	src := NewSource[T]()
	watchCancel(conf.tok, src)
	f.subscribe(conf.ec, func(res Result[T]) {
		if conf.tok.IsCancelled() {
			src.TrySetFailure(ErrCancelled)
			return
		}
		if res.Err() != nil {
			src.resolveTo(res)
			return
		}
		runContinuation(src, func() Result[T] {
			return cb(res.Val())
		})
	})
	return src.Future()
}

// Catch registers cb to recover from the future's failure.
//
// If the future resolves with a failure, cb runs with the fail
// result's value and error, and the returned future resolves to cb's
// return value; returning a failure re-fails the chain. If the future
// resolves with a result, it propagates unchanged and cb never runs.
func (f *Future[T]) Catch(cb func(val T, err error) Result[T], opts ...CallOption) *Future[T] {
	if cb == nil {
		panic(nilCallbackPanicMsg)
	}
	conf := getCallConf(opts)
	src := NewSource[T]()
	watchCancel(conf.tok, src)
	f.subscribe(conf.ec, func(res Result[T]) {
		if conf.tok.IsCancelled() {
			src.TrySetFailure(ErrCancelled)
			return
		}
		err := res.Err()
		if err == nil {
			src.resolveTo(res)
			return
		}
		runContinuation(src, func() Result[T] {
			return cb(res.Val(), err)
		})
	})
	return src.Future()
}

// Finally registers cb to run on either outcome, for cleanup.
// The outcome passes through to the returned future unaltered, except
// when cb panics, in which case the returned future fails with a
// PanicError.
func (f *Future[T]) Finally(cb func(), opts ...CallOption) *Future[T] {
	if cb == nil {
		panic(nilCallbackPanicMsg)
	}
	conf := getCallConf(opts)
	src := NewSource[T]()
	watchCancel(conf.tok, src)
	f.subscribe(conf.ec, func(res Result[T]) {
		if conf.tok.IsCancelled() {
			src.TrySetFailure(ErrCancelled)
			return
		}
		defer func() {
			if v := recover(); v != nil {
				src.TrySetFailure(&PanicError{v: v})
				return
			}
			src.resolveTo(res)
		}()
		cb()
	})
	return src.Future()
}

// Until returns a future that adopts f's outcome, unless tok cancels
// first, in which case it fails with ErrCancelled. Continuations
// chained after the returned future therefore stop at the cancellation
// point: failure propagation skips every not-yet-started Then.
func (f *Future[T]) Until(tok *CancelToken) *Future[T] {
	if tok.State() == TokenImmortal {
		return f
	}
	src := NewSource[T]()
	watchCancel(tok, src)
	f.subscribe(inlineContext{}, func(res Result[T]) {
		src.resolveTo(res)
	})
	return src.Future()
}

// runContinuation runs one callback and resolves src to whatever it
// returns, converting a panic into a failure.
func runContinuation[T any](src *FutureSource[T], fn func() Result[T]) {
	var res Result[T]
	panicked := true
	defer func() {
		if panicked {
			src.TrySetFailure(&PanicError{v: recover()})
			return
		}
		src.resolveTo(res)
	}()
	res = fn()
	panicked = false
}
