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
	"sync/atomic"
	"weak"

	"github.com/asmsh/future/internal/status"
)

// TokenState describes what a CancelToken can still do.
type TokenState int

const (
	// TokenCancellable means the token hasn't cancelled, and its source
	// is still around to cancel it.
	TokenCancellable TokenState = iota
	// TokenCancelled means the token has cancelled. Terminal.
	TokenCancelled
	// TokenImmortal means the token can never cancel: it's either the
	// immortal sentinel, or its source was released without cancelling.
	// Terminal.
	TokenImmortal
)

func (s TokenState) String() string {
	switch s {
	case TokenCancellable:
		return "cancellable"
	case TokenCancelled:
		return "cancelled"
	case TokenImmortal:
		return "immortal"
	default:
		return "<unknown>"
	}
}

// CancelToken is the observer handle for a one-shot, monotonic
// cancellation signal.
//
// Like a Future, a token weakly references the callback registry its
// CancelTokenSource owns, so registering WhenCancelled callbacks never
// keeps the producer side alive, and callbacks registered on a token
// whose source died uncancelled are reclaimed with the source.
//
// A nil *CancelToken is valid everywhere a token is accepted, and
// behaves like the immortal token.
type CancelToken struct {
	cell *tokenCell // nil for the immortal sentinel
	reg  weak.Pointer[tokenRegistry]
}

type tokenCell struct {
	status status.TokenStatus

	// closed on cancellation.
	done chan struct{}
}

type tokenContinuation struct {
	ec ExecutionContext
	fn func()
}

func (c tokenContinuation) dispatch() {
	c.ec.Run(c.fn)
}

type tokenRegistry struct {
	mu    sync.Mutex
	fired bool
	subs  []tokenContinuation
}

func (r *tokenRegistry) add(c tokenContinuation) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fired {
		return false
	}
	r.subs = append(r.subs, c)
	return true
}

func (r *tokenRegistry) drain() {
	r.mu.Lock()
	r.fired = true
	subs := r.subs
	r.subs = nil
	r.mu.Unlock()

	for _, c := range subs {
		c.dispatch()
	}
}

var immortalToken = &CancelToken{}

// ImmortalToken returns the sentinel token that never cancels.
// It's the "no cancellation" value for every API accepting a token.
func ImmortalToken() *CancelToken {
	return immortalToken
}

// IsCancelled reports whether the token has cancelled.
func (t *CancelToken) IsCancelled() bool {
	if t == nil || t.cell == nil {
		return false
	}
	return t.cell.status.IsCancelled()
}

// CanStillCancel reports whether cancellation may still happen.
func (t *CancelToken) CanStillCancel() bool {
	return t.State() == TokenCancellable
}

// State returns the token's current state. Immortality of a
// source-backed token is detected through garbage collection of the
// released source, so TokenCancellable may be reported for a while
// after the source is in fact gone; TokenCancelled and TokenImmortal
// are definitive.
func (t *CancelToken) State() TokenState {
	if t == nil || t.cell == nil {
		return TokenImmortal
	}
	if t.cell.status.IsCancelled() {
		return TokenCancelled
	}
	if t.reg.Value() == nil {
		// the source is gone; it can't have cancelled after the check
		// above, since a cancelled status is written before the source
		// can possibly be released by its owner.
		return TokenImmortal
	}
	return TokenCancellable
}

// Done returns a channel that's closed once the token cancels.
// For a token that can never cancel it returns nil, which blocks
// forever in a select.
func (t *CancelToken) Done() <-chan struct{} {
	if t == nil || t.cell == nil {
		return nil
	}
	return t.cell.done
}

// WhenCancelled registers fn to run once the token cancels.
//
// The execution context follows the same rules as continuation
// registration: an explicit On option wins, otherwise main-context
// affinity applies, otherwise a new goroutine. If the token is already
// cancelled, fn is scheduled immediately, still through the context,
// never synchronously on the registering goroutine.
//
// An Unless option suppresses fn if its token is observed cancelled on
// the target context right before fn would run.
func (t *CancelToken) WhenCancelled(fn func(), opts ...CallOption) {
	if fn == nil {
		panic(nilCallbackPanicMsg)
	}
	conf := getCallConf(opts)
	unless := conf.tok
	t.whenCancelled(conf.ec, func() {
		if unless.IsCancelled() {
			return
		}
		fn()
	})
}

// whenCancelledInline registers fn to run synchronously on whichever
// goroutine cancels the token, or immediately if it already cancelled.
// Internal wiring only.
func (t *CancelToken) whenCancelledInline(fn func()) {
	t.whenCancelled(inlineContext{}, fn)
}

func (t *CancelToken) whenCancelled(ec ExecutionContext, fn func()) {
	if t == nil || t.cell == nil {
		// never cancels; fn will never run.
		return
	}
	c := tokenContinuation{ec: ec, fn: fn}
	if t.cell.status.IsCancelled() {
		c.dispatch()
		return
	}
	reg := t.reg.Value()
	if reg == nil {
		// the source is gone uncancelled; fn will never run.
		return
	}
	if reg.add(c) {
		return
	}
	// lost the race with cancellation.
	c.dispatch()
}

// MatchFirstToCancelBetween returns a token that cancels as soon as
// either a or b cancels: the logical OR of the two signals.
//
// The derived token owns no user-visible source; the internal source is
// kept alive only by the callbacks registered on the inputs, so once
// neither input can cancel any more, the derived token turns immortal.
func MatchFirstToCancelBetween(a, b *CancelToken) *CancelToken {
	src := NewCancelSource()
	hook := func() { src.Cancel() }
	a.whenCancelledInline(hook)
	b.whenCancelledInline(hook)
	return src.Token()
}

// MatchLastToCancelBetween returns a token that cancels only once both
// a and b have cancelled: the logical AND of the two signals.
// If either input can never cancel, neither can the result.
func MatchLastToCancelBetween(a, b *CancelToken) *CancelToken {
	src := NewCancelSource()
	var remaining atomic.Int32
	remaining.Store(2)
	hook := func() {
		if remaining.Add(-1) == 0 {
			src.Cancel()
		}
	}
	a.whenCancelledInline(hook)
	b.whenCancelledInline(hook)
	return src.Token()
}

// watchCancel fails src with ErrCancelled when tok cancels.
// The hook lives in tok's registry, which also keeps src alive for as
// long as the cancellation can still arrive.
func watchCancel[T any](tok *CancelToken, src *FutureSource[T]) {
	tok.whenCancelledInline(func() {
		src.TrySetFailure(ErrCancelled)
	})
}
