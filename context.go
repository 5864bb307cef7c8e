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

	"github.com/asmsh/future/internal/gid"
)

// ExecutionContext is a unit capable of running callbacks.
//
// Run schedules fn for later execution on the context and returns
// without waiting for it. Whether submission order is preserved is up
// to the implementation: MainContext preserves it, Goroutine doesn't.
type ExecutionContext interface {
	Run(fn func())
}

// Goroutine is the ExecutionContext that runs every callback on its own
// new goroutine. It models "any background thread": no ordering between
// callbacks is implied.
// It's the context continuations run on when no explicit context is
// requested and no main-context affinity applies.
var Goroutine ExecutionContext = goroutineContext{}

type goroutineContext struct{}

func (goroutineContext) Run(fn func()) { go fn() }

// inlineContext runs callbacks synchronously on the calling goroutine.
// It's reserved for the engine's internal wiring (collapsing adoption,
// token propagation, combinator bookkeeping), where the callback is
// known to be non-blocking and reentrancy-safe.
// It's deliberately not exported: user callbacks are always dispatched,
// never invoked inline on the resolving goroutine.
type inlineContext struct{}

func (inlineContext) Run(fn func()) { fn() }

// MainContext is a serial ExecutionContext backed by a single pump
// goroutine, for programs that have a distinguished "main" loop
// (UI event loops, game loops, single-threaded reactors).
//
// The host program calls Serve on the goroutine it considers main;
// every callback submitted through Run executes there, in submission
// order. IsCurrent reports whether the calling code is running on that
// goroutine.
type MainContext struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	stopped bool

	// the id of the goroutine currently inside Serve, 0 if none.
	serving atomic.Uint64
}

// NewMainContext returns a MainContext ready to Serve.
func NewMainContext() *MainContext {
	m := &MainContext{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Run schedules fn to execute on the serving goroutine, after all
// previously submitted callbacks. It never blocks.
// Callbacks submitted after Stop are discarded.
func (m *MainContext) Run(fn func()) {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.queue = append(m.queue, fn)
	m.mu.Unlock()
	m.cond.Signal()
}

// Serve runs submitted callbacks on the calling goroutine, in
// submission order, until Stop is called. Already-queued callbacks are
// drained before it returns.
// It must not be called concurrently with itself.
func (m *MainContext) Serve() {
	m.serving.Store(gid.Current())
	defer m.serving.Store(0)

	for {
		m.mu.Lock()
		for len(m.queue) == 0 && !m.stopped {
			m.cond.Wait()
		}
		if len(m.queue) == 0 {
			// stopped, and nothing left to drain
			m.mu.Unlock()
			return
		}
		fn := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()

		fn()
	}
}

// Stop makes Serve return once the already-queued callbacks have run.
// Further Run calls are discarded.
//
// A continuation dispatched to a stopped context is dropped with them,
// so its derived future never resolves: once nothing else strongly
// references that future's source, it reads as eternally pending, the
// same as a future whose source was released unresolved. Hosts that
// stop their main context mid-flight should treat in-flight chains the
// way they treat cancellation: cooperatively, before stopping.
func (m *MainContext) Stop() {
	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()
	m.cond.Broadcast()
}

// IsCurrent reports whether the calling code is running on the
// goroutine currently inside Serve.
func (m *MainContext) IsCurrent() bool {
	id := m.serving.Load()
	return id != 0 && id == gid.Current()
}

// the registered main context, if any.
var mainContext atomic.Pointer[MainContext]

// SetMain registers m as the program's distinguished main context.
// Once registered, any continuation registered by code running on m,
// with no explicit On option, is dispatched back to m before running,
// no matter which goroutine resolves the underlying future or token.
// Passing nil unregisters.
func SetMain(m *MainContext) {
	mainContext.Store(m)
}

// Main returns the registered main context, or nil.
func Main() *MainContext {
	return mainContext.Load()
}

// callerContext picks the ExecutionContext for a registration that
// didn't name one: the main context if the registering code is running
// on it, otherwise Goroutine.
// The decision is made at registration time, which is what makes the
// affinity "sticky": the resolving goroutine plays no part in it.
func callerContext() ExecutionContext {
	if m := mainContext.Load(); m != nil && m.IsCurrent() {
		return m
	}
	return Goroutine
}
