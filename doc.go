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

/*
Package future provides collapsing futures and cooperative cancellation
tokens, as a pair of dual observer/producer abstractions plus a
continuation algebra on top of them.

It is not an async runtime: it creates no scheduler and no I/O
machinery. It only coordinates completion and cancellation of values
produced by work the host program already runs, on whatever goroutines
(and, optionally, one distinguished main loop) the host already has.

# Futures

A FutureSource resolves its paired Future exactly once, with a result
or a failure:

	src := future.NewSource[string]()
	go func() { src.TrySetResult(fetch()) }()
	f := src.Future()

TrySetResult and TrySetFailure report whether they took effect, so
multiple completion paths (a real result racing a timeout, say) can
race freely and let the first winner stand. A source released without
resolving leaves its future pending forever; that is observable through
Future.IsEternallyPending, and is deliberately not an error.

Resolutions collapse: resolving a future with another future adopts the
inner future's eventual outcome instead, recursively, so a consumer
never observes a future as a resolved value. A Future implements Result
for this reason; a continuation can simply return the next future:

	f.Then(func(u string) future.Result[string] {
		return lookup(u) // a *Future[string], adopted, not stored
	})

# Continuations

Then runs on a result and transforms it, Catch runs on a failure and
recovers (or re-fails), Finally runs on either outcome without altering
it. ThenAll collects a slice of futures into a future of a slice;
ThenAny adopts the first of its members to resolve. Failures propagate
through Then chains untouched until a Catch handles them; a panic in a
callback becomes a failure carrying a PanicError.

# Cancellation

A CancelTokenSource cancels its CancelToken exactly once; the token is
the read-only signal. Cancellation is cooperative: it preempts nothing,
it only fires WhenCancelled observers and stops not-yet-started
continuations registered with the Unless option. ImmortalToken is the
"no cancellation" sentinel (a nil *CancelToken behaves the same).
MatchFirstToCancelBetween and MatchLastToCancelBetween derive the OR
and the AND of two signals without a new user-visible source.

# Main-context affinity

A host with a distinguished serial loop (a UI thread, typically) runs a
MainContext and registers it with SetMain. Any continuation registered
by code running on that loop, with no explicit On option, is dispatched
back to the loop before running, regardless of which goroutine resolved
the trigger. Tokens passed with Unless are re-checked on the loop right
before the callback runs, so main-loop code that has observed a token
as cancelled will never see another continuation for it fire.

# Ownership

Futures and tokens hold only weak references back to their producing
sources; the source exclusively owns the list of pending continuations.
Closures registered through Then, Catch, Finally and WhenCancelled may
capture futures, tokens, and one another in cycles, and all of it is
reclaimed once the source is released: consuming these primitives can't
leak by construction. The one discipline left to producers: don't
capture a source inside a continuation registered on that same source's
future.
*/
package future
