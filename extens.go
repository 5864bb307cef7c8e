package future

import "sync/atomic"

// ThenAll returns a future of all the results of futures, in input
// order, resolved once every member resolves with a result.
//
// If any member fails, the returned future fails with that failure. For
// members that are already resolved when ThenAll is called, "first
// failure" is deterministic: the first failing member in input order
// wins. For members that fail concurrently afterwards, whichever
// failure arrives first wins.
//
// The members themselves are never affected. A member that can never
// resolve leaves the returned future pending forever.
func ThenAll[T any](futures ...*Future[T]) *Future[[]T] {
	if len(futures) == 0 {
		return WithResult([]T{})
	}

	src := NewSource[[]T]()
	results := make([]T, len(futures))

	var remaining atomic.Int32
	remaining.Store(int32(len(futures)))

	for i, f := range futures {
		f.subscribe(inlineContext{}, func(res Result[T]) {
			if err := res.Err(); err != nil {
				src.TrySetFailure(err)
				return
			}
			// each member writes only its own slot, and the final
			// atomic decrement orders every write before the read in
			// the finishing call.
			results[i] = res.Val()
			if remaining.Add(-1) == 0 {
				src.TrySetResult(results)
			}
		})
	}
	return src.Future()
}

// ThenAny returns a future that adopts the outcome of the first member
// of futures to resolve, result or failure, leaving the others
// unaffected.
//
// Called with no futures, the returned future is pending forever.
func ThenAny[T any](futures ...*Future[T]) *Future[T] {
	src := NewSource[T]()
	for _, f := range futures {
		f.subscribe(inlineContext{}, func(res Result[T]) {
			src.resolveTo(res)
		})
	}
	return src.Future()
}
