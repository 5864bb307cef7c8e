package future

import "weak"

// CancelTokenSource is the producer handle that cancels its token
// exactly once.
//
// Like a FutureSource, the source is the sole strong owner of the
// registered-callback list; releasing every strong reference to an
// uncancelled source turns its token immortal and reclaims the
// callbacks.
type CancelTokenSource struct {
	cell *tokenCell
	reg  *tokenRegistry
	tok  *CancelToken
}

// NewCancelSource returns a source whose token is cancellable until
// Cancel is called or the source is released.
func NewCancelSource() *CancelTokenSource {
	c := &tokenCell{done: make(chan struct{})}
	r := &tokenRegistry{}
	return &CancelTokenSource{
		cell: c,
		reg:  r,
		tok:  &CancelToken{cell: c, reg: weak.Make(r)},
	}
}

// Token returns the paired observer handle.
func (s *CancelTokenSource) Token() *CancelToken {
	return s.tok
}

// IsCancelled reports whether the source has cancelled.
func (s *CancelTokenSource) IsCancelled() bool {
	return s.cell.status.IsCancelled()
}

// Cancel cancels the token and fires every registered callback exactly
// once. It's idempotent: only the first of any number of concurrent
// calls takes effect, and that call is the one reported true.
// Callback registration order is not preserved across execution
// contexts; callbacks must not depend on one another.
func (s *CancelTokenSource) Cancel() bool {
	if !s.cell.status.SetCancelled() {
		return false
	}
	close(s.cell.done)
	s.reg.drain()
	return true
}
