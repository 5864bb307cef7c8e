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

import "fmt"

// State describes the observable state of a Future or a Result value.
type State int

const (
	// Pending means the outcome is not yet known.
	// A plain Result value is never Pending; only a Future can be.
	Pending State = iota
	// HasResult means the outcome is known and it's a result value.
	HasResult
	// HasFailure means the outcome is known and it's a failure.
	HasFailure
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case HasResult:
		return "result"
	case HasFailure:
		return "failure"
	default:
		return "<unknown>"
	}
}

// Result is a container for the outcome of a single operation, either a
// value or a failure.
//
// The Future type implements Result, so a Future can be returned from
// any continuation callback, in which case the continuation's own future
// adopts the returned future's eventual outcome (see the collapsing
// rules in the package comment).
type Result[T any] interface {
	Val() T
	Err() error
	State() State
}

// Empty returns a Result holding the zero value of T and no failure.
func Empty[T any]() Result[T] {
	return emptyResult[T]{}
}

// Val returns a Result holding the value val.
func Val[T any](val T) Result[T] {
	return valResult[T]{val: val}
}

// Err returns a Result holding the failure err.
// If err is nil, the Result behaves like Empty.
func Err[T any](err error) Result[T] {
	if err == nil {
		return emptyResult[T]{}
	}
	return errResult[T]{err: err}
}

// ValErr returns a Result holding both a value and a failure.
// Errors are values in Go, and some results are meaningful alongside
// their error (io.EOF style), so both can travel together.
// If err is nil, the Result behaves like Val.
func ValErr[T any](val T, err error) Result[T] {
	if err == nil {
		return valResult[T]{val: val}
	}
	return valErrResult[T]{val: val, err: err}
}

type emptyResult[T any] struct{}
type valResult[T any] struct{ val T }
type errResult[T any] struct{ err error }
type valErrResult[T any] struct {
	val T
	err error
}

func (r emptyResult[T]) Val() (v T)  { return v }
func (r valResult[T]) Val() (v T)    { return r.val }
func (r errResult[T]) Val() (v T)    { return v }
func (r valErrResult[T]) Val() (v T) { return r.val }

func (r emptyResult[T]) Err() error  { return nil }
func (r valResult[T]) Err() error    { return nil }
func (r errResult[T]) Err() error    { return r.err }
func (r valErrResult[T]) Err() error { return r.err }

func (r emptyResult[T]) State() State  { return HasResult }
func (r valResult[T]) State() State    { return HasResult }
func (r errResult[T]) State() State    { return HasFailure }
func (r valErrResult[T]) State() State { return HasFailure }

func (r emptyResult[T]) String() string {
	return "result: <zero>"
}
func (r valResult[T]) String() string {
	return fmt.Sprintf("result: %v", r.val)
}
func (r errResult[T]) String() string {
	return fmt.Sprintf("failure: %s", r.err.Error())
}
func (r valErrResult[T]) String() string {
	return fmt.Sprintf("failure: (%v, %s)", r.val, r.err.Error())
}
