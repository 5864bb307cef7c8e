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

package status

import "sync/atomic"

var (
	cas   = atomic.CompareAndSwapUint32
	load  = atomic.LoadUint32
	store = atomic.StoreUint32
)

// the future's statuses. the order here matters, see the transition
// helpers below.
const (
	Pending uint32 = iota
	Resolving
	Result
	Failure
)

// FutureStatus holds the resolution status of a single future.
// It's read and written/updated atomically.
// The zero value is a Pending future.
type FutureStatus uint32

// Load returns the current status value.
func (s *FutureStatus) Load() uint32 {
	return load((*uint32)(s))
}

// StartResolving attempts the Pending -> Resolving transition, and
// reports whether it took effect.
// Exactly one of any number of concurrent calls succeeds.
func (s *FutureStatus) StartResolving() bool {
	return cas((*uint32)(s), Pending, Resolving)
}

// SetResult moves the status to the terminal Result value.
// It must be called only by the call that won StartResolving.
func (s *FutureStatus) SetResult() {
	store((*uint32)(s), Result)
}

// SetFailure moves the status to the terminal Failure value.
// It must be called only by the call that won StartResolving.
func (s *FutureStatus) SetFailure() {
	store((*uint32)(s), Failure)
}

// IsPending returns true if the status value s describes a future
// whose outcome is not yet observable, including one that's still
// collapsing a nested future.
func IsPending(s uint32) bool { return s == Pending || s == Resolving }

// IsResolved returns true if the status value s is terminal.
func IsResolved(s uint32) bool { return s == Result || s == Failure }

// IsResult returns true if the status value s is the Result value.
func IsResult(s uint32) bool { return s == Result }

// IsFailure returns true if the status value s is the Failure value.
func IsFailure(s uint32) bool { return s == Failure }

// the token's statuses.
const (
	Active uint32 = iota
	Cancelled
)

// TokenStatus holds the cancellation status of a single token source.
// It's read and written/updated atomically.
// The zero value is an Active token.
type TokenStatus uint32

// SetCancelled attempts the Active -> Cancelled transition, and
// reports whether it took effect.
// Exactly one of any number of concurrent calls succeeds.
func (s *TokenStatus) SetCancelled() bool {
	return cas((*uint32)(s), Active, Cancelled)
}

// IsCancelled returns true if the token has been cancelled.
func (s *TokenStatus) IsCancelled() bool {
	return load((*uint32)(s)) == Cancelled
}
