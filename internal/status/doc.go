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

// Package status implements the atomic state cells used by the future
// and the cancel-token types.
//
// Two independent state machines are covered:
//
// Future statuses:
//
//	Pending ──► Resolving ──► Result
//	                     └──► Failure
//
// Pending is the initial status. Resolving is an intermediate status,
// entered by exactly one of possibly many concurrent TrySetResult or
// TrySetFailure calls, through a single CAS on the Pending value.
// It covers the window in which the winning call is still collapsing
// nested futures, so the result is decided but not yet observable.
// Result and Failure are terminal.
//
// Token statuses:
//
//	Active ──► Cancelled
//
// Active is the initial status. Cancelled is terminal, entered by
// exactly one of possibly many concurrent Cancel calls, again through
// a single CAS.
//
// The status value is always the last field written before the
// resolution (or cancellation) becomes observable, and the first field
// read by any observer, so an observed terminal status guarantees that
// the associated result value is ready to read.
package status
