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

// Package gid identifies the calling goroutine.
//
// The runtime intentionally hides goroutine ids, and using them for
// anything except identity comparison is a mistake. The single consumer
// in this module is the main execution context, which needs to answer
// "is the current code running on the main loop's goroutine", a pure
// identity question.
package gid

import "runtime"

const stackPrefix = "goroutine " // the fixed header of a stack dump

// Current returns the id of the calling goroutine.
func Current() uint64 {
	var buf [32]byte
	// the first line of a single-goroutine stack dump is
	// "goroutine N [state]:", and N fits well within the buffer.
	n := runtime.Stack(buf[:], false)

	var id uint64
	for _, c := range buf[len(stackPrefix):n] {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uint64(c-'0')
	}
	return id
}
