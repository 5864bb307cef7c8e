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

import "testing"

func BenchmarkNewSource_Resolve(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		src := NewSource[int]()
		src.TrySetResult(i)
		_ = src.Future().Val()
	}
}

func BenchmarkFuture_TryRes(b *testing.B) {
	f := WithResult(42)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.TryRes()
	}
}

func BenchmarkFuture_Then_Resolved(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		f := WithResult(i).Then(func(v int) Result[int] {
			return Val(v + 1)
		}, On(inlineContext{}))
		_ = f.Val()
	}
}

func BenchmarkCollapse_Depth4(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		inner := WithResult[any](i)
		for d := 0; d < 3; d++ {
			inner = WithResult[any](inner)
		}
		src := NewSource[any]()
		src.TrySetResult(inner)
		_ = src.Future().Val()
	}
}

func BenchmarkCancelSource_Cancel(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		cs := NewCancelSource()
		cs.Cancel()
		_ = cs.Token().IsCancelled()
	}
}

func BenchmarkMatchFirstToCancelBetween(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c1 := NewCancelSource()
		c2 := NewCancelSource()
		tok := MatchFirstToCancelBetween(c1.Token(), c2.Token())
		c1.Cancel()
		_ = tok.IsCancelled()
	}
}
