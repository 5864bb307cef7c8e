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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancelIsIdempotent(t *testing.T) {
	cs := NewCancelSource()
	tok := cs.Token()

	assert.False(t, tok.IsCancelled())
	assert.True(t, cs.Cancel(), "first cancel must take effect")
	assert.False(t, cs.Cancel(), "second cancel must be a no-op")
	assert.True(t, tok.IsCancelled())
	assert.Equal(t, TokenCancelled, tok.State())
}

func TestRacingCancelsFireCallbacksOnce(t *testing.T) {
	const cancellers = 32
	const callbacks = 8

	cs := NewCancelSource()
	tok := cs.Token()

	var fired [callbacks]atomic.Int32
	for i := 0; i < callbacks; i++ {
		tok.WhenCancelled(func() { fired[i].Add(1) })
	}

	var wg sync.WaitGroup
	var winners atomic.Int32
	wg.Add(cancellers)
	for i := 0; i < cancellers; i++ {
		go func() {
			defer wg.Done()
			if cs.Cancel() {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, winners.Load())
	assert.Eventually(t, func() bool {
		for i := range fired {
			if fired[i].Load() != 1 {
				return false
			}
		}
		return true
	}, time.Second, 5*time.Millisecond, "each callback must fire exactly once")
}

func TestWhenCancelledOnCancelledToken(t *testing.T) {
	cs := NewCancelSource()
	cs.Cancel()

	// the callback is scheduled, not invoked synchronously on the
	// registering goroutine.
	ran := make(chan struct{})
	cs.Token().WhenCancelled(func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("callback on an already-cancelled token never ran")
	}
}

func TestImmortalToken(t *testing.T) {
	tok := ImmortalToken()

	assert.False(t, tok.IsCancelled())
	assert.False(t, tok.CanStillCancel())
	assert.Equal(t, TokenImmortal, tok.State())
	assert.Nil(t, tok.Done())

	// a registration on the immortal token is silently dropped.
	tok.WhenCancelled(func() { t.Error("callback on the immortal token ran") })

	// a nil token behaves the same.
	var nilTok *CancelToken
	assert.False(t, nilTok.IsCancelled())
	assert.Equal(t, TokenImmortal, nilTok.State())
	nilTok.WhenCancelled(func() { t.Error("callback on a nil token ran") })
}

func TestTokenDoneChannel(t *testing.T) {
	cs := NewCancelSource()
	tok := cs.Token()

	select {
	case <-tok.Done():
		t.Fatal("done channel closed before cancellation")
	default:
	}

	cs.Cancel()

	select {
	case <-tok.Done():
	case <-time.After(time.Second):
		t.Fatal("done channel not closed after cancellation")
	}
}

func TestTokenTurnsImmortalOnSourceRelease(t *testing.T) {
	tok := func() *CancelToken {
		return NewCancelSource().Token()
	}()

	eventuallyCollected(t, func() bool {
		return tok.State() == TokenImmortal
	})
	assert.False(t, tok.IsCancelled())
	assert.False(t, tok.CanStillCancel())
}

func TestMatchFirstToCancelBetween(t *testing.T) {
	t.Run("first input cancels", func(t *testing.T) {
		a, b := NewCancelSource(), NewCancelSource()
		tok := MatchFirstToCancelBetween(a.Token(), b.Token())

		assert.False(t, tok.IsCancelled())
		a.Cancel()
		assert.True(t, tok.IsCancelled())
	})

	t.Run("second input cancels", func(t *testing.T) {
		a, b := NewCancelSource(), NewCancelSource()
		tok := MatchFirstToCancelBetween(a.Token(), b.Token())

		b.Cancel()
		assert.True(t, tok.IsCancelled())

		// the other input cancelling later changes nothing.
		a.Cancel()
		assert.True(t, tok.IsCancelled())
	})

	t.Run("already cancelled input", func(t *testing.T) {
		a, b := NewCancelSource(), NewCancelSource()
		a.Cancel()
		tok := MatchFirstToCancelBetween(a.Token(), b.Token())
		assert.True(t, tok.IsCancelled())
	})

	t.Run("immortal input ignored", func(t *testing.T) {
		b := NewCancelSource()
		tok := MatchFirstToCancelBetween(ImmortalToken(), b.Token())

		assert.False(t, tok.IsCancelled())
		b.Cancel()
		assert.True(t, tok.IsCancelled())
	})
}

func TestMatchLastToCancelBetween(t *testing.T) {
	t.Run("needs both", func(t *testing.T) {
		a, b := NewCancelSource(), NewCancelSource()
		tok := MatchLastToCancelBetween(a.Token(), b.Token())

		a.Cancel()
		assert.False(t, tok.IsCancelled(), "one input is not enough")
		b.Cancel()
		assert.True(t, tok.IsCancelled())
	})

	t.Run("order doesn't matter", func(t *testing.T) {
		a, b := NewCancelSource(), NewCancelSource()
		tok := MatchLastToCancelBetween(a.Token(), b.Token())

		b.Cancel()
		assert.False(t, tok.IsCancelled())
		a.Cancel()
		assert.True(t, tok.IsCancelled())
	})

	t.Run("immortal input blocks forever", func(t *testing.T) {
		b := NewCancelSource()
		tok := MatchLastToCancelBetween(ImmortalToken(), b.Token())

		b.Cancel()
		assert.False(t, tok.IsCancelled())
	})
}

func TestWhenCancelledUnless(t *testing.T) {
	cs := NewCancelSource()
	other := NewCancelSource()
	other.Cancel()

	var ran atomic.Bool
	cs.Token().WhenCancelled(func() { ran.Store(true) }, Unless(other.Token()))

	cs.Cancel()

	// give the dispatch a chance to run, then confirm it was suppressed.
	time.Sleep(50 * time.Millisecond)
	assert.False(t, ran.Load(), "callback must be suppressed by the unless token")
}

func TestCancelCallbackCycleReclaimed(t *testing.T) {
	// callbacks capturing each other's tokens, registered on two
	// sources; the cycle lives in the registries and dies with the
	// sources.
	ta, tb := func() (*CancelToken, *CancelToken) {
		a, b := NewCancelSource(), NewCancelSource()
		ta, tb := a.Token(), b.Token()
		ta.WhenCancelled(func() { _ = tb.IsCancelled() })
		tb.WhenCancelled(func() { _ = ta.IsCancelled() })
		return ta, tb
	}()

	eventuallyCollected(t, func() bool {
		return ta.State() == TokenImmortal && tb.State() == TokenImmortal
	})
	require.False(t, ta.IsCancelled())
	require.False(t, tb.IsCancelled())
}
