package future

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThenAllResolvedInputs(t *testing.T) {
	f := ThenAll(WithResult(1), WithResult(2), WithResult(3))

	f.Wait()
	require.True(t, f.HasResult())
	assert.Equal(t, []int{1, 2, 3}, f.Val(), "results must be in input order")
}

func TestThenAllEmpty(t *testing.T) {
	f := ThenAll[int]()
	require.True(t, f.IsResolved())
	assert.Empty(t, f.Val())
}

func TestThenAllFirstFailureWins(t *testing.T) {
	errA := testStrError("a")
	errB := testStrError("b")

	f := ThenAll(
		WithResult(1),
		WithFailure[int](errA),
		WithFailure[int](errB),
	)

	f.Wait()
	require.True(t, f.HasFailure())
	assert.Equal(t, errA, f.Err(),
		"for already-resolved inputs the first failing member in input order wins")
}

func TestThenAllAsyncMembers(t *testing.T) {
	s1, s2, s3 := NewSource[int](), NewSource[int](), NewSource[int]()
	f := ThenAll(s1.Future(), s2.Future(), s3.Future())

	assert.False(t, f.IsResolved())

	go s3.TrySetResult(30)
	go s1.TrySetResult(10)
	go s2.TrySetResult(20)

	f.Wait()
	assert.Equal(t, []int{10, 20, 30}, f.Val(),
		"input order must hold regardless of resolution order")
}

func TestThenAllLeavesMembersUnaffected(t *testing.T) {
	s := NewSource[int]()
	f := ThenAll(WithFailure[int](testStrError("x")), s.Future())

	f.Wait()
	assert.True(t, f.HasFailure())

	// the pending member is untouched by the aggregate's failure.
	assert.False(t, s.Future().IsResolved())
	assert.True(t, s.TrySetResult(5))
	assert.Equal(t, 5, s.Future().Val())
}

func TestThenAnyFirstToResolveWins(t *testing.T) {
	t.Run("result", func(t *testing.T) {
		pending := NewSource[int]()
		f := ThenAny(pending.Future(), WithResult(7))

		f.Wait()
		assert.Equal(t, 7, f.Val())
	})

	t.Run("failure", func(t *testing.T) {
		err := testStrError("first")
		pending := NewSource[int]()
		f := ThenAny(pending.Future(), WithFailure[int](err))

		f.Wait()
		assert.Equal(t, err, f.Err(),
			"thenAny adopts a failure just like a result")
	})
}

func TestThenAnyAsync(t *testing.T) {
	s1, s2 := NewSource[int](), NewSource[int]()
	f := ThenAny(s1.Future(), s2.Future())

	assert.False(t, f.IsResolved())
	s2.TrySetResult(2)

	f.Wait()
	assert.Equal(t, 2, f.Val())

	// the loser resolves independently, and the aggregate keeps the
	// winner's outcome.
	s1.TrySetResult(1)
	assert.Equal(t, 2, f.Val())
}

func TestThenAnyConcurrentWinners(t *testing.T) {
	const n = 16

	sources := make([]*FutureSource[int], n)
	futures := make([]*Future[int], n)
	for i := range sources {
		sources[i] = NewSource[int]()
		futures[i] = sources[i].Future()
	}

	f := ThenAny(futures...)

	var resolved atomic.Int32
	for i, s := range sources {
		go func(i int, s *FutureSource[int]) {
			if s.TrySetResult(i) {
				resolved.Add(1)
			}
		}(i, s)
	}

	f.Wait()
	v := f.Val()
	assert.GreaterOrEqual(t, v, 0)
	assert.Less(t, v, n)
	assert.Equal(t, v, futures[v].Val(), "the winner's own future holds the same value")
}
