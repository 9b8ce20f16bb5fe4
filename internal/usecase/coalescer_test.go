package usecase

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoalescerCachesCompletedResult(t *testing.T) {
	c := NewSearchCoalescer(time.Minute)
	calls := 0
	fn := func() (*SearchResult, error) {
		calls++
		return &SearchResult{SearchID: "s1"}, nil
	}

	first, outcome, err := c.Do("key", fn)
	require.NoError(t, err)
	assert.Equal(t, CoalesceExecuted, outcome)

	second, outcome, err := c.Do("key", fn)
	require.NoError(t, err)
	assert.Equal(t, CoalesceCached, outcome)
	assert.Equal(t, 1, calls)
	assert.Same(t, first, second)
}

func TestCoalescerExpiresCachedResult(t *testing.T) {
	c := NewSearchCoalescer(10 * time.Millisecond)
	calls := 0
	fn := func() (*SearchResult, error) {
		calls++
		return &SearchResult{SearchID: "s1"}, nil
	}

	_, _, err := c.Do("key", fn)
	require.NoError(t, err)

	time.Sleep(25 * time.Millisecond)

	_, outcome, err := c.Do("key", fn)
	require.NoError(t, err)
	assert.Equal(t, CoalesceExecuted, outcome)
	assert.Equal(t, 2, calls)
}

func TestCoalescerSingleExecutionUnderConcurrency(t *testing.T) {
	c := NewSearchCoalescer(time.Minute)
	var executions int32
	release := make(chan struct{})
	fn := func() (*SearchResult, error) {
		atomic.AddInt32(&executions, 1)
		<-release
		return &SearchResult{SearchID: "s1"}, nil
	}

	const workers = 16
	results := make([]*SearchResult, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, _, err := c.Do("key", fn)
			assert.NoError(t, err)
			results[i] = result
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&executions))
	for _, result := range results {
		assert.Equal(t, "s1", result.SearchID)
	}
}

func TestCoalescerDoesNotCacheFailures(t *testing.T) {
	c := NewSearchCoalescer(time.Minute)
	calls := 0

	_, _, err := c.Do("key", func() (*SearchResult, error) {
		calls++
		return nil, errors.New("pipeline blew up")
	})
	require.Error(t, err)

	result, outcome, err := c.Do("key", func() (*SearchResult, error) {
		calls++
		return &SearchResult{SearchID: "s2"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, CoalesceExecuted, outcome)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "s2", result.SearchID)
}

func TestCoalescerKeysAreIndependent(t *testing.T) {
	c := NewSearchCoalescer(time.Minute)
	calls := 0
	fn := func() (*SearchResult, error) {
		calls++
		return &SearchResult{}, nil
	}

	_, _, err := c.Do("a", fn)
	require.NoError(t, err)
	_, outcome, err := c.Do("b", fn)
	require.NoError(t, err)

	assert.Equal(t, CoalesceExecuted, outcome)
	assert.Equal(t, 2, calls)
}
