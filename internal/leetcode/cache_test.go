package leetcode_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leetloop/leetloop/internal/leetcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingClient struct {
	calls   int32
	failed  []string
	err     error
	release chan struct{}
}

func (c *countingClient) FetchUserData(ctx context.Context, username string) (*leetcode.UserData, error) {
	atomic.AddInt32(&c.calls, 1)
	if c.release != nil {
		<-c.release
	}
	if c.err != nil {
		return nil, c.err
	}
	return &leetcode.UserData{Username: username, Failed: c.failed}, nil
}

func (c *countingClient) QuestionDifficulties(_ context.Context, slugs []string) (map[string]string, error) {
	out := make(map[string]string, len(slugs))
	for _, s := range slugs {
		out[s] = "Easy"
	}
	return out, nil
}

func TestCachedClient_HitsAndInvalidate(t *testing.T) {
	inner := &countingClient{}
	cached := leetcode.NewCachedClient(inner, time.Minute, 8)
	ctx := context.Background()

	first, err := cached.FetchUserData(ctx, "Alice")
	require.NoError(t, err)
	second, err := cached.FetchUserData(ctx, "alice")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&inner.calls))
	assert.Equal(t, 1, cached.Len())

	cached.Invalidate("ALICE")
	_, err = cached.FetchUserData(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&inner.calls))
}

func TestCachedClient_Expires(t *testing.T) {
	inner := &countingClient{}
	cached := leetcode.NewCachedClient(inner, 20*time.Millisecond, 8)
	ctx := context.Background()

	_, err := cached.FetchUserData(ctx, "bob")
	require.NoError(t, err)

	assert.Eventually(t, func() bool { return cached.Len() == 0 }, time.Second, 10*time.Millisecond)

	_, err = cached.FetchUserData(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&inner.calls))
}

func TestCachedClient_PartialNotCached(t *testing.T) {
	inner := &countingClient{failed: []string{leetcode.SectionCalendar}}
	cached := leetcode.NewCachedClient(inner, time.Minute, 8)

	for i := 0; i < 2; i++ {
		data, err := cached.FetchUserData(context.Background(), "carol")
		require.NoError(t, err)
		assert.False(t, data.Complete())
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&inner.calls))
	assert.Zero(t, cached.Len())
}

func TestCachedClient_ErrorsNotCached(t *testing.T) {
	inner := &countingClient{err: errors.New("upstream down")}
	cached := leetcode.NewCachedClient(inner, time.Minute, 8)

	_, err := cached.FetchUserData(context.Background(), "dave")
	assert.EqualError(t, err, "upstream down")
	assert.Zero(t, cached.Len())
}

func TestCachedClient_CoalescesConcurrentFetches(t *testing.T) {
	inner := &countingClient{release: make(chan struct{})}
	cached := leetcode.NewCachedClient(inner, time.Minute, 8)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cached.FetchUserData(context.Background(), "erin")
			assert.NoError(t, err)
		}()
	}

	require.Eventually(t, func() bool { return atomic.LoadInt32(&inner.calls) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(inner.release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&inner.calls))
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "leetcode:alice", leetcode.CacheKey(" Alice "))
}

func TestCachedClient_QuestionDifficultiesPassThrough(t *testing.T) {
	cached := leetcode.NewCachedClient(&countingClient{}, time.Minute, 8)
	got, err := cached.QuestionDifficulties(context.Background(), []string{"two-sum"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"two-sum": "Easy"}, got)
}
