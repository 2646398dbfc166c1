package cache

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashassin/hashassin/lib/hashassinerrors"
)

func TestFingerprint_IsStableAndSensitive(t *testing.T) {
	a := Fingerprint([]byte("hello"))
	b := Fingerprint([]byte("hello"))
	c := Fingerprint([]byte("world"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestNew_RejectsNegativeBudget(t *testing.T) {
	_, err := New(-1)
	assert.ErrorIs(t, err, hashassinerrors.ErrArgument)
}

func TestInsertAndGet(t *testing.T) {
	c, err := New(1024)
	require.NoError(t, err)

	pairs := []Pair{{Hash: []byte("h1"), Password: []byte("p1")}}
	require.NoError(t, c.Insert("k1", pairs))

	got, ok := c.Get("k1")
	require.True(t, ok)
	assert.Equal(t, pairs, got)
}

func TestInsert_RejectsEntryLargerThanBudget(t *testing.T) {
	c, err := New(4)
	require.NoError(t, err)

	err = c.Insert("k1", []Pair{{Hash: []byte("0123456789"), Password: []byte("x")}})
	assert.ErrorIs(t, err, hashassinerrors.ErrResourceExhausted)
}

func TestInsert_ZeroBudgetDisablesRetention(t *testing.T) {
	c, err := New(0)
	require.NoError(t, err)

	err = c.Insert("k1", []Pair{{Hash: []byte("h"), Password: []byte("p")}})
	assert.ErrorIs(t, err, hashassinerrors.ErrResourceExhausted)
	assert.Equal(t, 0, c.Len())
}

func TestInsert_EvictsLeastRecentlyUsed(t *testing.T) {
	entrySize := int64(len("h1") + len("p1"))
	c, err := New(entrySize * 2)
	require.NoError(t, err)

	require.NoError(t, c.Insert("k1", []Pair{{Hash: []byte("h1"), Password: []byte("p1")}}))
	require.NoError(t, c.Insert("k2", []Pair{{Hash: []byte("h2"), Password: []byte("p2")}}))

	// touch k1 so it is more recently used than k2
	_, _ = c.Get("k1")

	require.NoError(t, c.Insert("k3", []Pair{{Hash: []byte("h3"), Password: []byte("p3")}}))

	_, k1ok := c.Get("k1")
	_, k2ok := c.Get("k2")
	_, k3ok := c.Get("k3")

	assert.True(t, k1ok, "recently touched entry must survive eviction")
	assert.False(t, k2ok, "least recently used entry must be evicted")
	assert.True(t, k3ok)
}

func TestGetOrCompute_CoalescesConcurrentCallers(t *testing.T) {
	c, err := New(1024)
	require.NoError(t, err)

	var calls int32

	release := make(chan struct{})

	compute := func() ([]Pair, error) {
		atomic.AddInt32(&calls, 1)
		<-release

		return []Pair{{Hash: []byte("h"), Password: []byte("p")}}, nil
	}

	var wg sync.WaitGroup

	results := make([][]Pair, 5)

	for i := 0; i < 5; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			r, err := c.GetOrCompute("k", compute)
			assert.NoError(t, err)
			results[i] = r
		}(i)
	}

	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "only one caller should have actually invoked compute")

	for _, r := range results {
		assert.Equal(t, []Pair{{Hash: []byte("h"), Password: []byte("p")}}, r)
	}
}

func TestGetOrCompute_CachesSuccessfulResult(t *testing.T) {
	c, err := New(1024)
	require.NoError(t, err)

	calls := 0
	compute := func() ([]Pair, error) {
		calls++
		return []Pair{{Hash: []byte("h"), Password: []byte("p")}}, nil
	}

	_, err = c.GetOrCompute("k", compute)
	require.NoError(t, err)

	_, err = c.GetOrCompute("k", compute)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestGetOrCompute_CachesEmptyResult(t *testing.T) {
	c, err := New(1024)
	require.NoError(t, err)

	calls := 0
	compute := func() ([]Pair, error) {
		calls++
		return nil, nil
	}

	got, err := c.GetOrCompute("k", compute)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = c.GetOrCompute("k", compute)
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.Equal(t, 1, calls, "second call for a no-match result must be served from cache")
}
