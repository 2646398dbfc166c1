package registry

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashassin/hashassin/lib/algorithm"
	"github.com/hashassin/hashassin/lib/chain"
)

func table(algo algorithm.Algorithm, plen int) *chain.RainbowTable {
	return &chain.RainbowTable{Algorithm: algo, PasswordLen: plen}
}

func TestInsertAndScanMatching(t *testing.T) {
	r := New()

	r.Insert("md5-4", table(algorithm.MD5, 4))
	r.Insert("sha256-4", table(algorithm.SHA256, 4))
	r.Insert("md5-6", table(algorithm.MD5, 6))

	matches := r.ScanMatching(algorithm.MD5, 4)

	assert.Len(t, matches, 1)
	assert.Equal(t, "md5-4", matches[0].Name)
}

func TestInsert_StampsLoadedAt(t *testing.T) {
	r := New()

	before := time.Now()
	r.Insert("md5-4", table(algorithm.MD5, 4))
	after := time.Now()

	matches := r.ScanMatching(algorithm.MD5, 4)
	require.Len(t, matches, 1)

	assert.False(t, matches[0].LoadedAt.Before(before))
	assert.False(t, matches[0].LoadedAt.After(after))
}

func TestScanMatching_NoMatches(t *testing.T) {
	r := New()
	r.Insert("md5-4", table(algorithm.MD5, 4))

	assert.Empty(t, r.ScanMatching(algorithm.SHA256, 8))
}

func TestInsert_NeverReplacesEarlierEntries(t *testing.T) {
	r := New()
	r.Insert("dup", table(algorithm.MD5, 4))
	r.Insert("dup", table(algorithm.MD5, 4))

	assert.Equal(t, 2, r.Len())
}

func TestConcurrentInsertAndScan(t *testing.T) {
	r := New()

	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()
			r.Insert("t", table(algorithm.MD5, 4))
		}(i)
	}

	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			_ = r.ScanMatching(algorithm.MD5, 4)
		}()
	}

	wg.Wait()

	assert.Equal(t, 50, r.Len())
}
