package genpass

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_CountAndLength(t *testing.T) {
	out, err := Generate(context.Background(), 37, 6, 4)
	require.NoError(t, err)
	require.Len(t, out, 37)

	for _, p := range out {
		assert.Len(t, p, 6)

		for _, c := range p {
			assert.GreaterOrEqual(t, c, byte(asciiOffset))
			assert.Less(t, c, byte(asciiOffset+alphabetSize))
		}
	}
}

func TestGenerate_ZeroCount(t *testing.T) {
	out, err := Generate(context.Background(), 0, 8, 4)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGenerate_ClampsThreadsBelowOne(t *testing.T) {
	out, err := Generate(context.Background(), 5, 4, 0)
	require.NoError(t, err)
	assert.Len(t, out, 5)
}

func TestGenerate_RespectsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Generate(ctx, 100000, 8, 4)
	require.Error(t, err)
}

func TestGenerateWithProgress_InvokesCallbackOncePerPassword(t *testing.T) {
	var calls int64

	out, err := GenerateWithProgress(context.Background(), 41, 5, 4, func() {
		atomic.AddInt64(&calls, 1)
	})
	require.NoError(t, err)
	require.Len(t, out, 41)

	assert.Equal(t, int64(41), atomic.LoadInt64(&calls))
}
