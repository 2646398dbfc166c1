package workerpool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitOrdered_PreservesOrder(t *testing.T) {
	pool := New(4)

	jobs := make([]Job[int], 20)
	for i := range jobs {
		i := i

		jobs[i] = func() (int, error) {
			return i * i, nil
		}
	}

	results, err := SubmitOrdered(pool, jobs)
	require.NoError(t, err)
	require.Len(t, results, 20)

	for i, r := range results {
		assert.Equal(t, i*i, r)
	}
}

func TestSubmitOrdered_PropagatesFirstError(t *testing.T) {
	pool := New(2)

	boom := errors.New("boom")

	jobs := []Job[int]{
		func() (int, error) { return 1, nil },
		func() (int, error) { return 0, boom },
		func() (int, error) { return 3, nil },
	}

	_, err := SubmitOrdered(pool, jobs)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestSubmitOrdered_EmptyJobList(t *testing.T) {
	pool := New(4)

	results, err := SubmitOrdered(pool, []Job[int]{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestNew_ClampsSizeBelowOne(t *testing.T) {
	assert.Equal(t, 1, New(0).size)
	assert.Equal(t, 1, New(-3).size)
	assert.Equal(t, 5, New(5).size)
}
