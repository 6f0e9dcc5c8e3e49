package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickOne(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := PickOne(rand.New(rand.NewSource(1)), []int(nil))
		assert.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("single candidate", func(t *testing.T) {
		got, err := PickOne(rand.New(rand.NewSource(1)), []string{"solo"})
		require.NoError(t, err)
		assert.Equal(t, "solo", got)
	})

	t.Run("picks a member of the pool", func(t *testing.T) {
		pool := []int{3, 7, 11, 19}
		got, err := PickOne(rand.New(rand.NewSource(5)), pool)
		require.NoError(t, err)
		assert.Contains(t, pool, got)
	})

	t.Run("deterministic for a fixed seed", func(t *testing.T) {
		pool := []int{1, 2, 3, 4, 5, 6}
		a, err := PickOne(rand.New(rand.NewSource(99)), pool)
		require.NoError(t, err)
		b, err := PickOne(rand.New(rand.NewSource(99)), pool)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}

func TestShuffle(t *testing.T) {
	t.Run("keeps every element", func(t *testing.T) {
		in := []int{1, 2, 3, 4, 5, 6, 7}
		out := Shuffle(rand.New(rand.NewSource(3)), in)
		assert.ElementsMatch(t, in, out)
	})

	t.Run("leaves the input untouched", func(t *testing.T) {
		in := []int{1, 2, 3, 4, 5, 6, 7, 8}
		Shuffle(rand.New(rand.NewSource(3)), in)
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, in)
	})

	t.Run("deterministic for a fixed seed", func(t *testing.T) {
		in := []int{1, 2, 3, 4, 5, 6, 7, 8}
		a := Shuffle(rand.New(rand.NewSource(17)), in)
		b := Shuffle(rand.New(rand.NewSource(17)), in)
		assert.Equal(t, a, b)
	})
}
