package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecordHasZeroTable(t *testing.T) {
	r := New()
	assert.Equal(t, 0, r.CurrentScore())
	for size := MinBoardSize; size < MaxBoardSize; size++ {
		v, err := r.Best(size)
		require.NoError(t, err)
		assert.Zero(t, v, "size %d", size)
	}
	assert.Len(t, r.BestScores(), MaxBoardSize-MinBoardSize)
}

func TestNegativeCurrentScoreIsIgnored(t *testing.T) {
	r := New()
	r.SetCurrentScore(10)
	r.SetCurrentScore(-5)
	assert.Equal(t, 10, r.CurrentScore())

	r.AddScore(-20)
	assert.Equal(t, 10, r.CurrentScore(), "a delta driving the score negative is dropped")

	r.AddScore(4)
	assert.Equal(t, 14, r.CurrentScore())
}

func TestCheckOnMaxScore(t *testing.T) {
	r := New()
	r.SetBoardSize(9)

	isRecord, err := r.CheckOnMaxScore(120)
	require.NoError(t, err)
	assert.True(t, isRecord)
	best, err := r.GetMaxScore()
	require.NoError(t, err)
	assert.Equal(t, 120, best)

	isRecord, err = r.CheckOnMaxScore(80)
	require.NoError(t, err)
	assert.False(t, isRecord)
	best, _ = r.GetMaxScore()
	assert.Equal(t, 120, best)

	isRecord, err = r.CheckOnMaxScore(120)
	require.NoError(t, err)
	assert.False(t, isRecord, "a tie is not a record")
}

func TestCheckOnMaxScoreEverySize(t *testing.T) {
	for size := MinBoardSize; size < MaxBoardSize; size++ {
		r := New()
		r.SetBoardSize(size)
		require.NoError(t, r.SetBest(size, 50))

		for _, v := range []int{0, 49, 50, 51, 500} {
			old, _ := r.Best(size)
			got, err := r.CheckOnMaxScore(v)
			require.NoError(t, err)
			assert.Equal(t, v > old, got, "size %d value %d", size, v)
			now, _ := r.Best(size)
			assert.Equal(t, max(old, v), now)
		}
	}
}

func TestOutOfRangeSizeIsKeyNotFound(t *testing.T) {
	r := New()

	_, err := r.Best(MaxBoardSize)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	assert.ErrorIs(t, r.SetBest(MinBoardSize-1, 3), ErrKeyNotFound)

	r.SetBoardSize(99)
	_, err = r.GetMaxScore()
	var kerr *KeyNotFoundError
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, 99, kerr.Size)

	isRecord, err := r.CheckOnMaxScore(10)
	assert.ErrorIs(t, err, ErrKeyNotFound)
	assert.False(t, isRecord)
}

func TestEqual(t *testing.T) {
	a := NewWith(7, map[int]int{9: 100, 10: 20})
	b := NewWith(7, map[int]int{9: 100, 10: 20})
	assert.True(t, a.Equal(b))

	b.SetCurrentScore(8)
	assert.False(t, a.Equal(b))

	c := NewWith(7, map[int]int{9: 101, 10: 20})
	assert.False(t, a.Equal(c))

	assert.False(t, a.Equal(nil))
}

func TestBestScoresIsACopy(t *testing.T) {
	r := New()
	table := r.BestScores()
	table[9] = 1000
	v, _ := r.Best(9)
	assert.Zero(t, v)
}

func TestNewWithDropsOutOfRangeEntries(t *testing.T) {
	r := NewWith(0, map[int]int{42: 1, 4: 2, 9: -5, 7: 30})

	_, err := r.Best(42)
	assert.ErrorIs(t, err, ErrKeyNotFound)
	_, err = r.Best(4)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	v, err := r.Best(9)
	require.NoError(t, err)
	assert.Zero(t, v)
	v, err = r.Best(7)
	require.NoError(t, err)
	assert.Equal(t, 30, v)
	assert.Len(t, r.BestScores(), MaxBoardSize-MinBoardSize)
}
