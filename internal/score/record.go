// internal/score/record.go
//
// Score record for a player installation.
// Holds:
//   - the current session score (never negative),
//   - the best score ever reached per board size,
//   - the active board size used by GetMaxScore / CheckOnMaxScore.
//
// The active board size and the record-guard scratch fields are runtime
// state only; they are never written to score.xml.

package score

import (
	"github.com/AlexeyInc/Color-Lines/internal/game"
)

// Board sizes covered by the best-score table: [MinBoardSize, MaxBoardSize).
const (
	MinBoardSize = game.MinBoardSize
	MaxBoardSize = game.MaxBoardSize
)

// Record is the current session score plus the best-score table.
type Record struct {
	currentScore int
	best         map[int]int
	boardSize    int

	// record-guard scratch, see SaveRecordOnly
	savedCurrentScore int
	newRecordPending  bool
}

// New returns a record with a zero current score and every best score at zero.
func New() *Record {
	return &Record{best: emptyTable()}
}

// NewWith builds a record from known values. Sizes missing from best start at
// zero; sizes outside [MinBoardSize, MaxBoardSize) and negative values are
// dropped.
func NewWith(currentScore int, best map[int]int) *Record {
	r := New()
	r.SetCurrentScore(currentScore)
	for size, v := range best {
		if game.ValidBoardSize(size) && v >= 0 {
			r.best[size] = v
		}
	}
	return r
}

func emptyTable() map[int]int {
	t := make(map[int]int, MaxBoardSize-MinBoardSize)
	for size := MinBoardSize; size < MaxBoardSize; size++ {
		t[size] = 0
	}
	return t
}

// CurrentScore returns the live session score.
func (r *Record) CurrentScore() int { return r.currentScore }

// SetCurrentScore assigns v; negative values are ignored.
func (r *Record) SetCurrentScore(v int) {
	if v >= 0 {
		r.currentScore = v
	}
}

// AddScore adds delta to the current score, subject to SetCurrentScore's rule.
func (r *Record) AddScore(delta int) {
	r.SetCurrentScore(r.currentScore + delta)
}

// BoardSize returns the active board size.
func (r *Record) BoardSize() int { return r.boardSize }

// SetBoardSize selects the board size GetMaxScore and CheckOnMaxScore look at.
func (r *Record) SetBoardSize(size int) { r.boardSize = size }

// Best returns the best score for size.
func (r *Record) Best(size int) (int, error) {
	v, ok := r.best[size]
	if !ok {
		return 0, &KeyNotFoundError{Size: size}
	}
	return v, nil
}

// SetBest overwrites the best score for size.
func (r *Record) SetBest(size, v int) error {
	if _, ok := r.best[size]; !ok {
		return &KeyNotFoundError{Size: size}
	}
	r.best[size] = v
	return nil
}

// BestScores returns a copy of the best-score table.
func (r *Record) BestScores() map[int]int {
	out := make(map[int]int, len(r.best))
	for k, v := range r.best {
		out[k] = v
	}
	return out
}

// GetMaxScore returns the best score for the active board size.
func (r *Record) GetMaxScore() (int, error) {
	return r.Best(r.boardSize)
}

// CheckOnMaxScore records newScore as the best for the active board size when
// it is strictly greater, and reports whether it was. A tie is not a record.
func (r *Record) CheckOnMaxScore(newScore int) (bool, error) {
	best, err := r.Best(r.boardSize)
	if err != nil {
		return false, err
	}
	if newScore <= best {
		return false, nil
	}
	r.best[r.boardSize] = newScore
	return true, nil
}

// Equal reports whether both records hold the same current score and every
// size in r's table maps to the same best score in other.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.currentScore != other.currentScore {
		return false
	}
	for size, v := range r.best {
		ov, ok := other.best[size]
		if !ok || ov != v {
			return false
		}
	}
	return true
}
