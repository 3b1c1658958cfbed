// internal/game/types.go
//
// Core type definitions for the board engine.
// Defines:
//   - Color: contents of a cell (Empty or one of NumColors ball colours).
//   - Point: a cell coordinate.
//   - Settings: the three tunable rules plus their limits.
//   - Handlers: engine events raised synchronously to a single subscriber.
//   - Board: state for a single in-progress or finished board.

package game

import (
	"fmt"
	"math/rand/v2"
)

// Color is the contents of a cell. Zero is an empty cell.
type Color uint8

const (
	Empty     Color = 0
	NumColors       = 7
)

// Point addresses a cell by row and column, both zero-based.
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Rule limits. Board sizes are inclusive-exclusive: [MinBoardSize, MaxBoardSize).
const (
	MinBoardSize   = 5
	MaxBoardSize   = 16
	MinDropBalls   = 1
	MaxDropBalls   = 10
	MinBallsInLine = 3
	MaxBallsInLine = 7
)

// Settings holds the rules a board is created with.
type Settings struct {
	BoardSize        int `yaml:"boardSize" json:"boardSize"`
	DropBallsPerStep int `yaml:"dropBallsPerStep" json:"dropBallsPerStep"`
	NumBallsInLine   int `yaml:"numBallsInLine" json:"numBallsInLine"`
}

// DefaultSettings returns the classic 9x9, three drops, five in a line.
func DefaultSettings() Settings {
	return Settings{BoardSize: 9, DropBallsPerStep: 3, NumBallsInLine: 5}
}

// ValidBoardSize reports whether size lies in [MinBoardSize, MaxBoardSize).
func ValidBoardSize(size int) bool {
	return size >= MinBoardSize && size < MaxBoardSize
}

// Validate checks every rule against its limits.
// Balls in line may never exceed the board size.
func (s Settings) Validate() error {
	if !ValidBoardSize(s.BoardSize) {
		return fmt.Errorf("%w: board size %d outside [%d, %d)",
			ErrInvalidSettings, s.BoardSize, MinBoardSize, MaxBoardSize)
	}
	if s.DropBallsPerStep < MinDropBalls || s.DropBallsPerStep > MaxDropBalls {
		return fmt.Errorf("%w: dropping balls %d outside [%d, %d]",
			ErrInvalidSettings, s.DropBallsPerStep, MinDropBalls, MaxDropBalls)
	}
	maxLine := min(MaxBallsInLine, s.BoardSize)
	if s.NumBallsInLine < MinBallsInLine || s.NumBallsInLine > maxLine {
		return fmt.Errorf("%w: balls in line %d outside [%d, %d]",
			ErrInvalidSettings, s.NumBallsInLine, MinBallsInLine, maxLine)
	}
	return nil
}

// Handlers receives board events. Nil fields are skipped.
type Handlers struct {
	ScoreUpdated   func(delta int)
	CellSelected   func(p Point)
	CellUnselected func(p Point)
	GameOver       func()
}

// Board holds the state of a single game board.
type Board struct {
	ID    string    // Unique board identifier (uuid).
	Size  int       // Board is Size x Size.
	Cells [][]Color // Row-major cell contents.

	rules    Settings
	rng      *rand.Rand
	selected *Point
	over     bool
	h        Handlers
}
