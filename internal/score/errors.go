package score

import (
	"errors"
	"fmt"
)

var (
	// ErrPersistence matches every *PersistenceError.
	ErrPersistence = errors.New("score persistence failed")
	// ErrKeyNotFound matches every *KeyNotFoundError.
	ErrKeyNotFound = errors.New("board size not in best-score table")
)

// PersistenceError is a read, write or decode failure of the score file.
type PersistenceError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("score: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// KeyNotFoundError reports a board size outside the best-score table.
type KeyNotFoundError struct {
	Size int
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("score: board size %d outside [%d, %d)", e.Size, MinBoardSize, MaxBoardSize)
}

func (e *KeyNotFoundError) Is(target error) bool { return target == ErrKeyNotFound }
