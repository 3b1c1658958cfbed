package game

import "errors"

var (
	ErrInvalidSettings = errors.New("invalid settings")
	ErrOutOfBounds     = errors.New("cell out of bounds")
	ErrNoPath          = errors.New("no free path to cell")
	ErrGameOver        = errors.New("game over")
	ErrCorruptBoard    = errors.New("corrupt board file")
)
