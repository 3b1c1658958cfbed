// Package results holds the finished-game record written by the session
// controller and read back by the history store.
package results

import "time"

// Result is one finished game.
type Result struct {
	ID          string    `json:"id"`
	BoardID     string    `json:"boardId"`
	BoardSize   int       `json:"boardSize"`
	Score       int       `json:"score"`
	BestScore   int       `json:"bestScore"`
	DropBalls   int       `json:"dropBalls"`
	BallsInLine int       `json:"ballsInLine"`
	Date        string    `json:"date"`
	FinishedAt  time.Time `json:"finishedAt"`
}
