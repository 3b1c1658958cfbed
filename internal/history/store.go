package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/AlexeyInc/Color-Lines/internal/results"
)

// finished_at is stored as fixed-width UTC text so it sorts chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Result is one finished game.
type Result = results.Result

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// InsertResult stores r. Empty ID, Date and FinishedAt are filled in.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}
	if r.Date == "" {
		r.Date = DateKey(r.FinishedAt)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO results(id, board_id, board_size, score, best_score, drop_balls, balls_in_line, date, finished_at)
		VALUES(?,?,?,?,?,?,?,?,?)`,
		r.ID, r.BoardID, r.BoardSize, r.Score, r.BestScore, r.DropBalls, r.BallsInLine, r.Date,
		r.FinishedAt.UTC().Format(timeLayout),
	)
	return err
}

// Leaderboard returns the top results for a board size, best score first,
// earlier games first on ties. Default limit is 20.
func (s *Store) Leaderboard(ctx context.Context, boardSize, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, board_id, board_size, score, best_score, drop_balls, balls_in_line, date, finished_at
		FROM results
		WHERE board_size=?
		ORDER BY score DESC, finished_at ASC
		LIMIT ?`, boardSize, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		var (
			r        Result
			finished string
		)
		if err := rows.Scan(&r.ID, &r.BoardID, &r.BoardSize, &r.Score, &r.BestScore,
			&r.DropBalls, &r.BallsInLine, &r.Date, &finished); err != nil {
			return nil, err
		}
		if t, err := time.Parse(timeLayout, finished); err == nil {
			r.FinishedAt = t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// BestFor returns the highest recorded score for a board size, 0 when none.
func (s *Store) BestFor(ctx context.Context, boardSize int) (int, error) {
	var best int
	err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(score), 0) FROM results WHERE board_size=?", boardSize,
	).Scan(&best)
	return best, err
}
