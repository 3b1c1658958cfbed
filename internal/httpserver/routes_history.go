// internal/httpserver/routes_history.go
//
// HTTP routes for finished games, mounted under /history:
//   - GET /history/leaderboard?size=&limit= → best results for a board size
//     (default: the current board size; default limit 20)

package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/AlexeyInc/Color-Lines/internal/results"
	"github.com/AlexeyInc/Color-Lines/internal/session"
)

func (s *Server) mountHistory(r chi.Router) {
	r.Route("/history", func(r chi.Router) {
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

// lbRes is returned by /history/leaderboard.
type lbRes struct {
	Size int              `json:"size"`
	Best int              `json:"best"`
	Top  []results.Result `json:"top"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var size int
	if raw := q.Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorRes{Error: "bad_size"})
			return
		}
		size = n
	} else {
		s.locked(func(c *session.Controller) { size, _ = strconv.Atoi(c.BoardSize()) })
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	rows, err := s.history.Leaderboard(r.Context(), size, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	best, err := s.history.BestFor(r.Context(), size)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Size: size, Best: best, Top: rows})
}
