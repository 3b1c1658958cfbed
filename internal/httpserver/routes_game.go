// internal/httpserver/routes_game.go
//
// HTTP routes for playing a game:
//   - GET  /game/state    → snapshot of the session
//   - POST /game/new      → start a new game
//   - POST /game/save     → save board, score and settings
//   - POST /game/continue → restore the saved game
//   - POST /game/click    → click a cell {row,col}
//   - POST /game/over     → answer "Start new game?" {restart}
//
// Every mutating route answers with the session snapshot after the command.

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AlexeyInc/Color-Lines/internal/game"
	"github.com/AlexeyInc/Color-Lines/internal/session"
)

func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/new", s.handleNew)
		r.Post("/save", s.handleSave)
		r.Post("/continue", s.handleContinue)
		r.Post("/click", s.handleClick)
		r.Post("/over", s.handleOver)
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	var v session.View
	s.locked(func(c *session.Controller) { v = c.Snapshot() })
	writeJSON(w, http.StatusOK, v)
}

// command runs fn under the lock and replies with the snapshot, or the error.
func (s *Server) command(w http.ResponseWriter, r *http.Request, fn func(c *session.Controller) error) {
	var (
		v   session.View
		err error
	)
	s.locked(func(c *session.Controller) {
		if err = fn(c); err == nil {
			v = c.Snapshot()
		}
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleNew(w http.ResponseWriter, r *http.Request) {
	s.command(w, r, (*session.Controller).StartNewGame)
}

type saveRes struct {
	Saved bool `json:"saved"`
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var err error
	s.locked(func(c *session.Controller) { err = c.SaveGame() })
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saveRes{Saved: true})
}

type continueRes struct {
	Restored bool         `json:"restored"`
	Session  session.View `json:"session"`
}

func (s *Server) handleContinue(w http.ResponseWriter, r *http.Request) {
	var (
		res continueRes
		err error
	)
	s.locked(func(c *session.Controller) {
		res.Restored, err = c.ContinueGame()
		res.Session = c.Snapshot()
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var p game.Point
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, errorRes{Error: "bad_json"})
		return
	}
	s.command(w, r, func(c *session.Controller) error { return c.Click(p) })
}

type overReq struct {
	Restart bool `json:"restart"`
}

func (s *Server) handleOver(w http.ResponseWriter, r *http.Request) {
	var req overReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorRes{Error: "bad_json"})
		return
	}
	s.command(w, r, func(c *session.Controller) error { return c.ResolveGameOver(req.Restart) })
}
