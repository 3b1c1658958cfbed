package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AlexeyInc/Color-Lines/internal/session"
)

// settingAccessor binds a URL name to a controller getter/setter pair.
type settingAccessor struct {
	get func(c *session.Controller) string
	set func(c *session.Controller, v string) error
}

var settingRoutes = map[string]settingAccessor{
	"board-size": {
		get: (*session.Controller).BoardSize,
		set: (*session.Controller).SetBoardSize,
	},
	"balls-in-line": {
		get: (*session.Controller).NumBallsInLine,
		set: (*session.Controller).SetNumBallsInLine,
	},
	"dropping-balls": {
		get: (*session.Controller).RandomDroppingBalls,
		set: (*session.Controller).SetRandomDroppingBalls,
	},
}

var panelRoutes = map[string]func(c *session.Controller) session.Visibility{
	"settings": (*session.Controller).OpenSettings,
	"about":    (*session.Controller).OpenAboutGame,
}

func (s *Server) mountSettings(r chi.Router) {
	r.Get("/settings/{name}", s.handleGetSetting)
	r.Post("/settings/{name}", s.handleSetSetting)
	r.Post("/panels/{name}", s.handlePanel)
	r.Get("/about", s.handleAbout)
}

type settingBody struct {
	Value string `json:"value"`
}

func (s *Server) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	acc, ok := settingRoutes[chi.URLParam(r, "name")]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorRes{Error: "unknown_setting", Path: r.URL.Path})
		return
	}
	var v string
	s.locked(func(c *session.Controller) { v = acc.get(c) })
	writeJSON(w, http.StatusOK, settingBody{Value: v})
}

func (s *Server) handleSetSetting(w http.ResponseWriter, r *http.Request) {
	acc, ok := settingRoutes[chi.URLParam(r, "name")]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorRes{Error: "unknown_setting", Path: r.URL.Path})
		return
	}
	var req settingBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorRes{Error: "bad_json"})
		return
	}
	s.command(w, r, func(c *session.Controller) error { return acc.set(c, req.Value) })
}

type panelRes struct {
	Panel      session.Panel      `json:"panel"`
	Visibility session.Visibility `json:"visibility"`
}

func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	toggle, ok := panelRoutes[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorRes{Error: "unknown_panel", Path: r.URL.Path})
		return
	}
	var v session.Visibility
	s.locked(func(c *session.Controller) { v = toggle(c) })
	writeJSON(w, http.StatusOK, panelRes{Panel: session.Panel(name), Visibility: v})
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	var text string
	s.locked(func(c *session.Controller) { text = c.AboutText() })
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}
