package httpserver

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/AlexeyInc/Color-Lines/internal/game"
	"github.com/AlexeyInc/Color-Lines/internal/score"
	"github.com/AlexeyInc/Color-Lines/internal/session"
)

type errorRes struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Path    string `json:"path,omitempty"`
}

// writeError maps controller and engine errors onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, name := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, session.ErrInvalidSetting):
		code, name = http.StatusUnprocessableEntity, "invalid_setting"
	case errors.Is(err, session.ErrInvalidState):
		code, name = http.StatusConflict, "invalid_state"
	case errors.Is(err, session.ErrChangeDeclined):
		code, name = http.StatusConflict, "change_declined"
	case errors.Is(err, game.ErrGameOver):
		code, name = http.StatusConflict, "game_over"
	case errors.Is(err, game.ErrNoPath):
		code, name = http.StatusBadRequest, "no_path"
	case errors.Is(err, game.ErrOutOfBounds):
		code, name = http.StatusBadRequest, "out_of_bounds"
	case errors.Is(err, score.ErrPersistence), errors.Is(err, game.ErrCorruptBoard):
		name = "persistence_failed"
	}
	if code >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, code, errorRes{Error: name, Message: err.Error()})
}
