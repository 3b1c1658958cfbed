// internal/config/config.go
//
// Environment configuration for the game server.
//
// Environment variables:
//   PORT                 HTTP port (default 5175)
//   LOG_LEVEL            zerolog level (default info)
//   CLIENT_ORIGIN        origin allowed by CORS (default http://localhost:5173)
//   GAME_STORE_PATH      directory for score.xml / game.xml / settings.yaml (default ./data)
//   HISTORY_DB           SQLite path (default <GAME_STORE_PATH>/history.db)
//   BOARD_SIZE           initial board size (default 9)
//   DROP_BALLS_PER_STEP  balls dropped after a non-scoring move (default 3)
//   BALLS_IN_LINE        balls needed to collect a line (default 5)
//   RNG_SEED             0 picks a time-based seed
//
// A `.env` file in the working directory is loaded first when present.

package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/AlexeyInc/Color-Lines/internal/game"
	"github.com/AlexeyInc/Color-Lines/internal/store"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the full server configuration.
type Config struct {
	Port         string `env:"PORT" envDefault:"5175"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	ClientOrigin string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	StorePath    string `env:"GAME_STORE_PATH" envDefault:"./data"`
	HistoryDB    string `env:"HISTORY_DB"`
	Seed         int64  `env:"RNG_SEED" envDefault:"0"`

	Game GameConfig
}

// GameConfig holds the initial rules.
type GameConfig struct {
	BoardSize        int `env:"BOARD_SIZE" envDefault:"9"`
	DropBallsPerStep int `env:"DROP_BALLS_PER_STEP" envDefault:"3"`
	NumBallsInLine   int `env:"BALLS_IN_LINE" envDefault:"5"`
}

// Load reads .env (if any) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Settings().Validate(); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if cfg.StorePath == "" {
		return Config{}, fmt.Errorf("%w: GAME_STORE_PATH is empty", ErrInvalidConfig)
	}
	return cfg, nil
}

// Settings converts the initial rules to engine settings.
func (c Config) Settings() game.Settings {
	return game.Settings{
		BoardSize:        c.Game.BoardSize,
		DropBallsPerStep: c.Game.DropBallsPerStep,
		NumBallsInLine:   c.Game.NumBallsInLine,
	}
}

// Store returns the game-store directory.
func (c Config) Store() store.Dir { return store.Dir(c.StorePath) }

// HistoryPath returns the SQLite path, defaulting into the store directory.
func (c Config) HistoryPath() string {
	if c.HistoryDB != "" {
		return c.HistoryDB
	}
	return c.Store().HistoryPath()
}
