package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/AlexeyInc/Color-Lines/assets"
	"github.com/AlexeyInc/Color-Lines/internal/config"
	"github.com/AlexeyInc/Color-Lines/internal/game"
	"github.com/AlexeyInc/Color-Lines/internal/history"
	"github.com/AlexeyInc/Color-Lines/internal/httpserver"
	"github.com/AlexeyInc/Color-Lines/internal/metrics"
	"github.com/AlexeyInc/Color-Lines/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	db, err := history.Open(cfg.HistoryPath())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open history db")
	}
	defer db.Close()
	if err := history.Migrate(db, assets.FS, assets.MigrationsDir); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate history db")
	}

	engine, err := game.NewEngine(cfg.Settings(), cfg.Seed)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid game rules")
	}
	about, err := assets.AboutText()
	if err != nil {
		log.Warn().Err(err).Msg("about text unavailable")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}

	hist := history.NewStore(db)
	ctrl := session.New(engine, cfg.Store(),
		session.WithLogger(log.Logger),
		session.WithRecorder(hist),
		session.WithAboutText(about),
	)
	ctrl.Subscribe(m.Observe)
	if err := ctrl.Init(); err != nil {
		log.Fatal().Err(err).Str("store", cfg.StorePath).Msg("failed to start session")
	}

	srv := httpserver.New(httpserver.Deps{
		Session:      ctrl,
		History:      hist,
		Metrics:      reg,
		ClientOrigin: cfg.ClientOrigin,
	})
	log.Info().Str("port", cfg.Port).Str("store", cfg.StorePath).Msg("starting balls-and-lines server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
