package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/emoji-quiz/internal/catalog"
	"github.com/robalobadob/emoji-quiz/internal/config"
	"github.com/robalobadob/emoji-quiz/internal/httpserver"
	"github.com/robalobadob/emoji-quiz/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.IsLocal() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	questions, err := catalog.Load(ctx, catalog.Options{File: cfg.Catalog.File, DB: cfg.Catalog.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load question catalog")
	}

	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, questions, httpserver.Options{
		TokenSecret:       []byte(cfg.Token.Secret),
		TokenTTL:          cfg.Token.TTL,
		CookieName:        cfg.Token.Cookie,
		SecureCookies:     !cfg.IsLocal(),
		ClientOrigin:      cfg.ClientOrigin,
		SkipFeedbackDelay: cfg.Game.SkipFeedbackDelay,
		DailySalt:         cfg.Game.DailySalt,
		Logger:            log.Logger,
	})
	defer srv.Close()

	go sweep(ctx, mem, cfg.Game.SessionIdleTTL)

	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting emoji-quiz")
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	<-drained
	log.Info().Msg("server stopped")
}

// sweep drops idle sessions until ctx is done.
func sweep(ctx context.Context, st store.Store, maxIdle time.Duration) {
	if maxIdle <= 0 {
		return
	}
	tick := time.NewTicker(maxIdle / 4)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			if n := st.Sweep(ctx, maxIdle); n > 0 {
				log.Info().Int("sessions", n).Msg("dropped idle sessions")
			}
		}
	}
}
