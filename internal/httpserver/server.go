// internal/httpserver/server.go
//
// HTTP server wiring for the emoji quiz backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     access logging).
//   - Public endpoints: "/", "/health", "/settings".
//   - Game endpoints: POST /game/start (public), everything else under /game
//     requires a player token (see token.go, routes_game.go).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Each token addresses exactly one session in the store; sessions never
//     share state with each other.

package httpserver

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/emoji-quiz/internal/catalog"
	"github.com/robalobadob/emoji-quiz/internal/game"
	"github.com/robalobadob/emoji-quiz/internal/random"
	"github.com/robalobadob/emoji-quiz/internal/store"
)

// Options configures a Server. Zero values fall back to the defaults below.
type Options struct {
	TokenSecret       []byte
	TokenTTL          time.Duration
	CookieName        string
	SecureCookies     bool
	ClientOrigin      string
	SkipFeedbackDelay time.Duration
	DailySalt         string
	RequestTimeout    time.Duration
	Logger            zerolog.Logger

	Now     func() time.Time
	NewRand func() (*rand.Rand, error)
}

func (o *Options) setDefaults() {
	if o.TokenTTL <= 0 {
		o.TokenTTL = 24 * time.Hour
	}
	if o.CookieName == "" {
		o.CookieName = "quiz_token"
	}
	if o.ClientOrigin == "" {
		o.ClientOrigin = "http://localhost:5173"
	}
	if o.SkipFeedbackDelay <= 0 {
		o.SkipFeedbackDelay = 5 * time.Second
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 10 * time.Second
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewRand == nil {
		o.NewRand = random.New
	}
}

// Server bundles router, session store and the question catalog.
type Server struct {
	r        *chi.Mux
	store    store.Store
	catalog  []game.Question
	opts     Options
	feedback *feedbackTimers
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, questions []game.Question, opts Options) *Server {
	opts.setDefaults()
	s := &Server{
		r:        chi.NewRouter(),
		store:    st,
		catalog:  questions,
		opts:     opts,
		feedback: newFeedbackTimers(opts.SkipFeedbackDelay),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                    // add request id to context
	s.r.Use(chimw.RealIP)                       // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(opts.Logger))       // request-scoped logger
	s.r.Use(hlog.AccessHandler(accessLog))      // one line per request
	s.r.Use(chimw.Recoverer)                    // recover from panics
	s.r.Use(chimw.Timeout(opts.RequestTimeout)) // bound handler time
	s.r.Use(jsonContentType)                    // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))            // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "emoji-quiz",
			"endpoints": []string{"/health", "/settings", "POST /game/start", "/game/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "questions": len(s.catalog)})
	})
	s.r.Get("/settings", s.handleSettings)

	s.mountGame()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Close stops pending feedback timers.
func (s *Server) Close() { s.feedback.stopAll() }

// ----------------------------- settings ------------------------------------

type settingsRes struct {
	Defaults     game.Settings         `json:"defaults"`
	Categories   []game.CategoryFilter `json:"industries"`
	Modes        []game.Mode           `json:"difficulties"`
	Length       int                   `json:"questionsPerGame"`
	CatalogStats any                   `json:"catalog"`
}

// handleSettings lists the setup options and their defaults.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, settingsRes{
		Defaults:     game.DefaultSettings(),
		Categories:   []game.CategoryFilter{game.FilterBoth, game.FilterBollywood, game.FilterHollywood},
		Modes:        []game.Mode{game.ModeProgressive, game.ModeEasy, game.ModeMedium, game.ModeHard},
		Length:       game.SessionLength,
		CatalogStats: catalog.Stats(s.catalog),
	})
}

// ----------------------------- middleware ----------------------------------

// accessLog writes one structured line per request.
func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("req_id", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// statusFor maps domain errors to HTTP status codes and error codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, game.ErrFinished):
		return http.StatusConflict, "session_finished"
	case errors.Is(err, game.ErrRoundLocked):
		return http.StatusConflict, "round_locked"
	case errors.Is(err, game.ErrRoundOpen):
		return http.StatusConflict, "round_open"
	case errors.Is(err, game.ErrNameRequired):
		return http.StatusBadRequest, "name_required"
	case errors.Is(err, game.ErrInvalidSettings):
		return http.StatusBadRequest, "invalid_settings"
	case errors.Is(err, game.ErrUnknownAction):
		return http.StatusBadRequest, "unknown_action"
	}
	return http.StatusInternalServerError, "internal_error"
}
