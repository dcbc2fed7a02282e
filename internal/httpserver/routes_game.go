// internal/httpserver/routes_game.go
//
// HTTP routes for playing a session.
//   - POST   /game/start    → validate name + settings, create session, issue token
//   - GET    /game          → current view
//   - GET    /game/suggest  → autocomplete answers for ?q=
//   - POST   /game/guess    → submit {"guess": "..."}
//   - POST   /game/skip     → skip; "Question Skipped!" is cleared after a delay
//   - POST   /game/{action} → hint | solution | next | restart
//   - DELETE /game          → return to setup (discard session, clear cookie)
//
// Every mutation runs inside store.Update, and the response view is rendered
// under the same lock so it always matches the state that was just written.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/emoji-quiz/internal/game"
	"github.com/robalobadob/emoji-quiz/internal/random"
	"github.com/robalobadob/emoji-quiz/internal/store"
)

// mountGame registers all /game routes.
func (s *Server) mountGame() {
	s.r.Route("/game", func(r chi.Router) {
		r.Post("/start", s.handleStart)

		r.Group(func(r chi.Router) {
			r.Use(s.requirePlayer)
			r.Get("/", s.handleState)
			r.Delete("/", s.handleLeave)
			r.Get("/suggest", s.handleSuggest)
			r.Post("/guess", s.handleGuess)
			r.Post("/skip", s.handleSkip)
			r.Post("/{action}", s.handleAction)
		})
	})
}

// -----------------------------------------------------------------------------
// /game/start

// startReq is the request payload for /game/start. Omitted settings keep
// their defaults.
type startReq struct {
	Name     string        `json:"name"`
	Settings game.Settings `json:"settings"`
	Daily    bool          `json:"daily"`
}

// startRes is returned by /game/start.
type startRes struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Game      gameView  `json:"game"`
}

// handleStart creates a session for the player. Any session the caller
// already held is discarded first.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	req := startReq{Settings: game.DefaultSettings()}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	var rng *rand.Rand
	if req.Daily {
		rng = random.Daily(s.opts.Now(), s.opts.DailySalt)
	} else {
		var err error
		if rng, err = s.opts.NewRand(); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	sess, err := game.New(req.Name, req.Settings, s.catalog, rng)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if tok := s.bearerOrCookie(r); tok != "" {
		if p, err := s.parseToken(tok); err == nil {
			s.discard(r.Context(), p.SessionID)
		}
	}

	view := newGameView(sess)
	if err := s.store.Save(r.Context(), sess); err != nil {
		s.fail(w, r, err)
		return
	}
	tok, exp, err := s.signToken(sess.ID, sess.Name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.setTokenCookie(w, tok, exp)

	hlog.FromRequest(r).Info().
		Str("session", sess.ID).
		Str("category", string(sess.Settings.Category)).
		Str("mode", string(sess.Settings.Mode)).
		Bool("daily", req.Daily).
		Int("questions", sess.Total()).
		Msg("session started")
	if sess.Total() < game.SessionLength {
		hlog.FromRequest(r).Warn().Str("session", sess.ID).Int("questions", sess.Total()).
			Msg("catalog could not fill a full session")
	}

	writeJSON(w, http.StatusCreated, startRes{Token: tok, ExpiresAt: exp, Game: view})
}

// -----------------------------------------------------------------------------
// reads

// handleState returns the current view.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	p, err := currentPlayer(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var view gameView
	err = s.store.View(r.Context(), p.SessionID, func(sess *game.Session) error {
		view = newGameView(sess)
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type suggestRes struct {
	Suggestions []string `json:"suggestions"`
}

// handleSuggest returns autocomplete answers from the session's category.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	p, err := currentPlayer(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	q := r.URL.Query().Get("q")
	res := suggestRes{Suggestions: []string{}}
	err = s.store.View(r.Context(), p.SessionID, func(sess *game.Session) error {
		if got := sess.Suggest(q); got != nil {
			res.Suggestions = got
		}
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------------------------
// mutations

// guessReq is the request payload for /game/guess.
type guessReq struct {
	Guess string `json:"guess"`
}

// handleGuess submits the player's guess for the current round.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.mutate(w, r, func(sess *game.Session) error {
		return sess.SubmitGuess(req.Guess)
	})
}

// handleSkip skips the current round and schedules clearing the skip message.
func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request) {
	var (
		id  string
		seq uint64
		ok  bool
	)
	s.mutate(w, r, func(sess *game.Session) error {
		var err error
		id = sess.ID
		seq, ok, err = sess.Skip()
		return err
	})
	if ok {
		s.feedback.schedule(id, s.clearSkipFeedback(id, seq))
	}
}

// handleAction covers the body-less actions: hint, solution, next, restart.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	action := game.Action(chi.URLParam(r, "action"))
	switch action {
	case game.ActionHint, game.ActionSolution, game.ActionNext, game.ActionRestart:
	default:
		writeError(w, http.StatusNotFound, "unknown_action")
		return
	}
	s.mutate(w, r, func(sess *game.Session) error {
		if action == game.ActionRestart {
			s.feedback.cancel(sess.ID)
		}
		return sess.Apply(action, "")
	})
}

// handleLeave discards the session and forgets the token.
func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	p, err := currentPlayer(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	s.discard(r.Context(), p.SessionID)
	s.clearTokenCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// -----------------------------------------------------------------------------
// helpers

// mutate applies fn to the caller's session and writes the resulting view.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(*game.Session) error) {
	p, err := currentPlayer(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var view gameView
	err = s.store.Update(r.Context(), p.SessionID, func(sess *game.Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		view = newGameView(sess)
		return nil
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// clearSkipFeedback returns the timer callback for a skip. It is a no-op when
// the round identified by seq is no longer current.
func (s *Server) clearSkipFeedback(id string, seq uint64) func() {
	return func() {
		err := s.store.Update(context.Background(), id, func(sess *game.Session) error {
			if sess.ClearFeedback(seq) {
				log.Debug().Str("session", id).Uint64("seq", seq).Msg("cleared skip feedback")
			}
			return nil
		})
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Warn().Err(err).Str("session", id).Msg("clear skip feedback")
		}
	}
}

// discard removes a session and its pending timer.
func (s *Server) discard(ctx context.Context, id string) {
	s.feedback.cancel(id)
	if err := s.store.Delete(ctx, id); err != nil {
		log.Warn().Err(err).Str("session", id).Msg("delete session")
	}
}

// fail logs unexpected errors and writes the mapped status.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
	}
	writeError(w, status, code)
}
