// internal/httpserver/token.go
//
// Player tokens: HS256 JWTs whose subject is the session ID.
// A token is issued by POST /game/start and accepted from either the
// Authorization: Bearer header or the token cookie.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// playerClaims is the token payload.
type playerClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// player is placed into the request context by requirePlayer.
type player struct {
	SessionID string
	Name      string
}

// ctxPlayerKey is the context key type for storing *player.
type ctxPlayerKey struct{}

var errNoPlayer = errors.New("no player in context")

// signToken issues a token for sessionID valid for the configured TTL.
func (s *Server) signToken(sessionID, name string) (string, time.Time, error) {
	now := s.opts.Now()
	exp := now.Add(s.opts.TokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, playerClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	ss, err := t.SignedString(s.opts.TokenSecret)
	return ss, exp, err
}

// parseToken verifies a token and returns its player.
func (s *Server) parseToken(tok string) (*player, error) {
	var claims playerClaims
	t, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.opts.TokenSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.opts.Now),
	)
	if err != nil {
		return nil, err
	}
	if !t.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return &player{SessionID: claims.Subject, Name: claims.Name}, nil
}

// requirePlayer enforces a valid token and injects the player into the request context.
func (s *Server) requirePlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := s.bearerOrCookie(r)
		if tok == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		p, err := s.parseToken(tok)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		ctx := context.WithValue(r.Context(), ctxPlayerKey{}, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentPlayer returns the player set by requirePlayer.
func currentPlayer(r *http.Request) (*player, error) {
	p, _ := r.Context().Value(ctxPlayerKey{}).(*player)
	if p == nil {
		return nil, errNoPlayer
	}
	return p, nil
}

// bearerOrCookie extracts a bearer token from Authorization header or the token cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.opts.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// setTokenCookie writes the token cookie with appropriate security attributes.
func (s *Server) setTokenCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, s.cookie(token, exp, 0))
}

// clearTokenCookie deletes the token cookie.
func (s *Server) clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie("", time.Time{}, -1))
}

func (s *Server) cookie(value string, exp time.Time, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if s.opts.SecureCookies {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	return &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: sameSite,
		Expires:  exp,
		MaxAge:   maxAge,
	}
}
