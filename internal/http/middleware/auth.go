package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	scs "github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/briangreenhill/partsgpt/internal/auth"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UsernameKey contextKey = "username"
)

// Session keys written at login.
const (
	SessionUserID   = "user_id"
	SessionUsername = "username"
)

// Verifier validates bearer tokens.
type Verifier interface {
	Verify(token string) (*auth.Claims, error)
}

// RequireAuth accepts a bearer token or, when sess is set, a logged-in
// session. Anything else gets a JSON 401.
func RequireAuth(v Verifier, sess *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if tok, ok := bearerToken(r); ok {
				claims, err := v.Verify(tok)
				if err != nil {
					hlog.FromRequest(r).Debug().Err(err).Msg("token rejected")
					unauthorized(w, "Token inválido")
					return
				}
				uid, err := uuid.Parse(claims.UserID)
				if err != nil {
					unauthorized(w, "Token inválido")
					return
				}
				next.ServeHTTP(w, r.WithContext(withUser(ctx, uid, claims.Username)))
				return
			}

			if sess != nil {
				if id := sess.GetString(ctx, SessionUserID); id != "" {
					if uid, err := uuid.Parse(id); err == nil {
						next.ServeHTTP(w, r.WithContext(withUser(ctx, uid, sess.GetString(ctx, SessionUsername))))
						return
					}
				}
			}

			unauthorized(w, "Token não fornecido")
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	scheme, tok, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}

func withUser(ctx context.Context, id uuid.UUID, username string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, id)
	return context.WithValue(ctx, UsernameKey, username)
}

// UserID returns the authenticated user set by RequireAuth.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return id, ok
}

func Username(ctx context.Context) string {
	s, _ := ctx.Value(UsernameKey).(string)
	return s
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "msg": msg})
}
