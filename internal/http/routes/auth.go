package routes

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog/hlog"

	"github.com/briangreenhill/partsgpt/internal/auth"
	"github.com/briangreenhill/partsgpt/internal/db"
	appmw "github.com/briangreenhill/partsgpt/internal/http/middleware"
)

const msgUserExists = "Usuário ou email já existe"

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type userView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if !decodeBody(w, r, &in) {
		return
	}
	username := strings.TrimSpace(in.Username)
	emailAddr := auth.NormalizeEmail(in.Email)
	if username == "" || in.Password == "" {
		fail(w, r, http.StatusBadRequest, "Usuário e senha são obrigatórios")
		return
	}
	if err := auth.ValidateRegistration(username, in.Password, emailAddr); err != nil {
		fail(w, r, http.StatusBadRequest, err.Error())
		return
	}

	email := pgtype.Text{String: emailAddr, Valid: emailAddr != ""}
	exists, err := s.Store.UserExists(r.Context(), db.UserExistsParams{Username: username, Email: email})
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("user exists check failed")
		fail(w, r, http.StatusInternalServerError, "Erro ao registrar usuário")
		return
	}
	if exists {
		fail(w, r, http.StatusBadRequest, msgUserExists)
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("hash password failed")
		fail(w, r, http.StatusInternalServerError, "Erro ao registrar usuário")
		return
	}

	u, err := s.Store.CreateUser(r.Context(), db.CreateUserParams{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
	})
	if err != nil {
		// lost a race with a concurrent registration
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			fail(w, r, http.StatusBadRequest, msgUserExists)
			return
		}
		hlog.FromRequest(r).Error().Err(err).Msg("create user failed")
		fail(w, r, http.StatusInternalServerError, "Erro ao registrar usuário")
		return
	}

	s.signIn(w, r, http.StatusCreated, "Usuário registrado com sucesso", u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if !decodeBody(w, r, &in) {
		return
	}
	login := strings.TrimSpace(in.Username)
	if login == "" || in.Password == "" {
		fail(w, r, http.StatusBadRequest, "Usuário e senha são obrigatórios")
		return
	}

	u, err := s.Store.GetUserByLogin(r.Context(), login)
	if errors.Is(err, pgx.ErrNoRows) {
		writeJSON(w, r, http.StatusUnauthorized, map[string]any{
			"ok":               false,
			"msg":              "Usuário não encontrado",
			"usuarioNaoExiste": true,
		})
		return
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("user lookup failed")
		fail(w, r, http.StatusInternalServerError, "Erro ao fazer login")
		return
	}
	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		fail(w, r, http.StatusUnauthorized, "Senha incorreta")
		return
	}

	s.signIn(w, r, http.StatusOK, "Login realizado com sucesso", u)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if s.Sess != nil {
		if err := s.Sess.Destroy(r.Context()); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("destroy session failed")
		}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"ok": true, "msg": "Logout realizado"})
}

// signIn issues a token and, when sessions are enabled, starts a session.
func (s *Server) signIn(w http.ResponseWriter, r *http.Request, status int, msg string, u db.User) {
	token, err := s.Tokens.Issue(u.ID.String(), u.Username)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("issue token failed")
		fail(w, r, http.StatusInternalServerError, "Erro ao gerar token")
		return
	}

	if s.Sess != nil {
		if err := s.Sess.RenewToken(r.Context()); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("renew session failed")
		}
		s.Sess.Put(r.Context(), appmw.SessionUserID, u.ID.String())
		s.Sess.Put(r.Context(), appmw.SessionUsername, u.Username)
	}

	hlog.FromRequest(r).Info().Str("user_id", u.ID.String()).Msg("user signed in")
	writeJSON(w, r, status, map[string]any{
		"ok":      true,
		"msg":     msg,
		"token":   token,
		"usuario": userView{ID: u.ID.String(), Username: u.Username},
	})
}
