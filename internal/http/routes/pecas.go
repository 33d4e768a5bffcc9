package routes

import (
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog/hlog"

	"github.com/briangreenhill/partsgpt/internal/db"
	"github.com/briangreenhill/partsgpt/internal/history"
	appmw "github.com/briangreenhill/partsgpt/internal/http/middleware"
	"github.com/briangreenhill/partsgpt/internal/parts"
	"github.com/briangreenhill/partsgpt/internal/search"
)

// historyLimit is how many entries GET /api/historico returns.
const historyLimit = 50

type searchRequest struct {
	CarName string `json:"carroNome"`
}

type searchResponse struct {
	OK     bool             `json:"ok"`
	Car    string           `json:"carro"`
	Parts  []parts.Numbered `json:"pecas"`
	Source search.Source    `json:"fonte"`
}

type errorResponse struct {
	OK   bool   `json:"ok"`
	Msg  string `json:"msg"`
	Hint string `json:"dica,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	uid, _ := appmw.UserID(r.Context())
	l := hlog.FromRequest(r)

	var in searchRequest
	if !decodeBody(w, r, &in) {
		return
	}

	res, err := s.Search.Search(r.Context(), uid.String(), in.CarName)
	if err != nil {
		var se *search.Error
		if errors.As(err, &se) {
			writeJSON(w, r, se.HTTPStatusCode(), errorResponse{Msg: se.Message, Hint: se.Hint})
			return
		}
		l.Error().Err(err).Msg("search failed")
		fail(w, r, http.StatusInternalServerError, "Erro ao buscar peças")
		return
	}

	// The search already succeeded; a failed history write only gets logged.
	if err := s.History.Record(r.Context(), uid, res.Car); err != nil {
		l.Warn().Err(err).
			Str("user_id", uid.String()).
			Str("username", appmw.Username(r.Context())).
			Msg("record search history failed")
	}

	writeJSON(w, r, http.StatusOK, searchResponse{
		OK:     true,
		Car:    res.Car,
		Parts:  parts.Number(res.Parts),
		Source: res.Source,
	})
}

type historyEntry struct {
	ID         string    `json:"id"`
	Term       string    `json:"termo"`
	SearchedAt time.Time `json:"data_busca"`
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	uid, _ := appmw.UserID(r.Context())

	rows, err := s.Store.ListSearchHistory(r.Context(), db.ListSearchHistoryParams{UserID: uid, Limit: historyLimit})
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("list history failed")
		fail(w, r, http.StatusInternalServerError, "Erro ao buscar histórico")
		return
	}

	out := make([]historyEntry, 0, len(rows))
	for _, h := range rows {
		out = append(out, historyEntry{ID: h.ID.String(), Term: h.Term, SearchedAt: h.SearchedAt.Time})
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"ok": true, "buscas": out})
}

func (s *Server) handleAddHistory(w http.ResponseWriter, r *http.Request) {
	uid, _ := appmw.UserID(r.Context())

	var in struct {
		Term string `json:"termo"`
	}
	if !decodeBody(w, r, &in) {
		return
	}

	err := history.StoreRecorder{Q: s.Store}.Record(r.Context(), uid, in.Term)
	if errors.Is(err, history.ErrEmptyTerm) {
		fail(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("save history failed")
		fail(w, r, http.StatusInternalServerError, "Erro ao salvar histórico")
		return
	}
	writeJSON(w, r, http.StatusCreated, map[string]any{"ok": true, "msg": "Busca salva no histórico"})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	uid, _ := appmw.UserID(r.Context())

	if err := s.Store.ClearSearchHistory(r.Context(), uid); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("clear history failed")
		fail(w, r, http.StatusInternalServerError, "Erro ao limpar histórico")
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"ok": true, "msg": "Histórico limpo"})
}

type catalogPart struct {
	ID        int64    `json:"id"`
	Name      string   `json:"nome"`
	Maker     *string  `json:"fabricante"`
	CarModel  *string  `json:"modelo_carro"`
	YearStart *int32   `json:"ano_inicio"`
	YearEnd   *int32   `json:"ano_fim"`
	Price     *float64 `json:"preco"`
	Stock     int32    `json:"estoque"`
}

func (s *Server) handleListParts(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Store.ListParts(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("list parts failed")
		fail(w, r, http.StatusInternalServerError, "Erro ao buscar peças")
		return
	}

	out := make([]catalogPart, 0, len(rows))
	for _, p := range rows {
		out = append(out, catalogPart{
			ID:        p.ID,
			Name:      p.Name,
			Maker:     textPtr(p.Maker),
			CarModel:  textPtr(p.CarModel),
			YearStart: int4Ptr(p.YearStart),
			YearEnd:   int4Ptr(p.YearEnd),
			Price:     numericPtr(p.Price),
			Stock:     p.Stock,
		})
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"ok": true, "pecas": out})
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return &t.String
}

func int4Ptr(i pgtype.Int4) *int32 {
	if !i.Valid {
		return nil
	}
	return &i.Int32
}

func numericPtr(n pgtype.Numeric) *float64 {
	f, err := n.Float64Value()
	if err != nil || !f.Valid {
		return nil
	}
	return &f.Float64
}
