package routes_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	scs "github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/briangreenhill/partsgpt/internal/auth"
	"github.com/briangreenhill/partsgpt/internal/cache"
	"github.com/briangreenhill/partsgpt/internal/db"
	"github.com/briangreenhill/partsgpt/internal/genai"
	"github.com/briangreenhill/partsgpt/internal/http/routes"
	"github.com/briangreenhill/partsgpt/internal/jobs"
	"github.com/briangreenhill/partsgpt/internal/prompt"
	"github.com/briangreenhill/partsgpt/internal/ratelimit"
	"github.com/briangreenhill/partsgpt/internal/search"
)

// MockGeminiServer answers generateContent with a fixed list of parts.
type MockGeminiServer struct {
	server *httptest.Server
	calls  atomic.Int32
}

func NewMockGeminiServer() *MockGeminiServer {
	m := &MockGeminiServer{}
	text := "```json\n[" +
		`{"nome":"Filtro de óleo","descricao":"Filtro do motor","preco_medio":32.9},` +
		`{"nome":"Pastilha de freio","descricao":"Jogo dianteiro","preco_medio":119.9},` +
		`{"nome":"Correia dentada","descricao":"Kit com tensor","preco_medio":289}` +
		"]\n```"
	body, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
		},
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/models/", func(w http.ResponseWriter, r *http.Request) {
		m.calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	})
	m.server = httptest.NewServer(mux)
	return m
}

func (m *MockGeminiServer) Close() {
	m.server.Close()
}

// TestSmokeTest runs register, search and history against a real database.
func TestSmokeTest(t *testing.T) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping smoke test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err)
	defer pool.Close()
	require.NoError(t, db.Migrate(ctx, pool))
	queries := db.New(pool)

	gemini := NewMockGeminiServer()
	defer gemini.Close()

	svc := search.New(search.Options{
		Generator: genai.New("test-key", genai.WithBaseURL(gemini.server.URL)),
		Prompter:  prompt.Default(),
		Cache:     cache.NewResultCache(),
		Limiter:   ratelimit.New(ratelimit.DefaultLimit, ratelimit.DefaultWindow),
	})
	server := routes.New(routes.ServerOptions{
		Sess:   scs.New(),
		Store:  queries,
		Tokens: auth.Tokens{Secret: []byte("test-secret-" + uuid.NewString())},
		Search: svc,
	})

	call := func(method, path, body, token string) (*httptest.ResponseRecorder, map[string]any) {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
		var out map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
		return w, out
	}

	t.Run("complete_user_experience", func(t *testing.T) {
		// 1. Register
		username := "smoke" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		w, _ := call(http.MethodPost, "/api/auth/register",
			`{"username":"`+username+`","password":"segredo1","email":"`+username+`@example.com"}`, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		// 2. Log in with the email, typed in another case
		w, out := call(http.MethodPost, "/api/auth/login",
			`{"username":"`+strings.ToUpper(username)+`@Example.com","password":"segredo1"}`, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		token := out["token"].(string)
		userID := uuid.MustParse(out["usuario"].(map[string]any)["id"].(string))
		defer func() { _ = queries.ClearSearchHistory(ctx, userID) }()

		// 3. Search twice: model first, cache second
		w, out = call(http.MethodPost, "/api/pecas/buscar", `{"carroNome":"Fiat Uno 2015"}`, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Equal(t, "generated", out["fonte"])
		require.Len(t, out["pecas"], 3)

		w, out = call(http.MethodPost, "/api/pecas/buscar", `{"carroNome":"fiat uno 2015"}`, token)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "cache", out["fonte"])
		require.EqualValues(t, 1, gemini.calls.Load())

		// 4. Both searches collapse into one history row
		rows, err := queries.ListSearchHistory(ctx, db.ListSearchHistoryParams{UserID: userID, Limit: 50})
		require.NoError(t, err)
		require.Len(t, rows, 1)

		w, out = call(http.MethodGet, "/api/historico", "", token)
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, out["buscas"], 1)

		// 5. Clear
		w, _ = call(http.MethodDelete, "/api/historico", "", token)
		require.Equal(t, http.StatusOK, w.Code)
		rows, err = queries.ListSearchHistory(ctx, db.ListSearchHistoryParams{UserID: userID, Limit: 50})
		require.NoError(t, err)
		require.Empty(t, rows)

		// 6. Background history task
		redisAddr := os.Getenv("REDIS_ADDR")
		if redisAddr == "" {
			t.Log("REDIS_ADDR not set, skipping job verification")
			return
		}
		client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})
		defer func() { _ = client.Close() }()
		task, err := jobs.NewRecordSearchTask(userID, "Gol G5")
		require.NoError(t, err)
		info, err := client.Enqueue(task, asynq.Queue(jobs.QueueHistory))
		if err != nil {
			t.Logf("redis not available, skipping job verification: %v", err)
			return
		}
		require.NotEmpty(t, info.ID)
	})
}
