package genai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-2.0-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		b, _ := io.ReadAll(r.Body)
		var req generateRequest
		require.NoError(t, json.Unmarshal(b, &req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "liste peças", req.Contents[0].Parts[0].Text)

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"[{\"nome\":"},{"text":"\"Vela\"}]"}]}}]}`))
	}))
	defer srv.Close()

	c := New("test-key", WithBaseURL(srv.URL))
	out, err := c.Generate(context.Background(), "liste peças")
	require.NoError(t, err)
	assert.Equal(t, `[{"nome":"Vela"}]`, out)
}

func TestGenerate_MissingKey(t *testing.T) {
	c := New("")
	_, err := c.Generate(context.Background(), "x")
	assert.True(t, errors.Is(err, ErrMissingAPIKey))
}

func TestGenerate_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	c := New("bad", WithBaseURL(srv.URL))
	_, err := c.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGenerate_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New("k", WithBaseURL(srv.URL)).Generate(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
}

func TestGenerate_EmptyAndBlocked(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"no candidates", `{"candidates":[]}`, ErrEmptyResponse.Error()},
		{"blocked", `{"promptFeedback":{"blockReason":"SAFETY"}}`, "prompt blocked: SAFETY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New("k", WithBaseURL(srv.URL)).Generate(context.Background(), "x")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New("k", WithBaseURL(srv.URL), WithTimeout(20*time.Millisecond))
	_, err := c.Generate(context.Background(), "x")
	require.Error(t, err)
}

func TestOptions(t *testing.T) {
	c := New("k", WithModel("gemini-1.5-pro"), WithBaseURL("http://example.test/v1/"), WithModel(""))
	assert.Equal(t, "gemini-1.5-pro", c.Model())
	assert.Equal(t, "http://example.test/v1", c.baseURL)
	assert.Equal(t, DefaultTimeout, c.http.Timeout)
}
