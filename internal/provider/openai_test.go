package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/ecosort/internal/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.ProviderConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	}, zerolog.Nop())
}

func TestCompleteReturnsFirstChoice(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "first"}},
				{"message": map[string]any{"content": "second"}},
			},
		})
	}))
	defer srv.Close()

	reply, err := newTestClient(srv.URL).Complete(context.Background(), ChatRequest{
		Model:    "gpt-4o-mini",
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "first", reply)
	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
}

func TestCompleteNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Complete(context.Background(), ChatRequest{Model: "m"})
	assert.Error(t, err)
}

func TestCompleteEmptyChoicesIsNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	reply, err := newTestClient(srv.URL).Complete(context.Background(), ChatRequest{Model: "m"})
	require.NoError(t, err)
	assert.Empty(t, reply)
}

func TestConfigured(t *testing.T) {
	assert.True(t, newTestClient("http://example.com").Configured())

	unconfigured := NewClient(config.ProviderConfig{BaseURL: "http://example.com", Timeout: time.Second}, zerolog.Nop())
	assert.False(t, unconfigured.Configured())
}
