package service

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

	"github.com/nurpe/ecosort/internal/history"
	"github.com/nurpe/ecosort/internal/model"
)

func TestChatSuccessRemembersExchange(t *testing.T) {
	srv := completionServer(t, "Rinse the bottle and drop it in the dry waste bin.")
	defer srv.Close()

	hist := history.NewMemory()
	svc := NewChatService(testProvider(srv.URL, "test-key"), hist, "gpt-4o-mini", zerolog.Nop())

	reply, err := svc.Chat(context.Background(), "session-1", "Where do plastic bottles go?")
	require.NoError(t, err)
	assert.Equal(t, "Rinse the bottle and drop it in the dry waste bin.", reply)

	msgs, err := hist.Recent(context.Background(), "session-1", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, model.SenderUser, msgs[0].Sender)
	assert.Equal(t, "Where do plastic bottles go?", msgs[0].Text)
	assert.Equal(t, model.SenderBot, msgs[1].Sender)
	assert.Equal(t, reply, msgs[1].Text)
}

func TestChatForwardsRecentHistory(t *testing.T) {
	var captured struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		writeCompletion(w, "ok")
	}))
	defer srv.Close()

	hist := history.NewMemory()
	now := time.Now().UTC()
	require.NoError(t, hist.Append(context.Background(), "s", model.ChatMessage{ID: "1", Text: "hi", Sender: model.SenderUser, Timestamp: now}))
	require.NoError(t, hist.Append(context.Background(), "s", model.ChatMessage{ID: "2", Text: "hello!", Sender: model.SenderBot, Timestamp: now}))

	svc := NewChatService(testProvider(srv.URL, "test-key"), hist, "gpt-4o-mini", zerolog.Nop())
	_, err := svc.Chat(context.Background(), "s", "how do I compost?")
	require.NoError(t, err)

	require.Len(t, captured.Messages, 4)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, "hi", captured.Messages[1].Content)
	assert.Equal(t, "assistant", captured.Messages[2].Role)
	assert.Equal(t, "hello!", captured.Messages[2].Content)
	assert.Equal(t, "user", captured.Messages[3].Role)
	assert.Equal(t, "how do I compost?", captured.Messages[3].Content)
}

func TestChatProviderErrorReturnsApology(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	hist := history.NewMemory()
	svc := NewChatService(testProvider(srv.URL, "test-key"), hist, "gpt-4o-mini", zerolog.Nop())

	reply, err := svc.Chat(context.Background(), "session-1", "hello")
	assert.ErrorIs(t, err, ErrDegraded)
	assert.Equal(t, apologyReply, reply)

	// Failed exchanges are not persisted.
	msgs, _ := hist.Recent(context.Background(), "session-1", 10)
	assert.Empty(t, msgs)
}

func TestChatWithoutAPIKey(t *testing.T) {
	svc := NewChatService(testProvider("http://127.0.0.1:1", ""), history.NewMemory(), "gpt-4o-mini", zerolog.Nop())

	reply, err := svc.Chat(context.Background(), "session-1", "hello")
	assert.ErrorIs(t, err, ErrDegraded)
	assert.Equal(t, apologyReply, reply)
}

func TestChatEmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	svc := NewChatService(testProvider(srv.URL, "test-key"), history.NewMemory(), "gpt-4o-mini", zerolog.Nop())

	reply, err := svc.Chat(context.Background(), "session-1", "hello")
	require.NoError(t, err)
	assert.Equal(t, emptyReply, reply)
}
