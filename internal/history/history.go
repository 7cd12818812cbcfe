package history

import (
	"context"
	"sync"

	"github.com/nurpe/ecosort/internal/model"
)

// History stores per-session chat transcripts. The append-only ordering
// of messages is preserved; trimming for the provider happens at read
// time via the limit.
type History interface {
	Append(ctx context.Context, session string, msg model.ChatMessage) error
	Recent(ctx context.Context, session string, limit int) ([]model.ChatMessage, error)
}

const memorySessionCap = 50

// MemoryHistory keeps transcripts in process. Used when Redis is not
// configured.
type MemoryHistory struct {
	mu       sync.Mutex
	sessions map[string][]model.ChatMessage
}

func NewMemory() *MemoryHistory {
	return &MemoryHistory{sessions: make(map[string][]model.ChatMessage)}
}

func (h *MemoryHistory) Append(_ context.Context, session string, msg model.ChatMessage) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	msgs := append(h.sessions[session], msg)
	if len(msgs) > memorySessionCap {
		msgs = msgs[len(msgs)-memorySessionCap:]
	}
	h.sessions[session] = msgs
	return nil
}

func (h *MemoryHistory) Recent(_ context.Context, session string, limit int) ([]model.ChatMessage, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	msgs := h.sessions[session]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]model.ChatMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}
