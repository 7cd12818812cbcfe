package history

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nurpe/ecosort/internal/model"
)

const historyTTL = 24 * time.Hour

// RedisHistory keeps transcripts in a Redis list per session, expiring
// after a day of inactivity.
type RedisHistory struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisHistory {
	return &RedisHistory{client: client}
}

func historyKey(session string) string {
	return "chat_history:" + session
}

func (h *RedisHistory) Append(ctx context.Context, session string, msg model.ChatMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	key := historyKey(session)
	if err := h.client.RPush(ctx, key, payload).Err(); err != nil {
		return err
	}
	return h.client.Expire(ctx, key, historyTTL).Err()
}

func (h *RedisHistory) Recent(ctx context.Context, session string, limit int) ([]model.ChatMessage, error) {
	raw, err := h.client.LRange(ctx, historyKey(session), int64(-limit), -1).Result()
	if err != nil {
		return nil, err
	}
	msgs := make([]model.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg model.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}
