package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/ecosort/internal/history"
	"github.com/nurpe/ecosort/internal/model"
	"github.com/nurpe/ecosort/internal/provider"
)

const chatSystemPrompt = `You are EcoBot, a helpful AI assistant specialized in waste management and environmental sustainability.

Your expertise includes:
- Waste segregation and disposal methods
- Recycling guidelines and best practices
- Composting and organic waste management
- Hazardous waste handling
- Environmental impact and sustainability tips
- Local waste management policies

Provide clear, actionable advice. Keep responses concise but informative (max 300 words). Use emojis appropriately to make responses engaging.`

const (
	apologyReply = "Sorry, I'm having trouble connecting right now. Please try again later."
	emptyReply   = "Sorry, I could not process your request."

	// historyWindow bounds how much transcript is fed back to the
	// provider; the gateway itself never truncates mid-conversation.
	historyWindow = 5
)

type ChatService struct {
	client  *provider.Client
	history history.History
	model   string
	log     zerolog.Logger
}

func NewChatService(client *provider.Client, hist history.History, modelName string, log zerolog.Logger) *ChatService {
	return &ChatService{client: client, history: hist, model: modelName, log: log}
}

// Chat always returns text. Any transport or configuration failure yields
// the fixed apology plus a non-nil error so the HTTP layer can answer 500
// with a still-usable body.
func (s *ChatService) Chat(ctx context.Context, session, message string) (string, error) {
	if !s.client.Configured() {
		return apologyReply, fmt.Errorf("%w: API key not configured", ErrDegraded)
	}

	messages := []provider.Message{{Role: "system", Content: chatSystemPrompt}}
	recent, err := s.history.Recent(ctx, session, historyWindow)
	if err != nil {
		s.log.Warn().Err(err).Str("session", session).Msg("chat history unavailable")
	}
	for _, msg := range recent {
		role := "user"
		if msg.Sender == model.SenderBot {
			role = "assistant"
		}
		messages = append(messages, provider.Message{Role: role, Content: msg.Text})
	}
	messages = append(messages, provider.Message{Role: "user", Content: message})

	reply, err := s.client.Complete(ctx, provider.ChatRequest{
		Model:       s.model,
		Messages:    messages,
		MaxTokens:   500,
		Temperature: 0.7,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("chat request failed")
		return apologyReply, fmt.Errorf("%w: %v", ErrDegraded, err)
	}
	if reply == "" {
		reply = emptyReply
	}

	s.remember(ctx, session, message, reply)
	return reply, nil
}

func (s *ChatService) remember(ctx context.Context, session, userText, botText string) {
	now := time.Now().UTC()
	entries := []model.ChatMessage{
		{ID: uuid.New().String(), Text: userText, Sender: model.SenderUser, Timestamp: now},
		{ID: uuid.New().String(), Text: botText, Sender: model.SenderBot, Timestamp: now},
	}
	for _, entry := range entries {
		if err := s.history.Append(ctx, session, entry); err != nil {
			s.log.Warn().Err(err).Str("session", session).Msg("failed to persist chat message")
			return
		}
	}
}
