package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/zhouzirui/wellness-chat/internal/model/chat"
	"github.com/zhouzirui/wellness-chat/internal/model/persona"
)

// ErrEmptyReply is returned when the model answers without a message.
var ErrEmptyReply = errors.New("model returned no message")

// Service encapsulates AI-powered chat functionality
type Service struct {
	chatModel model.ChatModel
	persona   persona.Persona
	system    string
	chain     compose.Runnable[map[string]any, *schema.Message]
	now       func() time.Time
}

// NewService creates a new AI service instance bound to one persona.
func NewService(ctx context.Context, chatModel model.ChatModel, p persona.Persona) (*Service, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		persona:   p,
		system:    NewPromptBuilder().BuildSystemPrompt(&p),
		chain:     runnable,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// Persona returns the persona every conversation is initialised with.
func (s *Service) Persona() persona.Persona {
	return s.persona
}

// NewConversation creates a fresh conversation handle for a browser session.
func (s *Service) NewConversation(sessionID string) *Conversation {
	now := s.now()
	return &Conversation{
		id:         uuid.NewString(),
		sessionID:  sessionID,
		personaID:  s.persona.ID,
		system:     s.system,
		responder:  s,
		now:        s.now,
		createdAt:  now,
		lastActive: now,
	}
}

// GenerateResponse runs one exchange through the chain with the given history.
func (s *Service) GenerateResponse(ctx context.Context, system string, history []chat.Message, userMessage string) (*schema.Message, error) {
	input := map[string]any{
		"system":  system,
		"history": buildHistoryMessages(history),
		"query":   userMessage,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to run AI chain: %w", err)
	}
	if response == nil {
		return nil, ErrEmptyReply
	}

	log.Debug().
		Str("component", "ai").
		Str("persona", s.persona.ID).
		Int("history", len(history)).
		Int("length", len(response.Content)).
		Msg("generated response")
	return response, nil
}

func buildHistoryMessages(messages []chat.Message) []*schema.Message {
	if len(messages) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		switch msg.Sender {
		case chat.SenderUser:
			history = append(history, schema.UserMessage(msg.Content))
		case chat.SenderAssistant:
			history = append(history, schema.AssistantMessage(msg.Content, nil))
		}
	}

	return history
}
