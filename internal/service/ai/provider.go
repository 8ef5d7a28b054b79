package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"

	"github.com/zhouzirui/wellness-chat/internal/config"
)

// NewChatModel builds the chat model selected by AI_PROVIDER.
func NewChatModel(ctx context.Context, cfg config.AIConfig, gemini ContentGenerator) (model.ChatModel, error) {
	switch cfg.Provider {
	case config.ProviderArk:
		cm, err := cfg.Ark.NewChatModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create ark chat model: %w", err)
		}
		return cm, nil
	case config.ProviderGemini, "":
		return NewGeminiChatModel(gemini, cfg.ChatModel)
	default:
		return nil, fmt.Errorf("unsupported chat provider %q", cfg.Provider)
	}
}
