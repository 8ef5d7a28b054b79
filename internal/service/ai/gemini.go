package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

// ContentGenerator is the part of the Gemini models API the chat model needs.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiChatModel adapts the Gemini generate-content API to an eino chat model.
type GeminiChatModel struct {
	models ContentGenerator
	model  string
}

var _ model.ChatModel = (*GeminiChatModel)(nil)

// NewGeminiChatModel wraps the Gemini models API for the given model name.
func NewGeminiChatModel(models ContentGenerator, modelName string) (*GeminiChatModel, error) {
	if models == nil {
		return nil, errors.New("gemini models client is required")
	}
	if modelName == "" {
		return nil, errors.New("gemini model name is required")
	}
	return &GeminiChatModel{models: models, model: modelName}, nil
}

// Generate sends the full message list and returns the first candidate as an assistant message.
func (m *GeminiChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	options := model.GetCommonOptions(&model.Options{}, opts...)

	modelName := m.model
	if options.Model != nil && *options.Model != "" {
		modelName = *options.Model
	}

	contents, config := toGeminiContents(input)
	if options.Temperature != nil {
		config.Temperature = options.Temperature
	}
	if options.TopP != nil {
		config.TopP = options.TopP
	}
	if options.MaxTokens != nil {
		config.MaxOutputTokens = int32(*options.MaxTokens)
	}

	resp, err := m.models.GenerateContent(ctx, modelName, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, ErrEmptyReply
	}

	msg := schema.AssistantMessage(resp.Text(), nil)
	msg.ResponseMeta = &schema.ResponseMeta{
		FinishReason: string(resp.Candidates[0].FinishReason),
	}
	if usage := resp.UsageMetadata; usage != nil {
		msg.ResponseMeta.Usage = &schema.TokenUsage{
			PromptTokens:     int(usage.PromptTokenCount),
			CompletionTokens: int(usage.CandidatesTokenCount),
			TotalTokens:      int(usage.TotalTokenCount),
		}
	}
	return msg, nil
}

// Stream yields the whole reply as a single chunk.
func (m *GeminiChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// BindTools is not supported; the relay never registers tools.
func (m *GeminiChatModel) BindTools(tools []*schema.ToolInfo) error {
	if len(tools) == 0 {
		return nil
	}
	return errors.New("gemini chat model: tools are not supported")
}

func toGeminiContents(input []*schema.Message) ([]*genai.Content, *genai.GenerateContentConfig) {
	config := &genai.GenerateContentConfig{}
	contents := make([]*genai.Content, 0, len(input))
	var system string

	for _, msg := range input {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.System:
			if system != "" {
				system += "\n\n"
			}
			system += msg.Content
		case schema.Assistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	return contents, config
}
