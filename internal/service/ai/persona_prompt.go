package ai

import (
	"fmt"
	"strings"

	"github.com/zhouzirui/wellness-chat/internal/model/persona"
)

// PromptBuilder turns a persona into the system instruction sent with every exchange.
type PromptBuilder struct{}

// NewPromptBuilder creates a prompt builder.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildSystemPrompt returns the persona's own instruction, or a basic one built from its fields.
func (pb *PromptBuilder) BuildSystemPrompt(p *persona.Persona) string {
	if p == nil {
		return ""
	}
	if instruction := strings.TrimSpace(p.Instruction); instruction != "" {
		return instruction
	}
	return pb.buildBasicSystemPrompt(p)
}

// buildBasicSystemPrompt creates a basic system prompt when the persona carries no instruction
func (pb *PromptBuilder) buildBasicSystemPrompt(p *persona.Persona) string {
	return fmt.Sprintf("Bạn là %s, %s. Hãy trả lời với giọng điệu %s, độ dài vừa phải và đúng trọng tâm.",
		p.Name,
		strings.ToLower(p.Title),
		p.Tone,
	)
}
