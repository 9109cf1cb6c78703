// Package openai implements llm.Provider on the OpenAI chat completions API.
package openai

import (
	"context"
	"fmt"

	"github.com/barekit/biblio/pkg/llm"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type Provider struct {
	client *openai.Client
	model  string
}

func New(opts ...option.RequestOption) *Provider {
	client := openai.NewClient(opts...)
	return &Provider{
		client: &client,
		model:  openai.ChatModelGPT4oMini,
	}
}

// SetModel sets the model to use.
func (p *Provider) SetModel(model string) {
	p.model = model
}

func (p *Provider) Chat(ctx context.Context, messages []llm.Message) (*llm.Message, error) {
	openaiMessages := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case llm.RoleSystem:
			openaiMessages[i] = openai.SystemMessage(msg.Content)
		case llm.RoleUser:
			openaiMessages[i] = openai.UserMessage(msg.Content)
		case llm.RoleAssistant:
			openaiMessages[i] = openai.AssistantMessage(msg.Content)
		default:
			return nil, fmt.Errorf("unknown role: %s", msg.Role)
		}
	}

	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openaiMessages,
		Model:    p.model,
	})
	if err != nil {
		return nil, err
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("completion returned no choices")
	}

	return &llm.Message{
		Role:    llm.RoleAssistant,
		Content: completion.Choices[0].Message.Content,
	}, nil
}
