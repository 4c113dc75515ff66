package llm

import (
	"context"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

type OpenAI struct {
	model llms.Model
}

func NewOpenAI(apiKey, modelName string) (*OpenAI, error) {
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}
	m, err := openai.New(openai.WithToken(apiKey), openai.WithModel(modelName))
	if err != nil {
		return nil, err
	}
	return &OpenAI{model: m}, nil
}

// NewOpenAIWithModel wraps any langchaingo model.
func NewOpenAIWithModel(m llms.Model) *OpenAI { return &OpenAI{model: m} }

func (o *OpenAI) Close() error { return nil }

func (o *OpenAI) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	resp, err := o.model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}, llms.WithJSONMode(), llms.WithTemperature(0.2))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Content, nil
}
