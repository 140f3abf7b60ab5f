package generation

import (
	"context"
	"fmt"
	"math"

	"github.com/sashabaranov/go-openai"
)

const systemPersona = "You are an automotive program risk analyst. Answer precisely in the requested format."

type openAIClient struct {
	client      *openai.Client
	model       string
	temperature *float64
}

// NewOpenAI creates a Client backed by an OpenAI-compatible chat completion
// endpoint. A nil temperature leaves the service default in place.
func NewOpenAI(cfg OpenAIConfig, temperature *float64) (Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("openai token required")
	}

	oc := openai.DefaultConfig(cfg.Token)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}

	return &openAIClient{
		client:      openai.NewClientWithConfig(oc),
		model:       cfg.Model,
		temperature: temperature,
	}, nil
}

func (c *openAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPersona},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if c.temperature != nil {
		// go-openai omits a zero temperature from the request body.
		req.Temperature = max(float32(*c.temperature), math.SmallestNonzeroFloat32)
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
