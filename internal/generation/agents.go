package generation

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

type agentsClient struct {
	agent   agent.Agent
	options map[string]any
}

// NewAgents creates a Client backed by a go-agents chat agent. A non-nil
// temperature is sent with every chat call and overrides the model's
// configured chat capability.
func NewAgents(cfg gaconfig.AgentConfig, temperature *float64) (Client, error) {
	a, err := agent.New(&cfg)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	c := &agentsClient{agent: a}
	if temperature != nil {
		c.options = map[string]any{"temperature": *temperature}
	}
	return c, nil
}

func (c *agentsClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.agent.Chat(ctx, prompt, c.options)
	if err != nil {
		return "", fmt.Errorf("agent chat: %w", err)
	}

	content := resp.Content()
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
