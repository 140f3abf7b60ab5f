// Package generation is the boundary to the external text generation service.
// Components depend on Client only; providers adapt go-agents and the OpenAI
// chat completion API to it.
package generation

import (
	"context"
	"fmt"
	"strings"
)

// Client turns a prompt into free-form text.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Func adapts an ordinary function to Client.
type Func func(ctx context.Context, prompt string) (string, error)

// Generate calls f(ctx, prompt).
func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Provider names.
const (
	ProviderAgents = "agents"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

// Options tune a client for one pipeline component.
type Options struct {
	Component   string
	Temperature *float64
}

// New builds the client for the configured provider. ProviderNone yields
// ErrUnavailable so components run on their deterministic fallbacks.
func New(cfg *Config, opts Options) (Client, error) {
	var (
		c   Client
		err error
	)

	switch strings.ToLower(cfg.Provider) {
	case ProviderAgents:
		c, err = NewAgents(cfg.Agent, opts.Temperature)
	case ProviderOpenAI:
		c, err = NewOpenAI(cfg.OpenAI, opts.Temperature)
	case ProviderNone:
		return nil, ErrUnavailable
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return Instrument(c, opts.Component), nil
}
