package generation

import (
	"fmt"
	"os"
	"slices"
	"strings"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Config selects and configures the generation provider.
type Config struct {
	Provider string               `toml:"provider"`
	Agent    gaconfig.AgentConfig `toml:"agent"`
	OpenAI   OpenAIConfig         `toml:"openai"`
}

// OpenAIConfig configures the OpenAI-compatible provider.
type OpenAIConfig struct {
	Token   string `toml:"token"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
}

// Env maps environment variable names for generation configuration.
type Env struct {
	Provider string

	AgentProviderName string
	AgentBaseURL      string
	AgentToken        string
	AgentDeployment   string
	AgentAPIVersion   string
	AgentAuthType     string
	AgentModelName    string

	OpenAIToken   string
	OpenAIModel   string
	OpenAIBaseURL string
}

// Finalize applies defaults, environment variable overrides, and validation.
// The agent section is only finalized when the agents provider is selected.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	if err := c.validate(); err != nil {
		return err
	}

	if c.Provider == ProviderAgents {
		if err := finalizeAgent(&c.Agent, env); err != nil {
			return fmt.Errorf("agent: %w", err)
		}
	}
	return nil
}

// Merge applies non-zero values from the overlay configuration.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	c.Agent.Merge(&overlay.Agent)
	if overlay.OpenAI.Token != "" {
		c.OpenAI.Token = overlay.OpenAI.Token
	}
	if overlay.OpenAI.Model != "" {
		c.OpenAI.Model = overlay.OpenAI.Model
	}
	if overlay.OpenAI.BaseURL != "" {
		c.OpenAI.BaseURL = overlay.OpenAI.BaseURL
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderAgents
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
}

func (c *Config) loadEnv(env *Env) {
	set := func(key string, dst *string) {
		if key == "" {
			return
		}
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	set(env.Provider, &c.Provider)
	set(env.OpenAIToken, &c.OpenAI.Token)
	set(env.OpenAIModel, &c.OpenAI.Model)
	set(env.OpenAIBaseURL, &c.OpenAI.BaseURL)
}

func (c *Config) validate() error {
	c.Provider = strings.ToLower(c.Provider)
	if !slices.Contains([]string{ProviderAgents, ProviderOpenAI, ProviderNone}, c.Provider) {
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}
	if c.Provider == ProviderOpenAI && c.OpenAI.Model == "" {
		return fmt.Errorf("openai model required")
	}
	return nil
}

func finalizeAgent(c *gaconfig.AgentConfig, env *Env) error {
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	*c = defaults

	if c.Provider == nil {
		c.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Provider.Options == nil {
		c.Provider.Options = make(map[string]any)
	}
	if c.Model == nil {
		c.Model = &gaconfig.ModelConfig{}
	}

	if env != nil {
		get := func(key string) string {
			if key == "" {
				return ""
			}
			return os.Getenv(key)
		}

		if v := get(env.AgentProviderName); v != "" {
			c.Provider.Name = v
		}
		if v := get(env.AgentBaseURL); v != "" {
			c.Provider.BaseURL = v
		}
		if v := get(env.AgentModelName); v != "" {
			c.Model.Name = v
		}

		for key, option := range map[string]string{
			env.AgentToken:      "token",
			env.AgentDeployment: "deployment",
			env.AgentAPIVersion: "api_version",
			env.AgentAuthType:   "auth_type",
		} {
			if v := get(key); v != "" {
				c.Provider.Options[option] = v
			}
		}
	}

	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	return nil
}
