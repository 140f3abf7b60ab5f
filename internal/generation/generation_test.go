package generation_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/riskline/internal/generation"
)

func TestNewProviderNone(t *testing.T) {
	_, err := generation.New(&generation.Config{Provider: generation.ProviderNone}, generation.Options{})
	if !errors.Is(err, generation.ErrUnavailable) {
		t.Fatalf("got %v, want ErrUnavailable", err)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := generation.New(&generation.Config{Provider: "oracle"}, generation.Options{})
	if !errors.Is(err, generation.ErrUnknownProvider) {
		t.Fatalf("got %v, want ErrUnknownProvider", err)
	}
}

func TestNewOpenAIWithoutToken(t *testing.T) {
	cfg := &generation.Config{Provider: generation.ProviderOpenAI}
	_, err := generation.New(cfg, generation.Options{Component: "extraction"})
	if !errors.Is(err, generation.ErrUnavailable) {
		t.Fatalf("got %v, want ErrUnavailable", err)
	}
}

func TestOpenAIGenerate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Probability: 0.4"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	temp := 0.3
	cfg := &generation.Config{
		Provider: generation.ProviderOpenAI,
		OpenAI:   generation.OpenAIConfig{Token: "test", Model: "gpt-test", BaseURL: srv.URL},
	}

	c, err := generation.New(cfg, generation.Options{Component: "evaluation", Temperature: &temp})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := c.Generate(context.Background(), "evaluate")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "Probability: 0.4" {
		t.Errorf("content: got %q", out)
	}
	if got["model"] != "gpt-test" {
		t.Errorf("model: got %v", got["model"])
	}
	if v, ok := got["temperature"].(float64); !ok || v < 0.29 || v > 0.31 {
		t.Errorf("temperature: got %v", got["temperature"])
	}
}

func TestOpenAIEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	c, err := generation.NewOpenAI(generation.OpenAIConfig{Token: "t", Model: "m", BaseURL: srv.URL}, nil)
	if err != nil {
		t.Fatalf("NewOpenAI: %v", err)
	}

	if _, err := c.Generate(context.Background(), "x"); !errors.Is(err, generation.ErrEmptyResponse) {
		t.Errorf("got %v, want ErrEmptyResponse", err)
	}
}

func TestInstrumentPassesThrough(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	inner := generation.Func(func(_ context.Context, prompt string) (string, error) {
		calls++
		if prompt == "fail" {
			return "", boom
		}
		return "echo " + prompt, nil
	})

	c := generation.Instrument(inner, "mitigation")

	out, err := c.Generate(context.Background(), "hi")
	if err != nil || out != "echo hi" {
		t.Errorf("got (%q, %v)", out, err)
	}
	if _, err := c.Generate(context.Background(), "fail"); !errors.Is(err, boom) {
		t.Errorf("got %v, want boom", err)
	}
	if calls != 2 {
		t.Errorf("calls: got %d, want 2", calls)
	}
}

func chatServer(t *testing.T, got *map[string]any, content string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","model":"m","choices":[{"index":0,"message":{"role":"assistant","content":"` + content + `"},"finish_reason":"stop"}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAgentsGenerateSendsTemperature(t *testing.T) {
	var got map[string]any
	srv := chatServer(t, &got, "Detection: 0.6")

	cfg := &generation.Config{Provider: generation.ProviderAgents, Agent: gaconfig.DefaultAgentConfig()}
	cfg.Agent.Provider.BaseURL = srv.URL
	cfg.Agent.Model.Name = "m"

	temp := 0.3
	c, err := generation.New(cfg, generation.Options{Component: "evaluation", Temperature: &temp})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := c.Generate(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "Detection: 0.6" {
		t.Errorf("content: got %q", out)
	}
	if got["model"] != "m" {
		t.Errorf("model: got %v", got["model"])
	}
	if v, ok := got["temperature"].(float64); !ok || v != 0.3 {
		t.Errorf("temperature: got %v", got["temperature"])
	}
}

func TestAgentsGenerateWithoutTemperature(t *testing.T) {
	var got map[string]any
	srv := chatServer(t, &got, "ok")

	cfg := gaconfig.DefaultAgentConfig()
	cfg.Provider.BaseURL = srv.URL
	cfg.Model.Name = "m"

	c, err := generation.NewAgents(cfg, nil)
	if err != nil {
		t.Fatalf("NewAgents: %v", err)
	}
	if _, err := c.Generate(context.Background(), "hi"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, ok := got["temperature"]; ok {
		t.Errorf("temperature sent without configuration: %v", got["temperature"])
	}
}

func TestOpenAIZeroTemperatureIsSent(t *testing.T) {
	var got map[string]any
	srv := chatServer(t, &got, "ok")

	temp := 0.0
	c, err := generation.NewOpenAI(generation.OpenAIConfig{Token: "t", Model: "m", BaseURL: srv.URL}, &temp)
	if err != nil {
		t.Fatalf("NewOpenAI: %v", err)
	}
	if _, err := c.Generate(context.Background(), "hi"); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	v, ok := got["temperature"].(float64)
	if !ok {
		t.Fatalf("temperature missing from request: %v", got)
	}
	if v <= 0 || v > 1e-6 {
		t.Errorf("temperature: got %v, want a value just above zero", v)
	}
}
