package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"devhub/internal/config"
	"devhub/internal/models"
	"devhub/internal/provider"
)

// Built-in endpoints of the OpenAI-compatible family.
const (
	OpenAIBaseURL   = "https://api.openai.com/v1"
	MistralBaseURL  = "https://api.mistral.ai/v1"
	GroqBaseURL     = "https://api.groq.com/openai/v1"
	DeepSeekBaseURL = "https://api.deepseek.com"
)

// Default models.
const (
	OpenAIDefaultModel   = "gpt-4o-mini"
	MistralDefaultModel  = "mistral-large-latest"
	GroqDefaultModel     = "llama-3.3-70b-versatile"
	DeepSeekDefaultModel = "deepseek-chat"
)

const contentPath = "choices[0].message.content"

// Provider speaks the chat/completions dialect shared by OpenAI, Mistral, Groq and DeepSeek.
type Provider struct {
	name        string
	endpoint    provider.Endpoint
	chatURL     string
	temperature *float64
	errorField  bool
}

// Option customises a Provider.
type Option func(*Provider)

// WithTemperature sends a fixed sampling temperature with every request.
func WithTemperature(t float64) Option {
	return func(p *Provider) {
		p.temperature = &t
	}
}

// WithErrorField makes a top-level "error" member in the response a provider error,
// checked before the content path.
func WithErrorField() Option {
	return func(p *Provider) {
		p.errorField = true
	}
}

// New creates an adapter for an OpenAI-compatible endpoint.
func New(name string, endpoint provider.Endpoint, opts ...Option) *Provider {
	p := &Provider{
		name:     name,
		endpoint: endpoint,
		chatURL:  endpoint.BaseURL + "/chat/completions",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewOpenAI returns the openai adapter.
func NewOpenAI(cfg config.ProviderConfig) *Provider {
	return New(models.ProviderOpenAI, provider.NewEndpoint(cfg, OpenAIBaseURL, OpenAIDefaultModel), WithTemperature(0.7))
}

// NewMistral returns the mistral adapter.
func NewMistral(cfg config.ProviderConfig) *Provider {
	return New(models.ProviderMistral, provider.NewEndpoint(cfg, MistralBaseURL, MistralDefaultModel))
}

// NewGroq returns the groq adapter.
func NewGroq(cfg config.ProviderConfig) *Provider {
	return New(models.ProviderGroq, provider.NewEndpoint(cfg, GroqBaseURL, GroqDefaultModel), WithErrorField())
}

// NewDeepSeek returns the deepseek adapter.
func NewDeepSeek(cfg config.ProviderConfig) *Provider {
	return New(models.ProviderDeepSeek, provider.NewEndpoint(cfg, DeepSeekBaseURL, DeepSeekDefaultModel))
}

func (p *Provider) Name() string {
	return p.name
}

func (p *Provider) DefaultModel() string {
	return p.endpoint.DefaultModel
}

func (p *Provider) RequiresKey() bool {
	return true
}

type chatPayload struct {
	Model       string             `json:"model"`
	Messages    []provider.Message `json:"messages"`
	Temperature *float64           `json:"temperature,omitempty"`
}

func (p *Provider) NewRequest(ctx context.Context, req models.ChatRequest, model string) (*http.Request, error) {
	payload := chatPayload{
		Model:       model,
		Messages:    provider.Messages(req.History, req.Prompt),
		Temperature: p.temperature,
	}

	httpReq, err := provider.NewJSONRequest(ctx, p.chatURL, payload, p.endpoint.Headers)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.Key())
	return httpReq, nil
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error json.RawMessage `json:"error"`
}

func (p *Provider) ParseResponse(resp provider.Response) (string, error) {
	var body chatResponse
	if err := provider.DecodeJSON(p.name, resp.Body, &body); err != nil {
		return "", err
	}

	if p.errorField && len(body.Error) > 0 && string(body.Error) != "null" {
		return "", &provider.Error{
			Kind:     provider.KindProvider,
			Provider: p.name,
			Message:  "API error: " + errorText(body.Error),
		}
	}

	if len(body.Choices) == 0 || body.Choices[0].Message.Content == nil {
		return "", provider.InvalidResponse(p.name, contentPath, resp.Status)
	}
	return *body.Choices[0].Message.Content, nil
}

// errorText renders an error member: a bare string, an object's message, or the raw JSON.
func errorText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}
	return strings.TrimSpace(string(raw))
}
