package ollama

import (
	"context"
	"net/http"

	"devhub/internal/config"
	"devhub/internal/models"
	"devhub/internal/provider"
)

const (
	BaseURL      = "http://localhost:11434"
	DefaultModel = "llama3.1"

	contentPath = "message.content"
)

// Provider talks to a local Ollama daemon. No credential is needed.
type Provider struct {
	endpoint provider.Endpoint
	chatURL  string
}

// New constructs the ollama adapter.
func New(cfg config.ProviderConfig) *Provider {
	ep := provider.NewEndpoint(cfg, BaseURL, DefaultModel)
	return &Provider{
		endpoint: ep,
		chatURL:  ep.BaseURL + "/api/chat",
	}
}

func (p *Provider) Name() string {
	return models.ProviderOllama
}

func (p *Provider) DefaultModel() string {
	return p.endpoint.DefaultModel
}

func (p *Provider) RequiresKey() bool {
	return false
}

// UnreachableMessage describes a transport failure against the local daemon.
func (p *Provider) UnreachableMessage() string {
	return "Ollama is not reachable at " + p.endpoint.BaseURL + "; make sure it is running"
}

type chatPayload struct {
	Model    string             `json:"model"`
	Messages []provider.Message `json:"messages"`
	Stream   bool               `json:"stream"`
}

func (p *Provider) NewRequest(ctx context.Context, req models.ChatRequest, model string) (*http.Request, error) {
	payload := chatPayload{
		Model:    model,
		Messages: provider.Messages(req.History, req.Prompt),
		Stream:   false,
	}
	return provider.NewJSONRequest(ctx, p.chatURL, payload, p.endpoint.Headers)
}

type chatResponse struct {
	Message struct {
		Content *string `json:"content"`
	} `json:"message"`
}

func (p *Provider) ParseResponse(resp provider.Response) (string, error) {
	var body chatResponse
	if err := provider.DecodeJSON(p.Name(), resp.Body, &body); err != nil {
		return "", err
	}
	if body.Message.Content == nil {
		return "", provider.InvalidResponse(p.Name(), contentPath, resp.Status)
	}
	return *body.Message.Content, nil
}
