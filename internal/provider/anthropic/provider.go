package anthropic

import (
	"context"
	"net/http"

	"devhub/internal/config"
	"devhub/internal/models"
	"devhub/internal/provider"
)

const (
	BaseURL      = "https://api.anthropic.com/v1"
	DefaultModel = "claude-3-5-sonnet-20241022"

	apiVersion  = "2023-06-01"
	maxTokens   = 4096
	contentPath = "content[0].text"
)

// Provider implements the Anthropic messages API.
type Provider struct {
	endpoint    provider.Endpoint
	messagesURL string
}

// New constructs the anthropic adapter.
func New(cfg config.ProviderConfig) *Provider {
	ep := provider.NewEndpoint(cfg, BaseURL, DefaultModel)
	return &Provider{
		endpoint:    ep,
		messagesURL: ep.BaseURL + "/messages",
	}
}

func (p *Provider) Name() string {
	return models.ProviderAnthropic
}

func (p *Provider) DefaultModel() string {
	return p.endpoint.DefaultModel
}

func (p *Provider) RequiresKey() bool {
	return true
}

type messagePayload struct {
	Model     string             `json:"model"`
	Messages  []provider.Message `json:"messages"`
	MaxTokens int                `json:"max_tokens"`
}

func (p *Provider) NewRequest(ctx context.Context, req models.ChatRequest, model string) (*http.Request, error) {
	payload := messagePayload{
		Model:     model,
		Messages:  provider.Messages(req.History, req.Prompt),
		MaxTokens: maxTokens,
	}

	httpReq, err := provider.NewJSONRequest(ctx, p.messagesURL, payload, p.endpoint.Headers)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("x-api-key", req.Key())
	httpReq.Header.Set("anthropic-version", apiVersion)
	return httpReq, nil
}

type messageResponse struct {
	Content []struct {
		Type string  `json:"type"`
		Text *string `json:"text"`
	} `json:"content"`
}

func (p *Provider) ParseResponse(resp provider.Response) (string, error) {
	var body messageResponse
	if err := provider.DecodeJSON(p.Name(), resp.Body, &body); err != nil {
		return "", err
	}

	if len(body.Content) == 0 || body.Content[0].Text == nil {
		return "", provider.InvalidResponse(p.Name(), contentPath, resp.Status)
	}
	return *body.Content[0].Text, nil
}
