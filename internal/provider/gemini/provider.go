package gemini

import (
	"context"
	"net/http"
	"net/url"

	"devhub/internal/config"
	"devhub/internal/models"
	"devhub/internal/provider"
)

const (
	BaseURL      = "https://generativelanguage.googleapis.com/v1beta/models"
	DefaultModel = "gemini-1.5-flash"

	contentPath = "candidates[0].content.parts[0].text"
)

// Provider implements the Gemini generateContent API. The key travels as a query parameter.
type Provider struct {
	endpoint provider.Endpoint
}

// New constructs the gemini adapter.
func New(cfg config.ProviderConfig) *Provider {
	return &Provider{endpoint: provider.NewEndpoint(cfg, BaseURL, DefaultModel)}
}

func (p *Provider) Name() string {
	return models.ProviderGemini
}

func (p *Provider) DefaultModel() string {
	return p.endpoint.DefaultModel
}

func (p *Provider) RequiresKey() bool {
	return true
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generatePayload struct {
	Contents []content `json:"contents"`
}

// generateURL returns {base}/{model}:generateContent?key={key}.
func (p *Provider) generateURL(model, key string) string {
	q := url.Values{}
	q.Set("key", key)
	return p.endpoint.BaseURL + "/" + url.PathEscape(model) + ":generateContent?" + q.Encode()
}

func (p *Provider) NewRequest(ctx context.Context, req models.ChatRequest, model string) (*http.Request, error) {
	// History and prompt flatten into a single parts array; roles are dropped.
	parts := make([]part, 0, len(req.History)+1)
	for _, msg := range req.History {
		parts = append(parts, part{Text: msg.Content})
	}
	parts = append(parts, part{Text: req.Prompt})

	payload := generatePayload{Contents: []content{{Parts: parts}}}
	return provider.NewJSONRequest(ctx, p.generateURL(model, req.Key()), payload, p.endpoint.Headers)
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (p *Provider) ParseResponse(resp provider.Response) (string, error) {
	var body generateResponse
	if err := provider.DecodeJSON(p.Name(), resp.Body, &body); err != nil {
		return "", err
	}

	if len(body.Candidates) == 0 ||
		len(body.Candidates[0].Content.Parts) == 0 ||
		body.Candidates[0].Content.Parts[0].Text == nil {
		return "", provider.InvalidResponse(p.Name(), contentPath, resp.Status)
	}
	return *body.Candidates[0].Content.Parts[0].Text, nil
}
