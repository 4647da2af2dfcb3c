package cohere

import (
	"context"
	"net/http"

	"devhub/internal/config"
	"devhub/internal/models"
	"devhub/internal/provider"
)

const (
	BaseURL      = "https://api.cohere.ai/v1"
	DefaultModel = "command-r-plus"

	roleChatbot = "CHATBOT"
	roleUser    = "USER"
	contentPath = "text"
)

// Provider implements the Cohere v1 chat API.
type Provider struct {
	endpoint provider.Endpoint
	chatURL  string
}

// New constructs the cohere adapter.
func New(cfg config.ProviderConfig) *Provider {
	ep := provider.NewEndpoint(cfg, BaseURL, DefaultModel)
	return &Provider{
		endpoint: ep,
		chatURL:  ep.BaseURL + "/chat",
	}
}

func (p *Provider) Name() string {
	return models.ProviderCohere
}

func (p *Provider) DefaultModel() string {
	return p.endpoint.DefaultModel
}

func (p *Provider) RequiresKey() bool {
	return true
}

type historyEntry struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

type chatPayload struct {
	Model       string         `json:"model"`
	Message     string         `json:"message"`
	ChatHistory []historyEntry `json:"chat_history"`
}

// chatRole maps "assistant" to CHATBOT; every other role is USER.
func chatRole(role string) string {
	if role == "assistant" {
		return roleChatbot
	}
	return roleUser
}

func (p *Provider) NewRequest(ctx context.Context, req models.ChatRequest, model string) (*http.Request, error) {
	history := make([]historyEntry, 0, len(req.History))
	for _, msg := range req.History {
		history = append(history, historyEntry{Role: chatRole(msg.Role), Message: msg.Content})
	}

	payload := chatPayload{
		Model:       model,
		Message:     req.Prompt,
		ChatHistory: history,
	}

	httpReq, err := provider.NewJSONRequest(ctx, p.chatURL, payload, p.endpoint.Headers)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.Key())
	return httpReq, nil
}

type chatResponse struct {
	Text *string `json:"text"`
}

func (p *Provider) ParseResponse(resp provider.Response) (string, error) {
	var body chatResponse
	if err := provider.DecodeJSON(p.Name(), resp.Body, &body); err != nil {
		return "", err
	}
	if body.Text == nil {
		return "", provider.InvalidResponse(p.Name(), contentPath, resp.Status)
	}
	return *body.Text, nil
}
