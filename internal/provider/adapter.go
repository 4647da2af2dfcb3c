package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"devhub/internal/config"
	"devhub/internal/models"
)

const (
	contentTypeJSON = "application/json"
	userAgent       = "devhub/0.1"
)

// Adapter translates canonical chat requests into one provider's wire format.
// Adapters hold no per-call state and are safe for concurrent use.
type Adapter interface {
	Name() string
	DefaultModel() string
	RequiresKey() bool
	// NewRequest builds the single POST for req using the resolved model.
	NewRequest(ctx context.Context, req models.ChatRequest, model string) (*http.Request, error)
	// ParseResponse extracts the text payload from a raw provider response.
	ParseResponse(resp Response) (string, error)
}

// Response is the raw upstream reply handed to ParseResponse.
type Response struct {
	Status int
	Body   []byte
}

// Endpoint is the resolved location and defaults of a provider.
type Endpoint struct {
	BaseURL      string
	DefaultModel string
	Headers      config.Headers
}

// NewEndpoint applies configuration overrides on top of built-in defaults.
func NewEndpoint(cfg config.ProviderConfig, baseURL, defaultModel string) Endpoint {
	ep := Endpoint{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		DefaultModel: defaultModel,
		Headers:      cfg.Headers,
	}
	if v := strings.TrimSpace(cfg.BaseURL); v != "" {
		ep.BaseURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(cfg.DefaultModel); v != "" {
		ep.DefaultModel = v
	}
	return ep
}

// Message is the {role, content} pair shared by most chat APIs.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Messages maps history in order and appends the prompt as the final user turn.
func Messages(history []models.ChatMessage, prompt string) []Message {
	out := make([]Message, 0, len(history)+1)
	for _, msg := range history {
		out = append(out, Message{Role: msg.Role, Content: msg.Content})
	}
	return append(out, Message{Role: "user", Content: prompt})
}

// NewJSONRequest marshals payload into a POST request with the common headers set.
func NewJSONRequest(ctx context.Context, url string, payload any, headers config.Headers) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("construct request: %w", err)
	}

	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("User-Agent", userAgent)

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// DecodeJSON unmarshals a provider body, classifying failures as protocol errors.
func DecodeJSON(name string, body []byte, target any) error {
	if err := json.Unmarshal(body, target); err != nil {
		return ProtocolFailure(name, err)
	}
	return nil
}

// UnreachableDescriber is implemented by adapters that explain transport failures
// in their own terms, such as a local daemon that is not running.
type UnreachableDescriber interface {
	UnreachableMessage() string
}
