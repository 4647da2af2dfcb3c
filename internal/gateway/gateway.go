package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"devhub/internal/locale"
	"devhub/internal/models"
	"devhub/internal/provider"
)

const (
	defaultTimeout   = 60 * time.Second
	maxResponseBytes = 8 << 20 // 8 MiB
)

// Gateway dispatches canonical chat requests to provider adapters.
// It keeps no state between calls.
type Gateway struct {
	registry   *provider.Registry
	client     *http.Client
	catalog    locale.Catalog
	timeout    time.Duration
	logger     zerolog.Logger
	logContent bool
}

// Option customises a Gateway.
type Option func(*Gateway)

// WithCatalog sets the display language used for the unsupported-provider notice
// and the code prompt.
func WithCatalog(c locale.Catalog) Option {
	return func(g *Gateway) {
		g.catalog = c
	}
}

// WithTimeout bounds every provider call.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Gateway) {
		g.logger = l
	}
}

// WithContentLogging logs prompts and raw response bodies. Off by default.
func WithContentLogging(enabled bool) Option {
	return func(g *Gateway) {
		g.logContent = enabled
	}
}

// New constructs a gateway over the registry, sharing client across all calls.
func New(registry *provider.Registry, client *http.Client, opts ...Option) (*Gateway, error) {
	if registry == nil {
		return nil, errors.New("registry must not be nil")
	}
	if client == nil {
		return nil, errors.New("http client must not be nil")
	}

	g := &Gateway{
		registry: registry,
		client:   client,
		catalog:  locale.Default(),
		timeout:  defaultTimeout,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Catalog returns the display-language catalog in use.
func (g *Gateway) Catalog() locale.Catalog {
	return g.catalog
}

// Chat sends one request to the provider named in req and returns its normalized reply.
// An unknown provider is not an error: the reply carries a notice and Unsupported is set.
func (g *Gateway) Chat(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error) {
	adapter, ok := g.registry.Lookup(req.Provider)
	if !ok {
		g.logger.Warn().Str("provider", req.Provider).Msg("unsupported provider")
		return models.ChatResponse{Content: g.catalog.UnsupportedProvider, Unsupported: true}, nil
	}

	name := adapter.Name()
	if adapter.RequiresKey() && strings.TrimSpace(req.Key()) == "" {
		return models.ChatResponse{}, provider.MissingKey(name)
	}

	model := req.ModelOr(adapter.DefaultModel())

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	httpReq, err := adapter.NewRequest(ctx, req, model)
	if err != nil {
		return models.ChatResponse{}, fmt.Errorf("%s: build request: %w", name, err)
	}

	g.logger.Debug().
		Str("provider", name).
		Str("model", model).
		Bool("api_key_present", req.Key() != "").
		Int("history", len(req.History)).
		Msg("provider request")
	if g.logContent {
		g.logger.Info().Str("provider", name).Str("prompt", req.Prompt).Msg("provider prompt")
	}

	start := time.Now()
	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		return models.ChatResponse{}, networkError(adapter, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return models.ChatResponse{}, &provider.Error{
			Kind:     provider.KindNetwork,
			Provider: name,
			Message:  "failed to read response",
			Err:      transportCause(err),
		}
	}

	g.logger.Info().
		Str("provider", name).
		Str("model", model).
		Int("status", httpResp.StatusCode).
		Int64("latency_ms", time.Since(start).Milliseconds()).
		Msg("provider response")
	if g.logContent {
		g.logger.Info().Str("provider", name).RawJSON("body", jsonOrQuoted(body)).Msg("provider response body")
	}

	content, err := adapter.ParseResponse(provider.Response{Status: httpResp.StatusCode, Body: body})
	if err != nil {
		return models.ChatResponse{}, err
	}
	return models.ChatResponse{Content: content}, nil
}

// GenerateCode asks the provider for a snippet and echoes the requested language.
func (g *Gateway) GenerateCode(ctx context.Context, req models.CodeRequest) (models.CodeResponse, error) {
	chatReq := models.ChatRequest{
		Provider: req.Provider,
		APIKey:   req.APIKey,
		Prompt:   g.catalog.CodePrompt(req.Language, req.Description),
		History:  []models.ChatMessage{},
		Model:    req.Model,
	}

	resp, err := g.Chat(ctx, chatReq)
	if err != nil {
		return models.CodeResponse{}, err
	}

	return models.CodeResponse{
		Code:     resp.Content,
		Language: req.Language,
	}, nil
}

func networkError(adapter provider.Adapter, err error) error {
	msg := "request failed"
	if d, ok := adapter.(provider.UnreachableDescriber); ok {
		msg = d.UnreachableMessage()
	}
	return &provider.Error{
		Kind:     provider.KindNetwork,
		Provider: adapter.Name(),
		Message:  msg,
		Err:      transportCause(err),
	}
}

// transportCause drops the request URL from transport errors; some providers
// carry the API key in the query string.
func transportCause(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", strings.ToLower(urlErr.Op), urlErr.Err)
	}
	return err
}

func jsonOrQuoted(body []byte) []byte {
	if json.Valid(body) {
		return body
	}
	quoted, _ := json.Marshal(string(body))
	return quoted
}
