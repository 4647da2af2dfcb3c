package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"devhub/internal/config"
	"devhub/internal/models"
)

type stubAdapter struct{ name string }

func (s stubAdapter) Name() string         { return s.name }
func (s stubAdapter) DefaultModel() string { return "m" }
func (s stubAdapter) RequiresKey() bool    { return false }
func (s stubAdapter) NewRequest(ctx context.Context, _ models.ChatRequest, _ string) (*http.Request, error) {
	return http.NewRequestWithContext(ctx, http.MethodPost, "http://example.invalid", nil)
}
func (s stubAdapter) ParseResponse(Response) (string, error) { return "", nil }

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(stubAdapter{name: "b"}))
	require.NoError(t, r.Register(stubAdapter{name: "a"}))

	err := r.Register(stubAdapter{name: "a"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "already registered")

	require.Error(t, r.Register(nil))

	_, ok := r.Lookup("a")
	require.True(t, ok)
	_, ok = r.Lookup("A")
	require.False(t, ok)

	require.Equal(t, []string{"a", "b"}, r.Names())
}

func TestMessages(t *testing.T) {
	got := Messages([]models.ChatMessage{
		{Role: "user", Content: "one"},
		{Role: "assistant", Content: "two"},
	}, "three")

	require.Equal(t, []Message{
		{Role: "user", Content: "one"},
		{Role: "assistant", Content: "two"},
		{Role: "user", Content: "three"},
	}, got)

	require.Equal(t, []Message{{Role: "user", Content: "only"}}, Messages(nil, "only"))
}

func TestNewEndpoint(t *testing.T) {
	ep := NewEndpoint(config.ProviderConfig{}, "https://api.example.com/v1/", "base-model")
	require.Equal(t, "https://api.example.com/v1", ep.BaseURL)
	require.Equal(t, "base-model", ep.DefaultModel)

	ep = NewEndpoint(config.ProviderConfig{
		BaseURL:      " http://localhost:9000/ ",
		DefaultModel: "override",
		Headers:      config.Headers{"X-Team": "dev"},
	}, "https://api.example.com/v1", "base-model")
	require.Equal(t, "http://localhost:9000", ep.BaseURL)
	require.Equal(t, "override", ep.DefaultModel)
	require.Equal(t, "dev", ep.Headers["X-Team"])
}

func TestNewJSONRequest(t *testing.T) {
	req, err := NewJSONRequest(context.Background(), "http://localhost/x", map[string]int{"n": 1}, config.Headers{"X-Extra": "1"})
	require.NoError(t, err)
	require.Equal(t, http.MethodPost, req.Method)
	require.Equal(t, "application/json", req.Header.Get("Content-Type"))
	require.Equal(t, "1", req.Header.Get("X-Extra"))

	body, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"n":1}`, string(body))

	_, err = NewJSONRequest(context.Background(), "http://localhost/x", make(chan int), nil)
	require.Error(t, err)
}

func TestDecodeJSON(t *testing.T) {
	var v map[string]any
	require.NoError(t, DecodeJSON("openai", []byte(`{"a":1}`), &v))

	err := DecodeJSON("openai", []byte(`not json`), &v)
	require.True(t, IsKind(err, KindProtocol))
	require.ErrorIs(t, err, ErrProtocol)
}

func TestErrorKinds(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", MissingKey("openai"))
	require.Equal(t, KindConfiguration, KindOf(err))
	require.ErrorIs(t, err, ErrConfiguration)
	require.False(t, errors.Is(err, ErrNetwork))
	require.Contains(t, err.Error(), "openai: API key not provided")

	require.Equal(t, KindUnknown, KindOf(errors.New("plain")))

	inv := InvalidResponse("cohere", "text", 200)
	require.Equal(t, "cohere: invalid response: missing text", inv.Error())
	inv = InvalidResponse("cohere", "text", 500)
	require.Contains(t, inv.Error(), "HTTP 500")

	cause := errors.New("boom")
	netErr := &Error{Kind: KindNetwork, Provider: "groq", Message: "request failed", Err: cause}
	require.ErrorIs(t, netErr, cause)
	require.Equal(t, "network", netErr.Kind.String())
}
