package gemini

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"devhub/internal/config"
	"devhub/internal/models"
	"devhub/internal/provider"
)

func TestGenerateURL(t *testing.T) {
	p := New(config.ProviderConfig{})
	require.Equal(t,
		"https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-pro:generateContent?key=abc%26def",
		p.generateURL("gemini-1.5-pro", "abc&def"),
	)

	p = New(config.ProviderConfig{BaseURL: "http://127.0.0.1:8080/models/"})
	require.Equal(t, "http://127.0.0.1:8080/models/m:generateContent?key=k", p.generateURL("m", "k"))
}

func TestNewRequest_NoAuthHeader(t *testing.T) {
	p := New(config.ProviderConfig{})
	key := "g-key"
	req, err := p.NewRequest(context.Background(), models.ChatRequest{APIKey: &key, Prompt: "hi"}, p.DefaultModel())
	require.NoError(t, err)
	require.Empty(t, req.Header.Get("Authorization"))
	require.Equal(t, "g-key", req.URL.Query().Get("key"))
}

func TestParseResponse(t *testing.T) {
	p := New(config.ProviderConfig{})

	text, err := p.ParseResponse(provider.Response{Status: 200, Body: []byte(`{"candidates":[{"content":{"parts":[{"text":"first"},{"text":"second"}]}}]}`)})
	require.NoError(t, err)
	require.Equal(t, "first", text)

	for _, body := range []string{
		`{"candidates":[]}`,
		`{"candidates":[{"content":{"parts":[]}}]}`,
		`{"error":{"code":400,"message":"API key not valid"}}`,
	} {
		_, err := p.ParseResponse(provider.Response{Status: 400, Body: []byte(body)})
		require.True(t, provider.IsKind(err, provider.KindInvalidResponse), body)
		require.Contains(t, err.Error(), "gemini")
	}
}
