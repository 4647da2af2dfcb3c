package factory

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"devhub/internal/config"
	"devhub/internal/models"
	"devhub/internal/provider"
	anthropicProvider "devhub/internal/provider/anthropic"
	cohereProvider "devhub/internal/provider/cohere"
	geminiProvider "devhub/internal/provider/gemini"
	ollamaProvider "devhub/internal/provider/ollama"
	openaiProvider "devhub/internal/provider/openai"
)

const (
	defaultDialTimeout     = 10 * time.Second
	defaultKeepAlive       = 30 * time.Second
	defaultIdleConnTimeout = 90 * time.Second
)

// NewRegistry registers one adapter per supported provider, applying configured overrides.
func NewRegistry(cfg config.Config) (*provider.Registry, error) {
	registry := provider.NewRegistry()

	adapters := []provider.Adapter{
		openaiProvider.NewOpenAI(cfg.Provider(models.ProviderOpenAI)),
		anthropicProvider.New(cfg.Provider(models.ProviderAnthropic)),
		geminiProvider.New(cfg.Provider(models.ProviderGemini)),
		cohereProvider.New(cfg.Provider(models.ProviderCohere)),
		openaiProvider.NewMistral(cfg.Provider(models.ProviderMistral)),
		openaiProvider.NewGroq(cfg.Provider(models.ProviderGroq)),
		openaiProvider.NewDeepSeek(cfg.Provider(models.ProviderDeepSeek)),
		ollamaProvider.New(cfg.Provider(models.ProviderOllama)),
	}

	for _, a := range adapters {
		if err := registry.Register(a); err != nil {
			return nil, fmt.Errorf("register %s provider: %w", a.Name(), err)
		}
	}
	return registry, nil
}

// NewHTTPClient returns the pooled client shared by all adapters.
func NewHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: defaultDialTimeout, KeepAlive: defaultKeepAlive}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          50,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
