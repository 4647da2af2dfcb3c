package models

// Supported provider identifiers. Matching is case-sensitive.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderCohere    = "cohere"
	ProviderMistral   = "mistral"
	ProviderGroq      = "groq"
	ProviderDeepSeek  = "deepseek"
	ProviderOllama    = "ollama"
)

// Providers is the closed set of provider identifiers the gateway dispatches on.
var Providers = []string{
	ProviderOpenAI,
	ProviderAnthropic,
	ProviderGemini,
	ProviderCohere,
	ProviderMistral,
	ProviderGroq,
	ProviderDeepSeek,
	ProviderOllama,
}

// IsKnownProvider reports whether name is one of Providers.
func IsKnownProvider(name string) bool {
	for _, p := range Providers {
		if p == name {
			return true
		}
	}
	return false
}

// ChatMessage is a single prior turn of a conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the canonical, provider-agnostic chat request.
type ChatRequest struct {
	Provider string        `json:"provider"`
	APIKey   *string       `json:"api_key,omitempty"`
	Prompt   string        `json:"prompt"`
	History  []ChatMessage `json:"history"`
	Model    *string       `json:"model,omitempty"`
}

// Key returns the API key, or "" when none was supplied.
func (r ChatRequest) Key() string {
	if r.APIKey == nil {
		return ""
	}
	return *r.APIKey
}

// ModelOr returns the requested model override, falling back to def.
func (r ChatRequest) ModelOr(def string) string {
	if r.Model == nil || *r.Model == "" {
		return def
	}
	return *r.Model
}

// ChatResponse is the single normalized output of any provider call.
type ChatResponse struct {
	Content string `json:"content"`

	// Unsupported marks the soft-failure notice returned for unknown providers.
	Unsupported bool `json:"-"`
}

// CodeRequest asks for a code snippet; it is templated into a ChatRequest.
type CodeRequest struct {
	Provider    string  `json:"provider"`
	APIKey      *string `json:"api_key,omitempty"`
	Description string  `json:"description"`
	Language    string  `json:"language"`
	Model       *string `json:"model,omitempty"`
}

// CodeResponse carries generated code and the language echoed from the request.
type CodeResponse struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
