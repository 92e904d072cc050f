package llm

import (
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider is an OpenAIProvider pointed at OpenRouter. Requests
// carry OpenRouter's attribution headers so usage shows up under the app
// name in the OpenRouter dashboard.
type OpenRouterProvider struct {
	*OpenAIProvider
}

func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter API key is required")
	}
	cc := openai.DefaultConfig(cfg.APIKey)
	cc.BaseURL = cfg.BaseURL
	if cc.BaseURL == "" {
		cc.BaseURL = defaultOpenRouterBaseURL
	}
	cc.HTTPClient = &http.Client{Transport: attributionTransport{base: http.DefaultTransport}}

	// Model names are OpenRouter routes such as "google/gemini-2.0-flash-001"
	// and pass through unchanged.
	return &OpenRouterProvider{OpenAIProvider: newOpenAIProvider(cc, cfg.Model)}, nil
}

type attributionTransport struct {
	base http.RoundTripper
}

func (t attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("X-Title", "mathsquiz")
	req.Header.Set("HTTP-Referer", "https://github.com/fol2/mathsquiz")
	return t.base.RoundTrip(req)
}
