package llm

import (
    "context"
    "fmt"
    "net/http"
    "strings"

    openai "github.com/sashabaranov/go-openai"
)

// Client is the minimal interface needed by core logic to call a chat model.
// It mirrors CreateChatCompletion so any OpenAI-compatible backend, or a
// test double, can be plugged in.
type Client interface {
    CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIProvider adapts *openai.Client to the Client interface.
type OpenAIProvider struct {
    Inner *openai.Client
}

func (p *OpenAIProvider) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
    return p.Inner.CreateChatCompletion(ctx, request)
}

// NewOpenAIProvider builds a provider for an OpenAI-compatible endpoint.
// An empty baseURL keeps the library default (api.openai.com).
func NewOpenAIProvider(baseURL, apiKey string, httpClient *http.Client) *OpenAIProvider {
    cfg := openai.DefaultConfig(apiKey)
    if baseURL != "" {
        cfg.BaseURL = baseURL
    }
    if httpClient != nil {
        cfg.HTTPClient = httpClient
    }
    return &OpenAIProvider{Inner: openai.NewClientWithConfig(cfg)}
}

// Preset holds the defaults of a known hosted provider.
type Preset struct {
    Name      string
    BaseURL   string
    Model     string
    KeyPrefix string
}

// DefaultPreset is used when no provider is configured.
const DefaultPreset = "deepseek"

var presets = map[string]Preset{
    "deepseek": {Name: "deepseek", BaseURL: "https://api.deepseek.com", Model: "deepseek-chat", KeyPrefix: "sk-"},
    "openai":   {Name: "openai", BaseURL: "", Model: "gpt-4o-mini", KeyPrefix: "sk-proj-"},
}

// LookupPreset returns the preset registered under name (case-insensitive).
func LookupPreset(name string) (Preset, error) {
    key := strings.ToLower(strings.TrimSpace(name))
    if key == "" {
        key = DefaultPreset
    }
    p, ok := presets[key]
    if !ok {
        return Preset{}, fmt.Errorf("unknown llm provider %q", name)
    }
    return p, nil
}
