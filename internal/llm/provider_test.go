package llm

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"

    openai "github.com/sashabaranov/go-openai"
)

func TestLookupPreset(t *testing.T) {
    p, err := LookupPreset("")
    if err != nil || p.Name != DefaultPreset {
        t.Fatalf("empty name should give default preset, got %+v err=%v", p, err)
    }
    p, err = LookupPreset("OpenAI")
    if err != nil {
        t.Fatalf("openai: %v", err)
    }
    if p.Model != "gpt-4o-mini" || p.KeyPrefix != "sk-proj-" {
        t.Fatalf("unexpected openai preset: %+v", p)
    }
    if _, err := LookupPreset("mystery"); err == nil {
        t.Fatalf("expected error for unknown provider")
    }
}

func TestOpenAIProvider_UsesBaseURLAndKey(t *testing.T) {
    var gotAuth, gotPath string
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        gotAuth = r.Header.Get("Authorization")
        gotPath = r.URL.Path
        w.Header().Set("Content-Type", "application/json")
        _ = json.NewEncoder(w).Encode(map[string]any{
            "choices": []map[string]any{{
                "index":   0,
                "message": map[string]any{"role": "assistant", "content": "summary"},
            }},
        })
    }))
    defer srv.Close()

    p := NewOpenAIProvider(srv.URL+"/v1", "sk-test", srv.Client())
    resp, err := p.CreateChatCompletion(context.Background(), openai.ChatCompletionRequest{
        Model:    "m",
        Messages: []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: "hi"}},
    })
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if gotAuth != "Bearer sk-test" {
        t.Fatalf("Authorization=%q", gotAuth)
    }
    if gotPath != "/v1/chat/completions" {
        t.Fatalf("path=%q", gotPath)
    }
    if len(resp.Choices) != 1 || resp.Choices[0].Message.Content != "summary" {
        t.Fatalf("unexpected response: %+v", resp)
    }
}
