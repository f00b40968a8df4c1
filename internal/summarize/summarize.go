package summarize

import (
    "context"
    "errors"
    "fmt"
    "strings"

    openai "github.com/sashabaranov/go-openai"

    "github.com/hyperifyio/pagesum/internal/fetch"
    "github.com/hyperifyio/pagesum/internal/llm"
)

// Result is the outcome of summarizing one page.
type Result struct {
    URL     string
    Title   string
    Summary string
    Model   string

    // PromptTokens is the estimated size of the prompt that was sent. It is
    // filled in by callers that run a budget estimate.
    PromptTokens int
}

// Summarizer sends the page prompt to a chat model exactly once. There is no
// retry and no response caching.
type Summarizer struct {
    Client llm.Client
    Model  string
    Prompt Prompt
}

// ErrEmptySummary indicates the model produced no usable content.
var ErrEmptySummary = errors.New("empty summary")

// Summarize returns the model's Markdown summary of page.
func (s *Summarizer) Summarize(ctx context.Context, page fetch.Page) (Result, error) {
    if s.Client == nil || strings.TrimSpace(s.Model) == "" {
        return Result{}, errors.New("summarizer not configured")
    }
    resp, err := s.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
        Model:    s.Model,
        Messages: s.Prompt.Messages(page),
    })
    if err != nil {
        return Result{}, fmt.Errorf("chat completion: %w", err)
    }
    if len(resp.Choices) == 0 {
        return Result{}, ErrEmptySummary
    }
    out := strings.TrimSpace(resp.Choices[0].Message.Content)
    if out == "" {
        return Result{}, ErrEmptySummary
    }
    return Result{URL: page.SourceURL, Title: page.Title, Summary: out, Model: s.Model}, nil
}

// APIStatus extracts the HTTP status of a provider error, or 0 when err
// did not come from the provider API.
func APIStatus(err error) int {
    var apiErr *openai.APIError
    if errors.As(err, &apiErr) {
        return apiErr.HTTPStatusCode
    }
    var reqErr *openai.RequestError
    if errors.As(err, &reqErr) {
        return reqErr.HTTPStatusCode
    }
    return 0
}
