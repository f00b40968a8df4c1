package budget

import (
    "context"
    "errors"
    "fmt"
    "strings"
    "sync"
    "time"

    "github.com/pkoukk/tiktoken-go"
    openai "github.com/sashabaranov/go-openai"
)

// Counter counts the prompt tokens of a chat request.
type Counter interface {
    CountMessages(ctx context.Context, model string, msgs []openai.ChatCompletionMessage) int
}

// Per-message framing overhead, per the OpenAI cookbook.
const (
    tokensPerMessage = 3
    tokensReplyPrime = 3
)

// HeuristicCounter uses EstimateTokens and needs no tokenizer data.
type HeuristicCounter struct{}

func (HeuristicCounter) CountMessages(_ context.Context, _ string, msgs []openai.ChatCompletionMessage) int {
    total := tokensReplyPrime
    for _, m := range msgs {
        total += tokensPerMessage + EstimateTokens(m.Role) + EstimateTokens(m.Content)
    }
    return total
}

// DefaultEncodingWait bounds how long a count waits for an encoding to load.
const DefaultEncodingWait = 5 * time.Second

var errEncodingPending = errors.New("tokenizer encoding still loading")

// TiktokenCounter counts with the BPE encoding of the model, falling back to
// cl100k_base for unknown models and to HeuristicCounter when no encoding is
// available. tiktoken-go downloads encodings on first use; that download runs
// in the background and a count waits for it at most Wait or until ctx is
// done. A failed load is remembered and not retried.
type TiktokenCounter struct {
    // Wait is how long a count waits for a pending load. Zero means
    // DefaultEncodingWait.
    Wait time.Duration

    mu    sync.Mutex
    loads map[string]*encodingLoad
    load  func(model string) (*tiktoken.Tiktoken, error)
}

type encodingLoad struct {
    done chan struct{}
    tkm  *tiktoken.Tiktoken
    err  error
}

func (c *TiktokenCounter) CountMessages(ctx context.Context, model string, msgs []openai.ChatCompletionMessage) int {
    tkm, err := c.encoding(ctx, model)
    if err != nil {
        return HeuristicCounter{}.CountMessages(ctx, model, msgs)
    }
    total := tokensReplyPrime
    for _, m := range msgs {
        total += tokensPerMessage
        total += len(tkm.Encode(m.Role, nil, nil))
        total += len(tkm.Encode(m.Content, nil, nil))
    }
    return total
}

func (c *TiktokenCounter) encoding(ctx context.Context, model string) (*tiktoken.Tiktoken, error) {
    c.mu.Lock()
    if c.loads == nil {
        c.loads = make(map[string]*encodingLoad)
    }
    l, ok := c.loads[model]
    if !ok {
        l = &encodingLoad{done: make(chan struct{})}
        c.loads[model] = l
        load := c.load
        if load == nil {
            load = loadEncoding
        }
        go func() {
            l.tkm, l.err = load(model)
            close(l.done)
        }()
    }
    c.mu.Unlock()

    wait := c.Wait
    if wait <= 0 {
        wait = DefaultEncodingWait
    }
    timer := time.NewTimer(wait)
    defer timer.Stop()
    select {
    case <-l.done:
        return l.tkm, l.err
    case <-ctx.Done():
        return nil, ctx.Err()
    case <-timer.C:
        return nil, errEncodingPending
    }
}

func loadEncoding(model string) (*tiktoken.Tiktoken, error) {
    tkm, err := tiktoken.EncodingForModel(model)
    if err == nil {
        return tkm, nil
    }
    return tiktoken.GetEncoding("cl100k_base")
}

// CounterByName returns the counter registered under name. An empty name
// selects tiktoken.
func CounterByName(name string) (Counter, error) {
    switch strings.ToLower(strings.TrimSpace(name)) {
    case "", "tiktoken":
        return &TiktokenCounter{}, nil
    case "heuristic":
        return HeuristicCounter{}, nil
    default:
        return nil, fmt.Errorf("unknown tokenizer %q", name)
    }
}
