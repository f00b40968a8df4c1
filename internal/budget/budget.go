package budget

import (
    "context"
    "math"
    "strings"

    openai "github.com/sashabaranov/go-openai"
)

// DefaultReservedOutput is the number of tokens assumed for the reply when
// checking whether a prompt fits.
const DefaultReservedOutput = 1024

// EstimateTokensFromChars converts a character count into an estimated token
// count using a conservative heuristic (~4 chars per token in English). The
// result is always at least 1 when chars > 0.
func EstimateTokensFromChars(charCount int) int {
    if charCount <= 0 {
        return 0
    }
    return int(math.Ceil(float64(charCount) / 4.0))
}

// EstimateTokens returns the estimated token count of a string.
func EstimateTokens(s string) int {
    return EstimateTokensFromChars(len(s))
}

// ModelContextTokens returns an estimated maximum context window for a given
// model name. Unknown models fall back to a sensible default.
func ModelContextTokens(modelName string) int {
    name := strings.ToLower(strings.TrimSpace(modelName))
    if name == "" {
        return 8192
    }
    if v, ok := knownModelMax[name]; ok {
        return v
    }
    // Heuristics based on common suffixes present in model names
    switch {
    case strings.HasSuffix(name, "1m"):
        return 1_000_000
    case strings.HasSuffix(name, "512k"):
        return 512_000
    case strings.HasSuffix(name, "200k"):
        return 200_000
    case strings.HasSuffix(name, "128k"):
        return 128_000
    case strings.HasSuffix(name, "32k"):
        return 32_768
    case strings.Contains(name, "-mini"):
        // Many "mini" models expose large contexts nowadays, assume 128k.
        return 128_000
    }
    return 8192
}

// RemainingContext computes the remaining input token budget given a model,
// a desired reservation for output generation, and the estimated prompt tokens.
// The result is never negative.
func RemainingContext(modelName string, reservedForOutput int, promptTokens int) int {
    maxCtx := ModelContextTokens(modelName)
    if reservedForOutput < 0 {
        reservedForOutput = 0
    }
    remaining := maxCtx - reservedForOutput - promptTokens
    if remaining < 0 {
        return 0
    }
    return remaining
}

// FitsInContext reports whether the prompt can fit into the model's context
// window when reserving the specified number of output tokens.
func FitsInContext(modelName string, reservedForOutput int, promptTokens int) bool {
    return RemainingContext(modelName, reservedForOutput, promptTokens) > 0
}

// Report summarizes how a prompt relates to the model context window.
type Report struct {
    Model          string
    PromptTokens   int
    ReservedOutput int
    ModelContext   int
    Remaining      int
    Fits           bool
}

// Estimate counts the tokens of msgs with counter and compares them with
// the context window of model. It never alters the messages.
func Estimate(ctx context.Context, counter Counter, model string, msgs []openai.ChatCompletionMessage) Report {
    if counter == nil {
        counter = HeuristicCounter{}
    }
    prompt := counter.CountMessages(ctx, model, msgs)
    return Report{
        Model:          model,
        PromptTokens:   prompt,
        ReservedOutput: DefaultReservedOutput,
        ModelContext:   ModelContextTokens(model),
        Remaining:      RemainingContext(model, DefaultReservedOutput, prompt),
        Fits:           FitsInContext(model, DefaultReservedOutput, prompt),
    }
}

// knownModelMax contains rough context sizes for common model identifiers.
// These are best-effort and do not need to be exhaustive.
var knownModelMax = map[string]int{
    // DeepSeek hosted API
    "deepseek-chat":     64_000,
    "deepseek-reasoner": 64_000,

    // OpenAI family (approximate)
    "gpt-4o":        128_000,
    "gpt-4o-mini":   128_000,
    "gpt-4-turbo":   128_000,
    "gpt-4.1":       1_000_000,
    "gpt-4.1-mini":  1_000_000,
    "gpt-3.5-turbo": 16_384,

    // Llama and other popular OSS defaults (high variance in practice)
    "llama-3":   8_192,
    "llama-3.1": 128_000,
}
