package budget

import (
    "context"
    "fmt"
    "strings"
    "testing"

    openai "github.com/sashabaranov/go-openai"
)

func BenchmarkEstimateTokens(b *testing.B) {
	inputs := []int{64, 256, 1024, 4096, 16384, 65536}
	for _, n := range inputs {
		b.Run(fmt.Sprintf("chars=%d", n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = EstimateTokensFromChars(n)
			}
		})
	}
}

func BenchmarkHeuristicCounter(b *testing.B) {
	msgs := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: "summarize"},
		{Role: openai.ChatMessageRoleUser, Content: strings.Repeat("page text ", 5000)},
	}
	for i := 0; i < b.N; i++ {
		_ = HeuristicCounter{}.CountMessages(context.Background(), "deepseek-chat", msgs)
	}
}
