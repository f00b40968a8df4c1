package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hyperifyio/pagesum/internal/budget"
	"github.com/hyperifyio/pagesum/internal/extract"
	"github.com/hyperifyio/pagesum/internal/fetch"
	"github.com/hyperifyio/pagesum/internal/llm"
	"github.com/hyperifyio/pagesum/internal/render"
	"github.com/hyperifyio/pagesum/internal/summarize"
)

// DefaultTimeout bounds each page fetch when nothing else is configured.
const DefaultTimeout = 30 * time.Second

// Config holds runtime configuration for the application.
type Config struct {
	ConfigPath    string
	URLs          []string
	InputPath     string
	OutputPath    string
	OutputPDFPath string
	Format        string

	// LLM
	Provider   string
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string
	KeyPrefix  string
	Tokenizer  string

	// Fetching
	UserAgent string
	Timeout   time.Duration
	Extractor string

	// Prompt
	LanguageHint     string
	SystemPrompt     string
	SystemPromptFile string

	// Behavior
	DryRun  bool
	Verbose bool
}

// ApplyPreset fills the LLM endpoint, model and key prefix from the named
// provider preset where they are still unset.
func ApplyPreset(cfg *Config) error {
	if cfg == nil {
		return nil
	}
	p, err := llm.LookupPreset(cfg.Provider)
	if err != nil {
		return err
	}
	cfg.Provider = p.Name
	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = p.BaseURL
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = p.Model
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = p.KeyPrefix
	}
	return nil
}

// ApplyDefaults sets the remaining zero fields to their built-in values and
// resolves SystemPromptFile into SystemPrompt.
func ApplyDefaults(cfg *Config) error {
	if cfg == nil {
		return nil
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = fetch.DefaultUserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Format == "" {
		cfg.Format = string(render.FormatMarkdown)
	}
	// A prompt file takes precedence over an inline prompt.
	if strings.TrimSpace(cfg.SystemPromptFile) != "" {
		b, err := os.ReadFile(cfg.SystemPromptFile)
		if err != nil {
			return fmt.Errorf("read system prompt: %w", err)
		}
		cfg.SystemPrompt = strings.TrimSpace(string(b))
	}
	return nil
}

// ValidateConfig reports settings that can never work. Credential problems
// are not errors here; they are reported by the key check and left to the
// provider to reject.
func ValidateConfig(cfg Config) error {
	if len(cfg.URLs) == 0 {
		return ErrNoURLs
	}
	if !cfg.DryRun && strings.TrimSpace(cfg.LLMModel) == "" {
		return errors.New("config: llm.model is required (or set LLM_MODEL)")
	}
	if cfg.Timeout < 0 {
		return errors.New("config: negative timeout is not allowed")
	}
	if _, err := render.ParseFormat(cfg.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := budget.CounterByName(cfg.Tokenizer); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := extract.ByName(cfg.Extractor); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := summarize.ValidateLanguage(cfg.LanguageHint); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
