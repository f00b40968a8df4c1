package app

import (
    "fmt"
    "time"

    "github.com/caarlos0/env/v11"
)

// EnvConfig is the environment surface of Config. Pointer fields stay nil
// when the variable is absent so an explicit "false" or "0" is visible.
type EnvConfig struct {
    ConfigPath string `env:"PAGESUM_CONFIG"`

    Provider  string `env:"LLM_PROVIDER"`
    BaseURL   string `env:"LLM_BASE_URL"`
    Model     string `env:"LLM_MODEL"`
    KeyPrefix string `env:"LLM_KEY_PREFIX"`
    Tokenizer string `env:"PAGESUM_TOKENIZER"`

    // Checked in this order; the first non-empty one is used.
    LLMAPIKey      string `env:"LLM_API_KEY"`
    DeepSeekAPIKey string `env:"DEEPSEEK_API_KEY"`
    OpenAIAPIKey   string `env:"OPENAI_API_KEY"`

    UserAgent string         `env:"PAGESUM_USER_AGENT"`
    Timeout   *time.Duration `env:"PAGESUM_TIMEOUT"`
    Extractor string         `env:"PAGESUM_EXTRACT"`

    Language         string `env:"PAGESUM_LANGUAGE"`
    SystemPrompt     string `env:"SYSTEM_PROMPT"`
    SystemPromptFile string `env:"SYSTEM_PROMPT_FILE"`

    DryRun  *bool `env:"DRY_RUN"`
    Verbose *bool `env:"VERBOSE"`
}

// APIKey returns the first credential found in the environment.
func (e EnvConfig) APIKey() string {
    for _, k := range []string{e.LLMAPIKey, e.DeepSeekAPIKey, e.OpenAIAPIKey} {
        if k != "" {
            return k
        }
    }
    return ""
}

// LoadEnvConfig parses the process environment.
func LoadEnvConfig() (EnvConfig, error) {
    var ec EnvConfig
    if err := env.Parse(&ec); err != nil {
        return ec, fmt.Errorf("parse environment: %w", err)
    }
    return ec, nil
}

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values (flags) take precedence over env.
func ApplyEnvToConfig(cfg *Config) error {
    if cfg == nil { return nil }
    ec, err := LoadEnvConfig()
    if err != nil {
        return err
    }

    setString := func(dst *string, v string) {
        if *dst == "" { *dst = v }
    }
    setString(&cfg.ConfigPath, ec.ConfigPath)
    setString(&cfg.Provider, ec.Provider)
    setString(&cfg.LLMBaseURL, ec.BaseURL)
    setString(&cfg.LLMModel, ec.Model)
    setString(&cfg.LLMAPIKey, ec.APIKey())
    setString(&cfg.KeyPrefix, ec.KeyPrefix)
    setString(&cfg.Tokenizer, ec.Tokenizer)
    setString(&cfg.UserAgent, ec.UserAgent)
    setString(&cfg.Extractor, ec.Extractor)
    setString(&cfg.LanguageHint, ec.Language)
    setString(&cfg.SystemPrompt, ec.SystemPrompt)
    setString(&cfg.SystemPromptFile, ec.SystemPromptFile)

    if cfg.Timeout == 0 && ec.Timeout != nil { cfg.Timeout = *ec.Timeout }
    if !cfg.DryRun && ec.DryRun != nil { cfg.DryRun = *ec.DryRun }
    if !cfg.Verbose && ec.Verbose != nil { cfg.Verbose = *ec.Verbose }
    return nil
}
