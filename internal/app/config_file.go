package app

import (
    "encoding/json"
    "fmt"
    "os"
    "path/filepath"
    "time"

    yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
// Nested sections map naturally to the dotted flag names.
type FileConfig struct {
    URLs      []string `yaml:"urls" json:"urls"`
    Input     string   `yaml:"input" json:"input"`
    Output    string   `yaml:"output" json:"output"`
    OutputPDF string   `yaml:"outputPDF" json:"outputPDF"`
    Format    string   `yaml:"format" json:"format"`

    LLM struct {
        Provider  string `yaml:"provider" json:"provider"`
        BaseURL   string `yaml:"base" json:"base"`
        Model     string `yaml:"model" json:"model"`
        APIKey    string `yaml:"key" json:"key"`
        KeyPrefix string `yaml:"keyPrefix" json:"keyPrefix"`
        Tokenizer string `yaml:"tokenizer" json:"tokenizer"`
    } `yaml:"llm" json:"llm"`

    Fetch struct {
        UserAgent string   `yaml:"ua" json:"ua"`
        Timeout   Duration `yaml:"timeout" json:"timeout"`
        Extractor string   `yaml:"extract" json:"extract"`
    } `yaml:"fetch" json:"fetch"`

    Language string `yaml:"language" json:"language"`
    DryRun   bool   `yaml:"dryRun" json:"dryRun"`
    Verbose  bool   `yaml:"verbose" json:"verbose"`

    Prompts struct {
        SystemPrompt     string `yaml:"systemPrompt" json:"systemPrompt"`
        SystemPromptFile string `yaml:"systemPromptFile" json:"systemPromptFile"`
    } `yaml:"prompts" json:"prompts"`
}

// Duration accepts "30s"-style strings in YAML and JSON.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
    var s string
    if err := node.Decode(&s); err != nil {
        return err
    }
    return d.set(s)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
    var s string
    if err := json.Unmarshal(b, &s); err != nil {
        return err
    }
    return d.set(s)
}

func (d *Duration) set(s string) error {
    if s == "" {
        *d = 0
        return nil
    }
    v, err := time.ParseDuration(s)
    if err != nil {
        return fmt.Errorf("invalid duration %q: %w", s, err)
    }
    *d = Duration(v)
    return nil
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
    var fc FileConfig
    b, err := os.ReadFile(path)
    if err != nil {
        return fc, err
    }
    switch ext := filepath.Ext(path); ext {
    case ".yaml", ".yml":
        if err := yaml.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse yaml: %w", err)
        }
    case ".json":
        if err := json.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse json: %w", err)
        }
    default:
        // Try YAML then JSON
        if err := yaml.Unmarshal(b, &fc); err != nil {
            if jerr := json.Unmarshal(b, &fc); jerr != nil {
                return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
            }
        }
    }
    return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields that
// are currently unset/zero in cfg. Flags and env should already be applied;
// the file only supplies what they left open.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
    if cfg == nil { return }

    if len(cfg.URLs) == 0 && len(fc.URLs) > 0 { cfg.URLs = append([]string{}, fc.URLs...) }
    if cfg.InputPath == "" && fc.Input != "" { cfg.InputPath = fc.Input }
    if cfg.OutputPath == "" && fc.Output != "" { cfg.OutputPath = fc.Output }
    if cfg.OutputPDFPath == "" && fc.OutputPDF != "" { cfg.OutputPDFPath = fc.OutputPDF }
    if cfg.Format == "" && fc.Format != "" { cfg.Format = fc.Format }

    if cfg.Provider == "" && fc.LLM.Provider != "" { cfg.Provider = fc.LLM.Provider }
    if cfg.LLMBaseURL == "" && fc.LLM.BaseURL != "" { cfg.LLMBaseURL = fc.LLM.BaseURL }
    if cfg.LLMModel == "" && fc.LLM.Model != "" { cfg.LLMModel = fc.LLM.Model }
    if cfg.LLMAPIKey == "" && fc.LLM.APIKey != "" { cfg.LLMAPIKey = fc.LLM.APIKey }
    if cfg.KeyPrefix == "" && fc.LLM.KeyPrefix != "" { cfg.KeyPrefix = fc.LLM.KeyPrefix }
    if cfg.Tokenizer == "" && fc.LLM.Tokenizer != "" { cfg.Tokenizer = fc.LLM.Tokenizer }

    if cfg.UserAgent == "" && fc.Fetch.UserAgent != "" { cfg.UserAgent = fc.Fetch.UserAgent }
    if cfg.Timeout == 0 && fc.Fetch.Timeout > 0 { cfg.Timeout = time.Duration(fc.Fetch.Timeout) }
    if cfg.Extractor == "" && fc.Fetch.Extractor != "" { cfg.Extractor = fc.Fetch.Extractor }

    if cfg.LanguageHint == "" && fc.Language != "" { cfg.LanguageHint = fc.Language }
    if !cfg.DryRun && fc.DryRun { cfg.DryRun = true }
    if !cfg.Verbose && fc.Verbose { cfg.Verbose = true }

    if cfg.SystemPrompt == "" && fc.Prompts.SystemPrompt != "" { cfg.SystemPrompt = fc.Prompts.SystemPrompt }
    if cfg.SystemPromptFile == "" && fc.Prompts.SystemPromptFile != "" { cfg.SystemPromptFile = fc.Prompts.SystemPromptFile }
}
