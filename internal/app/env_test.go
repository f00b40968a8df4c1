package app

import (
    "os"
    "path/filepath"
    "testing"
    "time"
)

// clearConfigEnv blanks every variable EnvConfig reads so the host
// environment cannot leak into a test.
func clearConfigEnv(t *testing.T) {
    t.Helper()
    for _, k := range []string{
        "PAGESUM_CONFIG", "LLM_PROVIDER", "LLM_BASE_URL", "LLM_MODEL", "LLM_KEY_PREFIX",
        "PAGESUM_TOKENIZER", "LLM_API_KEY", "DEEPSEEK_API_KEY", "OPENAI_API_KEY",
        "PAGESUM_USER_AGENT", "PAGESUM_TIMEOUT", "PAGESUM_EXTRACT", "PAGESUM_LANGUAGE",
        "SYSTEM_PROMPT", "SYSTEM_PROMPT_FILE", "DRY_RUN", "VERBOSE",
    } {
        t.Setenv(k, "")
    }
}

// This test verifies that LoadEnvFiles reads KEY=VALUE pairs and populates os.Environ.
func TestLoadEnvFiles_LoadsKeyValues(t *testing.T) {
    t.Setenv("FOO", "")
    t.Setenv("BAR", "")

    dir := t.TempDir()
    envPath := filepath.Join(dir, ".env.test")
    content := "\n# sample dotenv file\nFOO=alpha\nexport BAR=\"beta gamma\"\n"
    if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
        t.Fatalf("write dotenv: %v", err)
    }

    if err := LoadEnvFiles(envPath); err != nil {
        t.Fatalf("LoadEnvFiles error: %v", err)
    }

    if got := os.Getenv("FOO"); got != "alpha" {
        t.Fatalf("FOO=%q, want alpha", got)
    }
    if got := os.Getenv("BAR"); got != "beta gamma" {
        t.Fatalf("BAR=%q, want beta gamma", got)
    }
}

// Later files override earlier ones, and both override the process env.
func TestLoadEnvFiles_OverrideOrder(t *testing.T) {
    t.Setenv("K", "from-process")
    dir := t.TempDir()
    a := filepath.Join(dir, ".env.a")
    b := filepath.Join(dir, ".env.b")
    if err := os.WriteFile(a, []byte("K=first\n"), 0o600); err != nil { t.Fatalf("write a: %v", err) }
    if err := os.WriteFile(b, []byte("K=second\n"), 0o600); err != nil { t.Fatalf("write b: %v", err) }

    if err := LoadEnvFiles(a, b); err != nil {
        t.Fatalf("LoadEnvFiles error: %v", err)
    }
    if got := os.Getenv("K"); got != "second" {
        t.Fatalf("override order failed: got %q, want second", got)
    }
}

func TestLoadEnvFiles_MissingFileSkipped(t *testing.T) {
    if err := LoadEnvFiles(filepath.Join(t.TempDir(), "nope.env"), " "); err != nil {
        t.Fatalf("missing dotenv should be skipped, got %v", err)
    }
}

func TestApplyEnvToConfig_FromEnv(t *testing.T) {
    clearConfigEnv(t)
    t.Setenv("LLM_PROVIDER", "openai")
    t.Setenv("LLM_MODEL", "gpt-4o")
    t.Setenv("DEEPSEEK_API_KEY", "sk-deep")
    t.Setenv("OPENAI_API_KEY", "sk-proj-open")
    t.Setenv("PAGESUM_TIMEOUT", "12s")
    t.Setenv("PAGESUM_LANGUAGE", "fi")
    t.Setenv("DRY_RUN", "true")

    cfg := Config{LLMModel: "from-flag"}
    if err := ApplyEnvToConfig(&cfg); err != nil {
        t.Fatalf("ApplyEnvToConfig: %v", err)
    }
    if cfg.LLMModel != "from-flag" {
        t.Fatalf("flag value must win over env, got %q", cfg.LLMModel)
    }
    if cfg.Provider != "openai" || cfg.LanguageHint != "fi" || !cfg.DryRun {
        t.Fatalf("env not applied: %+v", cfg)
    }
    if cfg.LLMAPIKey != "sk-deep" {
        t.Fatalf("DEEPSEEK_API_KEY should be used before OPENAI_API_KEY, got %q", cfg.LLMAPIKey)
    }
    if cfg.Timeout != 12*time.Second {
        t.Fatalf("Timeout=%v, want 12s", cfg.Timeout)
    }
}

func TestApplyEnvToConfig_LLMAPIKeyFirst(t *testing.T) {
    clearConfigEnv(t)
    t.Setenv("LLM_API_KEY", "sk-proj-generic")
    t.Setenv("DEEPSEEK_API_KEY", "sk-deep")
    var cfg Config
    if err := ApplyEnvToConfig(&cfg); err != nil {
        t.Fatalf("ApplyEnvToConfig: %v", err)
    }
    if cfg.LLMAPIKey != "sk-proj-generic" {
        t.Fatalf("LLMAPIKey=%q, want LLM_API_KEY value", cfg.LLMAPIKey)
    }
}

func TestApplyEnvToConfig_InvalidDuration(t *testing.T) {
    clearConfigEnv(t)
    t.Setenv("PAGESUM_TIMEOUT", "soon")
    var cfg Config
    if err := ApplyEnvToConfig(&cfg); err == nil {
        t.Fatal("expected parse error for PAGESUM_TIMEOUT=soon")
    }
}

func TestSplitList(t *testing.T) {
    got := SplitList(" .env, ,.env.local ,")
    if len(got) != 2 || got[0] != ".env" || got[1] != ".env.local" {
        t.Fatalf("SplitList = %q", got)
    }
}

func TestApplyEnvToConfig_IgnoresLocaleLanguage(t *testing.T) {
    clearConfigEnv(t)
    t.Setenv("LANGUAGE", "en_US:en")

    cfg := Config{URLs: []string{"https://example.com"}}
    if err := ApplyEnvToConfig(&cfg); err != nil {
        t.Fatalf("ApplyEnvToConfig: %v", err)
    }
    if err := ApplyPreset(&cfg); err != nil {
        t.Fatalf("ApplyPreset: %v", err)
    }
    if err := ApplyDefaults(&cfg); err != nil {
        t.Fatalf("ApplyDefaults: %v", err)
    }
    if cfg.LanguageHint != "" {
        t.Fatalf("LanguageHint = %q, locale LANGUAGE must not be used", cfg.LanguageHint)
    }
    if err := ValidateConfig(cfg); err != nil {
        t.Fatalf("ValidateConfig: %v", err)
    }
}
