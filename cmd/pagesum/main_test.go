package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
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

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><title>T</title><body><script>x</script><p>Hello</p></body></html>`))
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "Stub summary."}},
			},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func baseArgs(t *testing.T, srv *httptest.Server) []string {
	return []string{
		"-env", filepath.Join(t.TempDir(), "none.env"),
		"-llm.base", srv.URL + "/v1",
		"-llm.model", "test-model",
		"-llm.key", "sk-proj-test",
		"-llm.keyPrefix", "sk-proj-",
		"-tokenizer", "heuristic",
	}
}

func TestRealMain_SummarizesURL(t *testing.T) {
	clearEnv(t)
	srv := newServer(t)
	var out, errOut bytes.Buffer
	code := realMain(append(baseArgs(t, srv), srv.URL+"/page"), &out, &errOut)
	if code != exitOK {
		t.Fatalf("exit code %d, stderr=%s", code, errOut.String())
	}
	if !strings.Contains(out.String(), "## T") || !strings.Contains(out.String(), "Stub summary.") {
		t.Fatalf("unexpected stdout:\n%s", out.String())
	}
	if !strings.Contains(errOut.String(), "looks good") {
		t.Fatalf("key diagnostic missing from stderr: %q", errOut.String())
	}
}

func TestRealMain_LocaleLanguageDoesNotBlockRun(t *testing.T) {
	clearEnv(t)
	t.Setenv("LANGUAGE", "en_US:en")
	srv := newServer(t)
	var out, errOut bytes.Buffer
	if code := realMain(append(baseArgs(t, srv), srv.URL+"/page"), &out, &errOut); code != exitOK {
		t.Fatalf("exit code %d, stderr=%s", code, errOut.String())
	}
	if !strings.Contains(out.String(), "Stub summary.") {
		t.Fatalf("unexpected stdout:\n%s", out.String())
	}
}

func TestRealMain_FailedURLExitsOne(t *testing.T) {
	clearEnv(t)
	srv := newServer(t)
	var out, errOut bytes.Buffer
	code := realMain(append(baseArgs(t, srv), srv.URL+"/missing", srv.URL+"/page"), &out, &errOut)
	if code != exitFailed {
		t.Fatalf("exit code %d, want %d", code, exitFailed)
	}
	if !strings.Contains(out.String(), "Stub summary.") {
		t.Fatalf("successful page should still be printed:\n%s", out.String())
	}
}

func TestRealMain_NoURLsIsUsageError(t *testing.T) {
	clearEnv(t)
	srv := newServer(t)
	var out, errOut bytes.Buffer
	if code := realMain(baseArgs(t, srv), &out, &errOut); code != exitUsage {
		t.Fatalf("exit code %d, want %d", code, exitUsage)
	}
	if !strings.Contains(errOut.String(), "usage: pagesum") {
		t.Fatalf("usage hint missing: %q", errOut.String())
	}
}

func TestRealMain_Version(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := realMain([]string{"-version"}, &out, &errOut); code != exitOK {
		t.Fatalf("exit code %d", code)
	}
	if !strings.HasPrefix(out.String(), "pagesum ") {
		t.Fatalf("unexpected version output %q", out.String())
	}
}

func TestRealMain_BadFlag(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := realMain([]string{"-no-such-flag"}, &out, &errOut); code != exitUsage {
		t.Fatalf("exit code %d, want %d", code, exitUsage)
	}
}

func TestParseConfig_InputFileAndDotenv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "urls.txt")
	if err := os.WriteFile(input, []byte("see https://example.com/a and https://example.com/b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	dotenv := filepath.Join(dir, ".env")
	if err := os.WriteFile(dotenv, []byte("DEEPSEEK_API_KEY=sk-from-dotenv\nPAGESUM_LANGUAGE=fi\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := parseConfig([]string{"-env", dotenv, "-input", input, "https://example.com/a"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if len(cfg.URLs) != 2 || cfg.URLs[0] != "https://example.com/a" || cfg.URLs[1] != "https://example.com/b" {
		t.Fatalf("URLs = %q", cfg.URLs)
	}
	if cfg.LLMAPIKey != "sk-from-dotenv" || cfg.LanguageHint != "fi" {
		t.Fatalf("dotenv values not applied: %+v", cfg)
	}
	if cfg.Provider != "deepseek" || cfg.LLMModel != "deepseek-chat" || cfg.KeyPrefix != "sk-" {
		t.Fatalf("deepseek preset not applied: %+v", cfg)
	}
	if cfg.Timeout == 0 || cfg.UserAgent == "" || cfg.Format != "markdown" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestParseConfig_ConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	conf := filepath.Join(dir, "pagesum.yaml")
	if err := os.WriteFile(conf, []byte("urls: [\"https://example.com/\"]\nllm:\n  provider: openai\n  model: file-model\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PAGESUM_CONFIG", conf)
	cfg, _, err := parseConfig([]string{"-env", "", "-llm.model", "flag-model"}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if cfg.LLMModel != "flag-model" || cfg.Provider != "openai" || len(cfg.URLs) != 1 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}
