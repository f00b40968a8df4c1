package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/pagesum/internal/app"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

func realMain(args []string, stdout, stderr io.Writer) int {
	cfg, showVersion, err := parseConfig(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return exitUsage
	}
	if showVersion {
		fmt.Fprintln(stdout, app.VersionString())
		return exitOK
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if err := app.ValidateConfig(cfg); err != nil {
		if errors.Is(err, app.ErrNoURLs) {
			fmt.Fprintln(stderr, "usage: pagesum [flags] URL...")
		}
		log.Error().Err(err).Msg("invalid configuration")
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, stdout, stderr); err != nil {
		log.Error().Err(err).Msg("run failed")
		if errors.Is(err, app.ErrNoURLs) {
			return exitUsage
		}
		return exitFailed
	}
	return exitOK
}

// parseConfig resolves flags, dotenv files, environment, config file,
// provider preset and built-in defaults, in that order of precedence.
func parseConfig(args []string, stderr io.Writer) (app.Config, bool, error) {
	var (
		cfg         app.Config
		envFiles    string
		showVersion bool
	)

	fs := flag.NewFlagSet("pagesum", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: pagesum [flags] URL...")
		fs.PrintDefaults()
	}
	fs.StringVar(&cfg.ConfigPath, "config", "", "Path to YAML/JSON config file (env PAGESUM_CONFIG)")
	fs.StringVar(&envFiles, "env", ".env", "Comma-separated dotenv files; later files override earlier ones and the process env")
	fs.StringVar(&cfg.InputPath, "input", "", "File to scan for URLs in addition to the arguments")
	fs.StringVar(&cfg.Provider, "llm.provider", "", "Provider preset: deepseek or openai (env LLM_PROVIDER, default deepseek)")
	fs.StringVar(&cfg.LLMBaseURL, "llm.base", "", "OpenAI-compatible base URL (env LLM_BASE_URL)")
	fs.StringVar(&cfg.LLMModel, "llm.model", "", "Model name (env LLM_MODEL)")
	fs.StringVar(&cfg.LLMAPIKey, "llm.key", "", "API key (env LLM_API_KEY, DEEPSEEK_API_KEY or OPENAI_API_KEY)")
	fs.StringVar(&cfg.KeyPrefix, "llm.keyPrefix", "", "Expected API key prefix (env LLM_KEY_PREFIX)")
	fs.StringVar(&cfg.Tokenizer, "tokenizer", "", "Prompt token counter: tiktoken or heuristic (env PAGESUM_TOKENIZER)")
	fs.StringVar(&cfg.UserAgent, "ua", "", "User-Agent for page requests (env PAGESUM_USER_AGENT)")
	fs.DurationVar(&cfg.Timeout, "timeout", 0, "Per-request fetch timeout (env PAGESUM_TIMEOUT, default 30s)")
	fs.StringVar(&cfg.Extractor, "extract", "", "Text extractor: default or readability (env PAGESUM_EXTRACT)")
	fs.StringVar(&cfg.LanguageHint, "lang", "", "Summary language, e.g. 'en' or 'fi' (env PAGESUM_LANGUAGE)")
	fs.StringVar(&cfg.SystemPrompt, "systemPrompt", "", "Override the system prompt (env SYSTEM_PROMPT)")
	fs.StringVar(&cfg.SystemPromptFile, "systemPromptFile", "", "File containing the system prompt (env SYSTEM_PROMPT_FILE)")
	fs.StringVar(&cfg.Format, "format", "", "Output format: markdown or html")
	fs.StringVar(&cfg.OutputPath, "output", "", "Write summaries to this file instead of stdout")
	fs.StringVar(&cfg.OutputPDFPath, "pdf", "", "Also write the summaries as a PDF to this path")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Fetch and print the prompt without calling the model (env DRY_RUN)")
	fs.BoolVar(&cfg.Verbose, "v", false, "Verbose logging (env VERBOSE)")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return cfg, false, err
	}
	if showVersion {
		return cfg, true, nil
	}
	cfg.URLs = fs.Args()

	if err := app.LoadEnvFiles(app.SplitList(envFiles)...); err != nil {
		return cfg, false, fmt.Errorf("load dotenv: %w", err)
	}
	if err := app.ApplyEnvToConfig(&cfg); err != nil {
		return cfg, false, err
	}
	if cfg.ConfigPath != "" {
		fc, err := app.LoadConfigFile(cfg.ConfigPath)
		if err != nil {
			return cfg, false, fmt.Errorf("load config: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	var fromInput []string
	if cfg.InputPath != "" {
		urls, err := app.ReadURLFile(cfg.InputPath)
		if err != nil {
			return cfg, false, err
		}
		fromInput = urls
	}
	cfg.URLs = app.MergeURLs(cfg.URLs, fromInput...)
	if err := app.ApplyPreset(&cfg); err != nil {
		return cfg, false, err
	}
	if err := app.ApplyDefaults(&cfg); err != nil {
		return cfg, false, err
	}
	return cfg, false, nil
}

func run(ctx context.Context, cfg app.Config, stdout, stderr io.Writer) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	defer a.Close()
	a.SetOutput(stdout, stderr)

	return a.Run(ctx)
}
