package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/pagesum/internal/budget"
	"github.com/hyperifyio/pagesum/internal/extract"
	"github.com/hyperifyio/pagesum/internal/fetch"
	"github.com/hyperifyio/pagesum/internal/keycheck"
	"github.com/hyperifyio/pagesum/internal/llm"
	"github.com/hyperifyio/pagesum/internal/render"
	"github.com/hyperifyio/pagesum/internal/summarize"
)

type App struct {
	cfg        Config
	fetcher    *fetch.Client
	summarizer *summarize.Summarizer
	tokens     budget.Counter
	httpClient *http.Client
	stdout     io.Writer
	stderr     io.Writer
}

// ErrNoURLs is returned when there is nothing to summarize.
var ErrNoURLs = errors.New("no URLs to summarize")

// ErrPageFailed is wrapped by Run when at least one URL could not be
// summarized. The other URLs are still processed.
var ErrPageFailed = errors.New("page failed")

func New(ctx context.Context, cfg Config) (*App, error) {
	ex, err := extract.ByName(cfg.Extractor)
	if err != nil {
		return nil, err
	}
	tokens, err := budget.CounterByName(cfg.Tokenizer)
	if err != nil {
		return nil, err
	}
	if err := summarize.ValidateLanguage(cfg.LanguageHint); err != nil {
		return nil, err
	}

	httpClient := newHTTPClient()
	a := &App{
		cfg: cfg,
		fetcher: &fetch.Client{
			HTTPClient:        httpClient,
			UserAgent:         cfg.UserAgent,
			PerRequestTimeout: cfg.Timeout,
			Extractor:         ex,
		},
		summarizer: &summarize.Summarizer{
			Client: llm.NewOpenAIProvider(cfg.LLMBaseURL, cfg.LLMAPIKey, httpClient),
			Model:  cfg.LLMModel,
			Prompt: summarize.Prompt{System: cfg.SystemPrompt, Language: cfg.LanguageHint},
		},
		tokens:     tokens,
		httpClient: httpClient,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}
	log.Debug().
		Str("provider", cfg.Provider).
		Str("base", cfg.LLMBaseURL).
		Str("model", cfg.LLMModel).
		Str("extract", cfg.Extractor).
		Dur("timeout", cfg.Timeout).
		Msg("app configured")
	return a, nil
}

// SetOutput redirects summaries (stdout) and the key diagnostic (stderr).
func (a *App) SetOutput(stdout, stderr io.Writer) {
	a.stdout = stdout
	a.stderr = stderr
}

// Close releases idle connections held by the shared HTTP client.
func (a *App) Close() {
	if a.httpClient != nil {
		a.httpClient.CloseIdleConnections()
	}
}

// CheckKey prints the credential diagnostic and returns it. A bad key does
// not stop the run; the provider gets to reject it.
func (a *App) CheckKey() keycheck.Diagnostic {
	d := keycheck.Check(a.cfg.LLMAPIKey, a.cfg.KeyPrefix)
	fmt.Fprintln(a.stderr, d.Message)
	if d.OK() {
		log.Debug().Str("key", d.Status.String()).Msg("api key check")
	} else {
		log.Warn().Str("key", d.Status.String()).Msg("api key check")
	}
	return d
}

// Summarize fetches url and asks the model for a summary of it.
func (a *App) Summarize(ctx context.Context, url string) (summarize.Result, error) {
	logger := log.With().Str("run", uuid.NewString()).Str("url", url).Logger()

	page, err := a.fetcher.FetchPage(ctx, url)
	if err != nil {
		return summarize.Result{}, fmt.Errorf("fetch: %w", err)
	}
	logger.Debug().Str("title", page.Title).Int("chars", len(page.BodyText)).Msg("page extracted")

	rep := budget.Estimate(ctx, a.tokens, a.summarizer.Model, a.summarizer.Prompt.Messages(page))
	if !rep.Fits {
		// No truncation: the provider decides what to do with an oversized prompt.
		logger.Warn().
			Int("prompt_tokens", rep.PromptTokens).
			Int("context", rep.ModelContext).
			Msg("prompt may exceed model context")
	}

	res, err := a.summarizer.Summarize(ctx, page)
	if err != nil {
		return summarize.Result{}, err
	}
	res.PromptTokens = rep.PromptTokens
	logger.Info().Str("model", res.Model).Int("prompt_tokens", rep.PromptTokens).Msg("page summarized")
	return res, nil
}

// DisplaySummary summarizes url and prints the Markdown to stdout.
func (a *App) DisplaySummary(ctx context.Context, url string) error {
	res, err := a.Summarize(ctx, url)
	if err != nil {
		return err
	}
	return render.Markdown(a.stdout, []summarize.Result{res})
}

// Run processes every configured URL in order. Per-URL failures are logged
// and skipped; the returned error wraps ErrPageFailed if any occurred.
func (a *App) Run(ctx context.Context) (err error) {
	if len(a.cfg.URLs) == 0 {
		return ErrNoURLs
	}
	a.CheckKey()

	format, err := render.ParseFormat(a.cfg.Format)
	if err != nil {
		return err
	}
	out, closeOut, err := a.openOutput()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()

	var results []summarize.Result
	failed := 0
	for _, u := range a.cfg.URLs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if a.cfg.DryRun {
			if err := a.preview(ctx, out, u); err != nil {
				failed++
				logFailure(u, err)
			}
			continue
		}
		res, err := a.Summarize(ctx, u)
		if err != nil {
			failed++
			logFailure(u, err)
			continue
		}
		// Markdown is streamed so each summary shows up as soon as it is ready.
		if format == render.FormatMarkdown {
			if len(results) > 0 {
				if _, err := io.WriteString(out, "\n---\n\n"); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
			}
			if err := render.Markdown(out, []summarize.Result{res}); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
		results = append(results, res)
	}

	// Formats other than Markdown need the whole set to build one document.
	if format != render.FormatMarkdown && len(results) > 0 {
		if err := render.Write(out, format, results); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	if a.cfg.OutputPDFPath != "" && len(results) > 0 {
		if err := render.PDF(a.cfg.OutputPDFPath, results); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("out", a.cfg.OutputPDFPath).Msg("wrote pdf")
	}
	if a.cfg.OutputPath != "" {
		log.Info().Str("out", a.cfg.OutputPath).Int("pages", len(results)).Msg("wrote output")
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d pages: %w", failed, len(a.cfg.URLs), ErrPageFailed)
	}
	return nil
}

// preview fetches url and prints the prompt that would be sent, with its
// token estimate, without calling the model.
func (a *App) preview(ctx context.Context, w io.Writer, url string) error {
	page, err := a.fetcher.FetchPage(ctx, url)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	msgs := a.summarizer.Prompt.Messages(page)
	rep := budget.Estimate(ctx, a.tokens, a.summarizer.Model, msgs)

	content := fmt.Sprintf("# pagesum (dry run)\n\nURL: %s\nTitle: %s\n\n", page.SourceURL, page.Title)
	content += "Budget estimate:\n"
	content += fmt.Sprintf("Model: %s\n", rep.Model)
	content += fmt.Sprintf("Estimated prompt tokens: %d\n", rep.PromptTokens)
	content += fmt.Sprintf("Reserved output tokens: %d\n", rep.ReservedOutput)
	content += fmt.Sprintf("Model context window: %d\n", rep.ModelContext)
	content += fmt.Sprintf("Remaining tokens: %d\n", rep.Remaining)
	content += fmt.Sprintf("Fits: %t\n", rep.Fits)
	for _, m := range msgs {
		content += fmt.Sprintf("\n## %s\n\n%s\n", m.Role, m.Content)
	}
	_, err = io.WriteString(w, content)
	return err
}

func (a *App) openOutput() (io.Writer, func() error, error) {
	if a.cfg.OutputPath == "" {
		return a.stdout, func() error { return nil }, nil
	}
	f, err := os.Create(a.cfg.OutputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}

func logFailure(url string, err error) {
	ev := log.Error().Err(err).Str("url", url)
	if status := summarize.APIStatus(err); status != 0 {
		ev = ev.Int("status", status)
	}
	var se *fetch.StatusError
	if errors.As(err, &se) {
		ev = ev.Int("status", se.StatusCode)
	}
	ev.Msg("summarize failed; continuing")
}
