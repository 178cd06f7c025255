// Package textgen calls a hosted or local language model to produce short
// summaries. Two providers are supported: the Gemini generateContent API and
// an Ollama server.
package textgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"opportunity-matcher/internal/config"
)

const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"

	defaultGeminiURL = "https://generativelanguage.googleapis.com"
	defaultTimeout   = 40 * time.Second
)

var (
	ErrEmptyPrompt     = errors.New("textgen: empty prompt")
	ErrEmptyResponse   = errors.New("textgen: response has no text")
	errUnknownProvider = errors.New("textgen: unknown provider")
)

type Client struct {
	provider string
	model    string
	apiKey   string
	http     *resty.Client
	logger   zerolog.Logger
}

// New returns nil, nil when the configuration does not enable generation.
func New(cfg config.TextGenConfig, logger zerolog.Logger) (*Client, error) {
	if !cfg.Enabled() {
		logger.Info().Str("provider", cfg.Provider).Msg("text generation disabled")
		return nil, nil
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	switch provider {
	case ProviderGemini:
		if base == "" {
			base = defaultGeminiURL
		}
	case ProviderOllama:
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownProvider, cfg.Provider)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := resty.New().
		SetBaseURL(base).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &Client{
		provider: provider,
		model:    strings.TrimSpace(cfg.Model),
		apiKey:   strings.TrimSpace(cfg.APIKey),
		http:     c,
		logger:   logger,
	}, nil
}

func (c *Client) Provider() string {
	return c.provider
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	start := time.Now()
	var (
		text string
		err  error
	)
	switch c.provider {
	case ProviderOllama:
		text, err = c.generateOllama(ctx, prompt)
	default:
		text, err = c.generateGemini(ctx, prompt)
	}
	if err != nil {
		return "", err
	}

	c.logger.Debug().Str("provider", c.provider).Str("model", c.model).Dur("latency", time.Since(start)).Int("chars", len(text)).Msg("text generated")
	return text, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generateGemini(ctx context.Context, prompt string) (string, error) {
	var out geminiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", c.apiKey).
		SetPathParam("model", c.model).
		SetBody(geminiRequest{Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}}).
		SetResult(&out).
		Post("/v1beta/models/{model}:generateContent")
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

func (c *Client) generateOllama(ctx context.Context, prompt string) (string, error) {
	var out ollamaResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(ollamaRequest{Model: c.model, Prompt: prompt, Stream: false}).
		SetResult(&out).
		Post("/api/generate")
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("ollama status %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
	}

	if strings.TrimSpace(out.Response) == "" {
		return "", ErrEmptyResponse
	}
	return out.Response, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
