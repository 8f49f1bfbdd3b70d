package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// apiKeyHeader carries the key so it never appears in request URLs
const apiKeyHeader = "x-goog-api-key"

// Config configures the Gemini client
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
	Logger      zerolog.Logger
}

// Client calls the Gemini generateContent endpoint
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	logger      zerolog.Logger
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// NewClient creates a new Gemini client
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		model:       model,
		temperature: cfg.Temperature,
		logger:      cfg.Logger.With().Str("component", "gemini").Str("model", model).Logger(),
	}
}

// Generate sends prompt as a single user turn and returns the text of the first candidate
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{Temperature: c.temperature},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", stripURL(err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = stripURL(err)
		c.logger.Warn().Err(err).Msg("generate request failed")
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || decoded.Error != nil {
		msg := fmt.Sprintf("status %d", resp.StatusCode)
		if decoded.Error != nil {
			msg = fmt.Sprintf("%s: %s", decoded.Error.Status, decoded.Error.Message)
		}
		c.logger.Warn().Int("status", resp.StatusCode).Str("error", msg).Msg("gemini returned error")
		return "", fmt.Errorf("gemini returned error: %s", msg)
	}

	if len(decoded.Candidates) == 0 {
		if decoded.PromptFeedback != nil && decoded.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("prompt blocked: %s", decoded.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, p := range decoded.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}

	c.logger.Debug().
		Int("prompt_chars", len(prompt)).
		Int("summary_chars", sb.Len()).
		Dur("latency", time.Since(start)).
		Msg("generation completed")

	return sb.String(), nil
}

// stripURL drops the request URL from transport errors, keeping the operation and cause
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s generateContent: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
