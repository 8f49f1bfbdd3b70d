package serpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/zuno/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Search engines exposed by SerpAPI
const (
	EngineShopping = "google_shopping"
	EngineImages   = "google_images"
	EngineVideos   = "google_videos"
	EngineLens     = "google_lens"
)

// videoQuerySuffix is appended to video searches to bias results toward reviews
const videoQuerySuffix = " review"

// Config configures the SerpAPI client
type Config struct {
	APIKey            string
	BaseURL           string
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
	Logger            zerolog.Logger
}

// Client handles communication with the SerpAPI search endpoints
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
}

// NewClient creates a new SerpAPI client
func NewClient(cfg Config) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 10
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		rateLimiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:      cfg.Logger.With().Str("component", "serpapi").Logger(),
	}
}

// SearchProducts runs a Google Shopping search
func (c *Client) SearchProducts(ctx context.Context, query string) ([]domain.RawProductRecord, error) {
	results, err := c.search(ctx, EngineShopping, url.Values{"q": {query}})
	if err != nil {
		return nil, err
	}

	products := make([]domain.RawProductRecord, 0, len(results))
	for _, r := range results {
		products = append(products, domain.RawProductRecord(r))
	}
	return products, nil
}

// SearchImages runs a Google Images search
func (c *Client) SearchImages(ctx context.Context, query string) ([]domain.RawMediaResult, error) {
	return c.searchMedia(ctx, EngineImages, url.Values{"q": {query}})
}

// SearchVideos runs a Google Videos search for reviews of the query
func (c *Client) SearchVideos(ctx context.Context, query string) ([]domain.RawMediaResult, error) {
	return c.searchMedia(ctx, EngineVideos, url.Values{"q": {query + videoQuerySuffix}})
}

// SearchLens runs a Google Lens reverse-image search for a publicly reachable image
func (c *Client) SearchLens(ctx context.Context, imageURL string) ([]domain.RawMediaResult, error) {
	return c.searchMedia(ctx, EngineLens, url.Values{"url": {imageURL}})
}

func (c *Client) searchMedia(ctx context.Context, engine string, params url.Values) ([]domain.RawMediaResult, error) {
	results, err := c.search(ctx, engine, params)
	if err != nil {
		return nil, err
	}

	media := make([]domain.RawMediaResult, 0, len(results))
	for _, r := range results {
		media = append(media, domain.RawMediaResult(r))
	}
	return media, nil
}

// search executes a single GET against /search.json and extracts the engine's result list
func (c *Client) search(ctx context.Context, engine string, params url.Values) ([]map[string]interface{}, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	params.Set("engine", engine)
	params.Set("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s/search.json?%s", c.baseURL, params.Encode())

	log := c.logger.With().Str("engine", engine).Logger()
	log.Debug().Msg("sending search request")

	start := time.Now()
	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		log.Warn().Err(err).Msg("search request failed")
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrProviderFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("search provider returned error status")
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrProviderFailure, resp.StatusCode, providerMessage(body))
	}

	results, err := decodeResults(body, resultKeys[engine])
	if err != nil {
		log.Warn().Err(err).Msg("search response rejected")
		return nil, err
	}

	log.Debug().
		Int("results", len(results)).
		Dur("latency", time.Since(start)).
		Msg("search completed")
	return results, nil
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", stripURL(err))
	}
	req.Header.Set("User-Agent", "Zuno/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderFailure, stripURL(err))
	}

	return resp, nil
}

// stripURL drops the request URL, which carries the API key, from transport errors
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s search.json: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
