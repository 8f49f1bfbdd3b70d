package commands

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/zuno/backend/internal/domain"
)

type recommendOptions struct {
	priceWeight  float64
	ratingWeight float64
	imagePath    string
	imageURL     string
	timeout      time.Duration
	rawJSON      bool
}

func newRecommendCmd() *cobra.Command {
	opts := &recommendOptions{}

	cmd := &cobra.Command{
		Use:   "recommend <query>",
		Short: "Ask Zuno for product recommendations",
		Example: `  zuno-cli recommend "wireless earbuds under 100"
  zuno-cli recommend "standing desk review" --price-weight 0.2 --rating-weight 0.8
  zuno-cli recommend "sneakers like these" --image ./shoe.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildRequest(strings.Join(args, " "), opts)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			resp, err := postRecommend(ctx, &http.Client{}, serverURL, req)
			if err != nil {
				return err
			}

			if opts.rawJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			renderResponse(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	defaults := domain.DefaultWeights()
	cmd.Flags().Float64Var(&opts.priceWeight, "price-weight", defaults.Price, "importance of a low price, 0 to 1")
	cmd.Flags().Float64Var(&opts.ratingWeight, "rating-weight", defaults.Rating, "importance of a high rating, 0 to 1")
	cmd.Flags().StringVar(&opts.imagePath, "image", "", "path to an image to find similar products")
	cmd.Flags().StringVar(&opts.imageURL, "image-url", "", "public image URL for reverse image search")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 90*time.Second, "overall request timeout")
	cmd.Flags().BoolVar(&opts.rawJSON, "json", false, "print the raw JSON response")

	return cmd
}

// buildRequest validates flags and assembles the wire request
func buildRequest(query string, opts *recommendOptions) (*domain.Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}
	for name, w := range map[string]float64{"price-weight": opts.priceWeight, "rating-weight": opts.ratingWeight} {
		if w < 0 || w > 1 {
			return nil, fmt.Errorf("--%s must be between 0 and 1, got %v", name, w)
		}
	}

	req := &domain.Request{
		Query:    query,
		ImageURL: opts.imageURL,
		Weights:  domain.Weights{Price: opts.priceWeight, Rating: opts.ratingWeight},
	}

	if opts.imagePath != "" {
		data, err := os.ReadFile(opts.imagePath)
		if err != nil {
			return nil, fmt.Errorf("reading image: %w", err)
		}
		req.ImageData = base64.StdEncoding.EncodeToString(data)
	}

	return req, nil
}

// apiError is the error body returned by the server
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// postRecommend sends req to the server and decodes the recommendation
func postRecommend(ctx context.Context, client *http.Client, baseURL string, req *domain.Request) (*domain.Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	endpoint := strings.TrimRight(baseURL, "/") + "/api/v1/recommend"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("could not reach Zuno at %s: %w", baseURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("server returned %d (%s): %s", resp.StatusCode, apiErr.Error, apiErr.Message)
		}
		return nil, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	var out domain.Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &out, nil
}
