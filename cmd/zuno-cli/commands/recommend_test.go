package commands

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zuno/backend/internal/domain"
)

func TestBuildRequest(t *testing.T) {
	t.Run("trims the query and copies weights", func(t *testing.T) {
		req, err := buildRequest("  wireless earbuds ", &recommendOptions{priceWeight: 0.3, ratingWeight: 0.9})

		require.NoError(t, err)
		assert.Equal(t, "wireless earbuds", req.Query)
		assert.Equal(t, domain.Weights{Price: 0.3, Rating: 0.9}, req.Weights)
		assert.Empty(t, req.ImageData)
	})

	t.Run("rejects empty query", func(t *testing.T) {
		_, err := buildRequest("   ", &recommendOptions{})
		assert.Error(t, err)
	})

	t.Run("rejects weights outside the unit range", func(t *testing.T) {
		_, err := buildRequest("desk", &recommendOptions{priceWeight: 1.2, ratingWeight: 0.5})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "price-weight")
	})

	t.Run("base64 encodes the image file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "shoe.jpg")
		require.NoError(t, os.WriteFile(path, []byte("fake-jpeg"), 0644))

		req, err := buildRequest("sneakers", &recommendOptions{imagePath: path, priceWeight: 0.5, ratingWeight: 0.5})

		require.NoError(t, err)
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("fake-jpeg")), req.ImageData)
	})

	t.Run("fails for a missing image file", func(t *testing.T) {
		_, err := buildRequest("sneakers", &recommendOptions{imagePath: filepath.Join(t.TempDir(), "nope.jpg")})
		assert.Error(t, err)
	})
}

func TestPostRecommend(t *testing.T) {
	t.Run("decodes a successful response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/recommend", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)

			var req domain.Request
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "earbuds", req.Query)

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"summary":"Pick A","ranked_products":[{"title":"A","price":10,"rating":4.5,"score":1}],"video_results":[],"lens_results":[]}`))
		}))
		defer server.Close()

		resp, err := postRecommend(context.Background(), server.Client(), server.URL+"/", &domain.Request{Query: "earbuds"})

		require.NoError(t, err)
		assert.Equal(t, "Pick A", resp.Summary)
		require.Len(t, resp.RankedProducts, 1)
		assert.Equal(t, "A", resp.RankedProducts[0].Title)
	})

	t.Run("surfaces the server error body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"error":"upstream_failure","message":"product search failed: quota"}`))
		}))
		defer server.Close()

		_, err := postRecommend(context.Background(), server.Client(), server.URL, &domain.Request{Query: "earbuds"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
		assert.Contains(t, err.Error(), "upstream_failure")
		assert.Contains(t, err.Error(), "quota")
	})

	t.Run("reports unreachable servers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		_, err := postRecommend(context.Background(), http.DefaultClient, url, &domain.Request{Query: "earbuds"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not reach Zuno")
	})
}

func TestRenderResponse(t *testing.T) {
	color.NoColor = true

	price, rating, score := 49.99, 4.5, 0.875
	reviews := 1200
	resp := &domain.Response{
		Summary: "Buds Lite is the best value.",
		RankedProducts: []domain.ProductRecord{
			{Title: "Buds Lite", Price: &price, Rating: &rating, ReviewCount: &reviews, Source: "Shop A", Score: &score},
		},
		VideoResults: []domain.MediaResult{{Title: "Buds Lite review", Link: "https://v.example/1"}},
		LensResults:  []domain.MediaResult{},
	}

	var buf bytes.Buffer
	renderResponse(&buf, resp)
	out := buf.String()

	assert.Contains(t, out, "Buds Lite is the best value.")
	assert.Contains(t, out, "$49.99")
	assert.Contains(t, out, "0.88")
	assert.Contains(t, out, "1200")
	assert.Contains(t, out, "Review videos")
	assert.Contains(t, out, "https://v.example/1")
	assert.NotContains(t, out, "Visually similar")
}

func TestRenderResponse_NoProducts(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	renderResponse(&buf, &domain.Response{Summary: "Nothing found."})

	assert.Contains(t, buf.String(), "no products")
}
