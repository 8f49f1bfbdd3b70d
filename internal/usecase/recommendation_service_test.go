package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/zuno/backend/internal/domain"
)

// MockSearchProvider is a mock implementation of domain.SearchProvider
type MockSearchProvider struct {
	products    []domain.RawProductRecord
	images      []domain.RawMediaResult
	videos      []domain.RawMediaResult
	lens        []domain.RawMediaResult
	productsErr error
	imagesErr   error
	videosErr   error
	lensErr     error

	productsCalled bool
	imagesCalled   bool
	videosCalled   bool
	lensCalled     bool
	lastLensURL    string
}

func NewMockSearchProvider() *MockSearchProvider {
	return &MockSearchProvider{}
}

func (m *MockSearchProvider) SearchProducts(ctx context.Context, query string) ([]domain.RawProductRecord, error) {
	m.productsCalled = true
	return m.products, m.productsErr
}

func (m *MockSearchProvider) SearchImages(ctx context.Context, query string) ([]domain.RawMediaResult, error) {
	m.imagesCalled = true
	return m.images, m.imagesErr
}

func (m *MockSearchProvider) SearchVideos(ctx context.Context, query string) ([]domain.RawMediaResult, error) {
	m.videosCalled = true
	return m.videos, m.videosErr
}

func (m *MockSearchProvider) SearchLens(ctx context.Context, imageURL string) ([]domain.RawMediaResult, error) {
	m.lensCalled = true
	m.lastLensURL = imageURL
	return m.lens, m.lensErr
}

// MockTextGenerator is a mock implementation of domain.TextGenerator
type MockTextGenerator struct {
	summary    string
	err        error
	lastPrompt string
	calls      int
}

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	return m.summary, nil
}

func mediaItems(n int) []domain.RawMediaResult {
	items := make([]domain.RawMediaResult, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, domain.RawMediaResult{
			"title":     "item",
			"link":      "https://example.com/item",
			"thumbnail": "https://example.com/item.jpg",
		})
	}
	return items
}

func newTestService(search *MockSearchProvider, gen *MockTextGenerator) *RecommendationService {
	return NewRecommendationService(search, gen, zerolog.Nop())
}

func TestRecommend(t *testing.T) {
	ctx := context.Background()

	t.Run("returns error for nil request", func(t *testing.T) {
		svc := newTestService(NewMockSearchProvider(), &MockTextGenerator{})

		_, err := svc.Recommend(ctx, nil)
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("returns error for blank query", func(t *testing.T) {
		search := NewMockSearchProvider()
		svc := newTestService(search, &MockTextGenerator{})

		_, err := svc.Recommend(ctx, &domain.Request{Query: "   ", Weights: domain.DefaultWeights()})
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
		if search.productsCalled {
			t.Error("search should not run for an invalid request")
		}
	})

	t.Run("ranks products and summarizes", func(t *testing.T) {
		search := NewMockSearchProvider()
		search.products = []domain.RawProductRecord{
			{"title": "item3", "extracted_price": 30.0, "rating": 1.0},
			{"title": "unrated", "extracted_price": 5.0},
			{"title": "item1", "extracted_price": 10.0, "rating": 4.0},
			{"title": "item2", "extracted_price": 20.0, "rating": 5.0},
		}
		gen := &MockTextGenerator{summary: "Go with item1."}
		svc := newTestService(search, gen)

		resp, err := svc.Recommend(ctx, &domain.Request{Query: "wireless earbuds", Weights: domain.DefaultWeights()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if resp.Summary != "Go with item1." {
			t.Errorf("Summary = %q", resp.Summary)
		}
		want := []string{"item1", "item2", "item3"}
		if len(resp.RankedProducts) != len(want) {
			t.Fatalf("ranked = %d, want %d", len(resp.RankedProducts), len(want))
		}
		for i, title := range want {
			if resp.RankedProducts[i].Title != title {
				t.Errorf("ranked[%d] = %q, want %q", i, resp.RankedProducts[i].Title, title)
			}
		}
		if !strings.Contains(gen.lastPrompt, "the **item1** seems to be the best match") {
			t.Errorf("prompt does not name item1 as best match:\n%s", gen.lastPrompt)
		}
	})

	t.Run("empty product list yields empty ranking without error", func(t *testing.T) {
		search := NewMockSearchProvider()
		gen := &MockTextGenerator{summary: "Nothing to compare."}
		svc := newTestService(search, gen)

		resp, err := svc.Recommend(ctx, &domain.Request{Query: "wireless earbuds", Weights: domain.DefaultWeights()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.RankedProducts == nil || len(resp.RankedProducts) != 0 {
			t.Errorf("RankedProducts = %v, want empty slice", resp.RankedProducts)
		}
		if !strings.Contains(gen.lastPrompt, "could not find any products") {
			t.Error("prompt should report missing comparison data")
		}
	})

	t.Run("products without price or rating are never ranked", func(t *testing.T) {
		search := NewMockSearchProvider()
		search.products = []domain.RawProductRecord{
			{"title": "a", "extracted_price": 10.0, "source": "Shop", "link": "https://a"},
			{"title": "b", "rating": 4.8, "thumbnail": "https://b.jpg"},
		}
		svc := newTestService(search, &MockTextGenerator{})

		resp, err := svc.Recommend(ctx, &domain.Request{Query: "lamp", Weights: domain.DefaultWeights()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.RankedProducts) != 0 {
			t.Errorf("RankedProducts = %d, want 0", len(resp.RankedProducts))
		}
	})

	t.Run("skips video search for plain product queries", func(t *testing.T) {
		search := NewMockSearchProvider()
		search.videos = mediaItems(2)
		svc := newTestService(search, &MockTextGenerator{})

		resp, err := svc.Recommend(ctx, &domain.Request{Query: "wireless earbuds", Weights: domain.DefaultWeights()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if search.videosCalled {
			t.Error("video search should not be invoked")
		}
		if len(resp.VideoResults) != 0 {
			t.Errorf("VideoResults = %d, want 0", len(resp.VideoResults))
		}
	})

	t.Run("searches videos for review queries and keeps at most 3", func(t *testing.T) {
		search := NewMockSearchProvider()
		search.videos = mediaItems(6)
		svc := newTestService(search, &MockTextGenerator{})

		resp, err := svc.Recommend(ctx, &domain.Request{Query: "earbuds review", Weights: domain.DefaultWeights()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !search.videosCalled {
			t.Error("video search should be invoked")
		}
		if len(resp.VideoResults) != 3 {
			t.Errorf("VideoResults = %d, want 3", len(resp.VideoResults))
		}
	})

	t.Run("skips image search without an image", func(t *testing.T) {
		search := NewMockSearchProvider()
		search.images = mediaItems(3)
		svc := newTestService(search, &MockTextGenerator{})

		resp, err := svc.Recommend(ctx, &domain.Request{Query: "desk lamp", Weights: domain.DefaultWeights()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if search.imagesCalled || search.lensCalled {
			t.Error("image search should not be invoked")
		}
		if len(resp.LensResults) != 0 {
			t.Errorf("LensResults = %d, want 0", len(resp.LensResults))
		}
	})

	t.Run("searches images when image data is present and keeps at most 5", func(t *testing.T) {
		search := NewMockSearchProvider()
		search.images = mediaItems(9)
		svc := newTestService(search, &MockTextGenerator{})

		resp, err := svc.Recommend(ctx, &domain.Request{
			Query:     "desk lamp",
			ImageData: "aGVsbG8=",
			Weights:   domain.DefaultWeights(),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !search.imagesCalled {
			t.Error("image search should be invoked")
		}
		if search.lensCalled {
			t.Error("lens search should not be invoked without an image URL")
		}
		if len(resp.LensResults) != 5 {
			t.Errorf("LensResults = %d, want 5", len(resp.LensResults))
		}
	})

	t.Run("prefers reverse image search for image URLs", func(t *testing.T) {
		search := NewMockSearchProvider()
		search.lens = mediaItems(2)
		svc := newTestService(search, &MockTextGenerator{})

		resp, err := svc.Recommend(ctx, &domain.Request{
			Query:    "desk lamp",
			ImageURL: "https://example.com/lamp.jpg",
			Weights:  domain.DefaultWeights(),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !search.lensCalled || search.lastLensURL != "https://example.com/lamp.jpg" {
			t.Errorf("lens search called=%v url=%q", search.lensCalled, search.lastLensURL)
		}
		if search.imagesCalled {
			t.Error("text image search should not be invoked")
		}
		if len(resp.LensResults) != 2 {
			t.Errorf("LensResults = %d, want 2", len(resp.LensResults))
		}
	})

	failures := []struct {
		name    string
		request *domain.Request
		setup   func(*MockSearchProvider, *MockTextGenerator)
		want    error
	}{
		{
			name:    "product search failure",
			request: &domain.Request{Query: "earbuds"},
			setup:   func(s *MockSearchProvider, _ *MockTextGenerator) { s.productsErr = errors.New("boom") },
			want:    domain.ErrProductSearchFailed,
		},
		{
			name:    "image search failure",
			request: &domain.Request{Query: "earbuds", ImageData: "aGk="},
			setup:   func(s *MockSearchProvider, _ *MockTextGenerator) { s.imagesErr = errors.New("boom") },
			want:    domain.ErrImageSearchFailed,
		},
		{
			name:    "lens search failure",
			request: &domain.Request{Query: "earbuds", ImageURL: "https://example.com/x.jpg"},
			setup:   func(s *MockSearchProvider, _ *MockTextGenerator) { s.lensErr = errors.New("boom") },
			want:    domain.ErrImageSearchFailed,
		},
		{
			name:    "video search failure",
			request: &domain.Request{Query: "earbuds video"},
			setup:   func(s *MockSearchProvider, _ *MockTextGenerator) { s.videosErr = errors.New("boom") },
			want:    domain.ErrVideoSearchFailed,
		},
		{
			name:    "text generation failure",
			request: &domain.Request{Query: "earbuds"},
			setup:   func(_ *MockSearchProvider, g *MockTextGenerator) { g.err = errors.New("boom") },
			want:    domain.ErrTextGenerationFailed,
		},
	}

	for _, tt := range failures {
		t.Run(tt.name+" aborts the request", func(t *testing.T) {
			search := NewMockSearchProvider()
			gen := &MockTextGenerator{summary: "unused"}
			tt.setup(search, gen)
			svc := newTestService(search, gen)

			resp, err := svc.Recommend(ctx, tt.request)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if resp != nil {
				t.Errorf("response = %+v, want nil", resp)
			}
		})
	}

	t.Run("product search failure stops before text generation", func(t *testing.T) {
		search := NewMockSearchProvider()
		search.productsErr = errors.New("unreachable")
		gen := &MockTextGenerator{}
		svc := newTestService(search, gen)

		_, _ = svc.Recommend(ctx, &domain.Request{Query: "earbuds review", ImageData: "aGk="})
		if search.imagesCalled || search.videosCalled || gen.calls != 0 {
			t.Error("no further collaborator should run after a failure")
		}
	})
}
