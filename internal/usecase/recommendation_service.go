package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/zuno/backend/internal/domain"
)

// RecommendationService drives a request from search to synthesized summary
type RecommendationService struct {
	search    domain.SearchProvider
	generator domain.TextGenerator
	scoring   *ScoringService
	logger    zerolog.Logger
}

// NewRecommendationService creates a new recommendation service with dependencies
func NewRecommendationService(
	search domain.SearchProvider,
	generator domain.TextGenerator,
	logger zerolog.Logger,
) *RecommendationService {
	return &RecommendationService{
		search:    search,
		generator: generator,
		scoring:   NewScoringService(logger),
		logger:    logger.With().Str("component", "recommendation").Logger(),
	}
}

// Recommend runs the full pipeline for one request.
// Flow: product search -> normalize -> rank -> image search -> video search -> prompt -> summary.
// Any collaborator failure aborts the request; there are no retries or partial results.
func (s *RecommendationService) Recommend(
	ctx context.Context,
	request *domain.Request,
) (*domain.Response, error) {
	if request == nil || NormalizeQuery(request.Query) == "" {
		return nil, domain.ErrInvalidRequest
	}

	start := time.Now()
	log := s.logger.With().Str("query", request.Query).Logger()
	response := domain.NewResponse()

	rawProducts, err := s.search.SearchProducts(ctx, request.Query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProductSearchFailed, err)
	}
	if len(rawProducts) > 0 {
		candidates := NormalizeProducts(rawProducts)
		if len(candidates) > 0 {
			response.RankedProducts = s.scoring.Rank(candidates, request.Weights)
		}
		log.Debug().
			Int("raw", len(rawProducts)).
			Int("candidates", len(candidates)).
			Msg("normalized shopping results")
	}

	if request.HasImage() {
		lens, err := s.searchSimilarImages(ctx, request)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrImageSearchFailed, err)
		}
		response.LensResults = ComposeMedia(lens, MaxLensResults)
	}

	if WantsVideoReviews(request.Query) {
		videos, err := s.search.SearchVideos(ctx, request.Query)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrVideoSearchFailed, err)
		}
		response.VideoResults = ComposeMedia(videos, MaxVideoResults)
	}

	prompt := BuildSynthesisPrompt(request, response)
	summary, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTextGenerationFailed, err)
	}
	response.Summary = summary

	log.Info().
		Int("ranked", len(response.RankedProducts)).
		Int("lens", len(response.LensResults)).
		Int("videos", len(response.VideoResults)).
		Dur("duration", time.Since(start)).
		Msg("recommendation complete")

	return response, nil
}

// searchSimilarImages prefers a reverse-image lookup when the caller supplied a
// reachable image URL, and falls back to a text image search otherwise
func (s *RecommendationService) searchSimilarImages(
	ctx context.Context,
	request *domain.Request,
) ([]domain.RawMediaResult, error) {
	if request.ImageURL != "" {
		return s.search.SearchLens(ctx, request.ImageURL)
	}
	return s.search.SearchImages(ctx, request.Query)
}
