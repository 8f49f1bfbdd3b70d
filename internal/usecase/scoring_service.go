package usecase

import (
	"sort"

	"github.com/rs/zerolog"
	"github.com/zuno/backend/internal/domain"
)

// neutralSubScore is used when a dimension carries no discriminating signal
const neutralSubScore = 0.5

// ScoreBreakdown holds the normalized sub-scores behind a product's final score
type ScoreBreakdown struct {
	Price  float64
	Rating float64
}

// ScoringService ranks candidate products by the user's price/rating weights
type ScoringService struct {
	logger zerolog.Logger
}

// NewScoringService creates a new scoring service
func NewScoringService(logger zerolog.Logger) *ScoringService {
	return &ScoringService{
		logger: logger.With().Str("component", "scoring").Logger(),
	}
}

// Rank scores every candidate and returns them sorted by descending score.
// Candidates must all have a price and rating; ties keep their input order.
func (s *ScoringService) Rank(candidates []domain.ProductRecord, weights domain.Weights) []domain.ProductRecord {
	if len(candidates) == 0 {
		return []domain.ProductRecord{}
	}

	breakdowns := SubScores(candidates)

	totalWeight := weights.Price + weights.Rating
	if totalWeight == 0 {
		totalWeight = 1
	}

	ranked := make([]domain.ProductRecord, len(candidates))
	for i, product := range candidates {
		b := breakdowns[i]
		score := (b.Price*weights.Price + b.Rating*weights.Rating) / totalWeight
		product.Score = &score
		ranked[i] = product

		s.logger.Debug().
			Str("title", product.Title).
			Float64("price_score", b.Price).
			Float64("rating_score", b.Rating).
			Float64("score", score).
			Msg("scored product")
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].Score > *ranked[j].Score
	})

	return ranked
}

// SubScores min-max normalizes price (inverted, cheaper is better) and rating
// across the candidate set. A dimension whose values are all equal scores 0.5.
func SubScores(candidates []domain.ProductRecord) []ScoreBreakdown {
	breakdowns := make([]ScoreBreakdown, len(candidates))
	if len(candidates) == 0 {
		return breakdowns
	}

	priceMin, priceMax := valueRange(candidates, func(p domain.ProductRecord) *float64 { return p.Price })
	ratingMin, ratingMax := valueRange(candidates, func(p domain.ProductRecord) *float64 { return p.Rating })

	for i, product := range candidates {
		b := ScoreBreakdown{Price: neutralSubScore, Rating: neutralSubScore}

		if product.Price != nil && priceMax != priceMin {
			b.Price = 1 - (*product.Price-priceMin)/(priceMax-priceMin)
		}
		if product.Rating != nil && ratingMax != ratingMin {
			b.Rating = (*product.Rating - ratingMin) / (ratingMax - ratingMin)
		}

		breakdowns[i] = b
	}

	return breakdowns
}

// valueRange returns the min and max of the present values selected by field
func valueRange(products []domain.ProductRecord, field func(domain.ProductRecord) *float64) (float64, float64) {
	var minVal, maxVal float64
	seen := false

	for _, p := range products {
		v := field(p)
		if v == nil {
			continue
		}
		if !seen {
			minVal, maxVal = *v, *v
			seen = true
			continue
		}
		if *v < minVal {
			minVal = *v
		}
		if *v > maxVal {
			maxVal = *v
		}
	}

	return minVal, maxVal
}
