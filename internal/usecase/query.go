package usecase

import (
	"regexp"
	"strings"
)

var multiSpacePattern = regexp.MustCompile(`\s+`)

// videoIntentTerms trigger a video review search when found anywhere in the query
var videoIntentTerms = []string{"review", "video"}

// NormalizeQuery trims the query and collapses internal whitespace
func NormalizeQuery(query string) string {
	return strings.TrimSpace(multiSpacePattern.ReplaceAllString(query, " "))
}

// WantsVideoReviews reports whether the query asks for reviews or videos.
// This is a substring heuristic ("reviewer" and "videogame" match too), not an
// intent classifier.
// TODO: replace with structured intent detection from the language model.
func WantsVideoReviews(query string) bool {
	q := strings.ToLower(query)
	for _, term := range videoIntentTerms {
		if strings.Contains(q, term) {
			return true
		}
	}
	return false
}
