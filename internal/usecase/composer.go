package usecase

import (
	"github.com/zuno/backend/internal/domain"
)

// Section size limits for the composed response
const (
	MaxLensResults  = 5
	MaxVideoResults = 3
)

// ComposeMedia maps raw image/video results into displayable results.
// Items without both a link and a thumbnail are dropped; the remaining
// items keep provider order and are truncated to limit.
func ComposeMedia(raw []domain.RawMediaResult, limit int) []domain.MediaResult {
	results := make([]domain.MediaResult, 0, min(len(raw), limit))

	for _, item := range raw {
		if len(results) >= limit {
			break
		}

		link := stringOr(item, keyLink, "")
		thumbnail := stringOr(item, keyThumbnail, "")
		if link == "" || thumbnail == "" {
			continue
		}

		results = append(results, domain.MediaResult{
			Title:     stringOr(item, keyTitle, ""),
			Link:      link,
			Thumbnail: thumbnail,
		})
	}

	return results
}
