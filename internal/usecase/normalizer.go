package usecase

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/zuno/backend/internal/domain"
)

// Default display values for fields a provider left out
const (
	defaultTitle  = "No Title Available"
	defaultSource = "Unknown Source"
)

// Keys read from raw shopping results
const (
	keyExtractedPrice = "extracted_price"
	keyPrice          = "price"
	keyRating         = "rating"
	keyReviews        = "reviews"
	keyTitle          = "title"
	keySource         = "source"
	keyLink           = "link"
	keyThumbnail      = "thumbnail"
)

// priceNumberRegex finds the first numeric run in a display price like "$1,299.00"
var priceNumberRegex = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParseOptionalNumber coerces a loosely-typed value into a float.
// The second return value is false when the value is missing or not numeric.
func ParseOptionalNumber(raw interface{}) (float64, bool) {
	var value float64

	switch v := raw.(type) {
	case float64:
		value = v
	case float32:
		value = float64(v)
	case int:
		value = float64(v)
	case int32:
		value = float64(v)
	case int64:
		value = float64(v)
	case uint:
		value = float64(v)
	case uint32:
		value = float64(v)
	case uint64:
		value = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		value = f
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		value = f
	default:
		return 0, false
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

// parseDisplayPrice extracts the amount from a formatted price string.
// Used only when the provider did not supply a pre-extracted numeric price.
func parseDisplayPrice(raw interface{}) (float64, bool) {
	if value, ok := ParseOptionalNumber(raw); ok {
		return value, true
	}

	s, ok := raw.(string)
	if !ok {
		return 0, false
	}

	match := priceNumberRegex.FindString(strings.ReplaceAll(s, ",", ""))
	if match == "" {
		return 0, false
	}
	return ParseOptionalNumber(match)
}

// NormalizeProducts converts raw shopping results into comparable candidates.
// Records without a parseable price or rating are dropped. The result is never nil.
func NormalizeProducts(raw []domain.RawProductRecord) []domain.ProductRecord {
	candidates := make([]domain.ProductRecord, 0, len(raw))

	for _, record := range raw {
		product := normalizeProduct(record)
		if product.Price == nil || product.Rating == nil {
			continue
		}
		candidates = append(candidates, product)
	}

	return candidates
}

// normalizeProduct applies the field defaults and numeric coercion to one record
func normalizeProduct(record domain.RawProductRecord) domain.ProductRecord {
	product := domain.ProductRecord{
		Title:  stringOr(record, keyTitle, defaultTitle),
		Source: stringOr(record, keySource, defaultSource),
		Link:   stringOr(record, keyLink, ""),
	}

	if price, ok := ParseOptionalNumber(record[keyExtractedPrice]); ok {
		product.Price = &price
	} else if price, ok := parseDisplayPrice(record[keyPrice]); ok {
		product.Price = &price
	}

	if rating, ok := ParseOptionalNumber(record[keyRating]); ok {
		product.Rating = &rating
	}

	if count, ok := parseReviewCount(record[keyReviews]); ok {
		product.ReviewCount = &count
	}

	if thumbnail := stringOr(record, keyThumbnail, ""); thumbnail != "" {
		product.Thumbnail = &thumbnail
	}

	return product
}

// parseReviewCount accepts only whole, non-negative counts that fit in an int
func parseReviewCount(raw interface{}) (int, bool) {
	reviews, ok := ParseOptionalNumber(raw)
	if !ok || reviews < 0 || reviews != math.Trunc(reviews) || reviews >= float64(math.MaxInt) {
		return 0, false
	}
	return int(reviews), true
}

// stringOr returns the trimmed string at key, or fallback when missing, blank or not a string
func stringOr(record map[string]interface{}, key, fallback string) string {
	v, ok := record[key].(string)
	if !ok {
		return fallback
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
