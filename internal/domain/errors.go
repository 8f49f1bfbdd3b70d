package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrProductSearchFailed is returned when the shopping search provider fails
	ErrProductSearchFailed = errors.New("product search failed")

	// ErrImageSearchFailed is returned when the image or reverse-image search fails
	ErrImageSearchFailed = errors.New("image search failed")

	// ErrVideoSearchFailed is returned when the video search fails
	ErrVideoSearchFailed = errors.New("video search failed")

	// ErrTextGenerationFailed is returned when the language model call fails
	ErrTextGenerationFailed = errors.New("text generation failed")

	// ErrProviderFailure is returned by search adapters for transport or status failures
	ErrProviderFailure = errors.New("search provider request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrStoreUnavailable is returned when the rate limit store cannot be reached
	ErrStoreUnavailable = errors.New("rate limit store unavailable")
)
