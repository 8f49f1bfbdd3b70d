package http

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/zuno/backend/internal/domain"
	"github.com/zuno/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	recommendationService *usecase.RecommendationService
	logger                zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(recommendationService *usecase.RecommendationService, logger zerolog.Logger) *Handler {
	return &Handler{
		recommendationService: recommendationService,
		logger:                logger,
	}
}

// Root reports that the server is up
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Zuno server is running.",
	})
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "zuno-backend",
		"version": "1.0.0",
	})
}

// Recommend handles recommendation requests
func (h *Handler) Recommend(c *gin.Context) {
	if h.recommendationService == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error":   "not_implemented",
			"message": "Recommendation service not configured",
		})
		return
	}

	req := domain.Request{Weights: domain.DefaultWeights()}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", "Invalid request body: "+err.Error())
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		respondError(c, http.StatusBadRequest, "invalid_request", "query is required")
		return
	}

	if req.ImageData != "" {
		if _, err := decodeImageData(req.ImageData); err != nil {
			respondError(c, http.StatusBadRequest, "invalid_request", "image_data must be base64 encoded")
			return
		}
	}

	ctx := c.Request.Context()
	resp, err := h.recommendationService.Recommend(ctx, &req)
	if err != nil {
		h.handleServiceError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// statusClientClosedRequest is the nginx convention for a caller that went away
const statusClientClosedRequest = 499

// upstreamMessages are the client-facing messages per failing collaborator.
// Wrapped provider errors stay in the logs only.
var upstreamMessages = []struct {
	err     error
	message string
}{
	{domain.ErrProductSearchFailed, "product search failed"},
	{domain.ErrImageSearchFailed, "image search failed"},
	{domain.ErrVideoSearchFailed, "video search failed"},
	{domain.ErrTextGenerationFailed, "summary generation failed"},
}

// handleServiceError maps usecase errors to HTTP responses
func (h *Handler) handleServiceError(ctx context.Context, c *gin.Context, err error) {
	log := h.logger.With().Str("request_id", c.GetString(requestIDKey)).Logger()

	if errors.Is(err, domain.ErrInvalidRequest) {
		respondError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		log.Warn().Err(err).Msg("recommendation aborted")
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			respondError(c, http.StatusGatewayTimeout, "timeout", "The request took too long to complete")
			return
		}
		respondError(c, statusClientClosedRequest, "canceled", "The request was canceled")
		return
	}

	for _, upstream := range upstreamMessages {
		if errors.Is(err, upstream.err) {
			log.Error().Err(err).Msg("upstream failure")
			respondError(c, http.StatusBadGateway, "upstream_failure", upstream.message)
			return
		}
	}

	log.Error().Err(err).Msg("unexpected recommendation error")
	respondError(c, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error":   code,
		"message": message,
	})
}

var errEmptyImage = errors.New("image data is empty")

// decodeImageData accepts raw base64 or a data URL ("data:image/png;base64,...")
func decodeImageData(data string) ([]byte, error) {
	if strings.HasPrefix(data, "data:") {
		if idx := strings.Index(data, ","); idx >= 0 {
			data = data[idx+1:]
		}
	}
	data = strings.TrimSpace(data)
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		if decoded, err = base64.RawStdEncoding.DecodeString(data); err != nil {
			return nil, err
		}
	}
	if len(decoded) == 0 {
		return nil, errEmptyImage
	}
	return decoded, nil
}
