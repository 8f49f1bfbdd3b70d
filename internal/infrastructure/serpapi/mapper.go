package serpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zuno/backend/internal/domain"
)

// resultKeys maps each engine to the response field holding its result list
var resultKeys = map[string]string{
	EngineShopping: "shopping_results",
	EngineImages:   "images_results",
	EngineVideos:   "video_results",
	EngineLens:     "visual_matches",
}

// decodeResults parses a SerpAPI response body and returns the objects under key.
// A missing key means the engine found nothing and yields an empty list.
func decodeResults(body []byte, key string) ([]map[string]interface{}, error) {
	var payload map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrProviderFailure, err)
	}

	if msg, ok := payload["error"].(string); ok && strings.TrimSpace(msg) != "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderFailure, msg)
	}

	raw, ok := payload[key].([]interface{})
	if !ok {
		return []map[string]interface{}{}, nil
	}

	results := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		// Non-object entries carry nothing the normalizers can use
		if obj, ok := item.(map[string]interface{}); ok {
			results = append(results, obj)
		}
	}
	return results, nil
}

// providerMessage extracts the "error" field from a failure body, or a trimmed
// snippet of the raw body when it is not JSON
func providerMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
