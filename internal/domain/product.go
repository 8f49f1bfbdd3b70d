package domain

// RawProductRecord is a shopping result as returned by a search provider.
// No key is guaranteed to be present.
type RawProductRecord map[string]interface{}

// RawMediaResult is an image, video or visual-match result as returned by a search provider.
type RawMediaResult map[string]interface{}

// ProductRecord is a normalized product ready for comparison
type ProductRecord struct {
	Title       string   `json:"title"`
	Price       *float64 `json:"price"`
	Rating      *float64 `json:"rating"`
	ReviewCount *int     `json:"reviews"`
	Source      string   `json:"source"`
	Link        string   `json:"link"`
	Thumbnail   *string  `json:"thumbnail"`
	Score       *float64 `json:"score"` // Populated by ranking, range 0-1
}

// MediaResult is a displayable image or video result
type MediaResult struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Thumbnail string `json:"thumbnail"`
}

// Weights are the user's ranking priorities. Each is expected in [0,1].
type Weights struct {
	Price  float64 `json:"price" binding:"gte=0,lte=1"`
	Rating float64 `json:"rating" binding:"gte=0,lte=1"`
}

// DefaultWeights returns equal price and rating priorities
func DefaultWeights() Weights {
	return Weights{Price: 0.5, Rating: 0.5}
}
