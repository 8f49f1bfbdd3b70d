package domain

// Request is a single recommendation request
type Request struct {
	Query     string  `json:"query"`
	ImageData string  `json:"image_data,omitempty"` // Base64 encoded image
	ImageURL  string  `json:"image_url,omitempty"`  // Publicly reachable image for reverse search
	Weights   Weights `json:"weights"`
}

// HasImage reports whether the request carries an image in any form
func (r *Request) HasImage() bool {
	return r.ImageData != "" || r.ImageURL != ""
}

// Response is the complete recommendation returned to the caller
type Response struct {
	Summary        string          `json:"summary"`
	RankedProducts []ProductRecord `json:"ranked_products"`
	VideoResults   []MediaResult   `json:"video_results"`
	LensResults    []MediaResult   `json:"lens_results"`
}

// NewResponse returns a response with empty, non-nil result sections
func NewResponse() *Response {
	return &Response{
		RankedProducts: []ProductRecord{},
		VideoResults:   []MediaResult{},
		LensResults:    []MediaResult{},
	}
}
