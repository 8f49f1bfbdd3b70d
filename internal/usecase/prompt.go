package usecase

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zuno/backend/internal/domain"
)

// Prompt section limits
const (
	promptTopProducts = 3
	promptLensTitles  = 2
)

// BuildSynthesisPrompt renders the gathered results into the instruction sent
// to the language model. Output is deterministic for a given request/response.
func BuildSynthesisPrompt(request *domain.Request, response *domain.Response) string {
	var b strings.Builder

	b.WriteString("You are Zuno, a helpful shopping assistant. Summarize the following findings for the user.\n")
	fmt.Fprintf(&b, "User's initial query: '%s'\n", request.Query)
	fmt.Fprintf(&b, "User's priorities: Price (%.0f%%), Rating (%.0f%%).\n\n",
		request.Weights.Price*100, request.Weights.Rating*100)

	if len(response.RankedProducts) > 0 {
		b.WriteString("Here are the top products I found, ranked according to your priorities:\n")
		for _, p := range response.RankedProducts[:min(len(response.RankedProducts), promptTopProducts)] {
			fmt.Fprintf(&b, "- **%s** (Price: $%.2f, Rating: %s, Score: %.2f)\n",
				p.Title, derefFloat(p.Price), formatRating(p.Rating), derefFloat(p.Score))
		}
		fmt.Fprintf(&b, "\nBased on your weights, the **%s** seems to be the best match.\n\n",
			response.RankedProducts[0].Title)
	} else {
		b.WriteString("I could not find any products with enough pricing and rating information to create a comparison.\n\n")
	}

	if len(response.LensResults) > 0 {
		b.WriteString("Based on the provided image, I found these visually similar items:\n")
		for _, item := range response.LensResults[:min(len(response.LensResults), promptLensTitles)] {
			fmt.Fprintf(&b, "- %s\n", item.Title)
		}
		b.WriteString("\n")
	}

	if len(response.VideoResults) > 0 {
		b.WriteString("I also found these video reviews that could be helpful for your decision:\n")
		for _, video := range response.VideoResults {
			fmt.Fprintf(&b, "- %s\n", video.Title)
		}
		b.WriteString("\n")
	}

	b.WriteString("Please provide a final, concise, and helpful summary that synthesizes all of this information for the user. Speak directly to the user.")
	return b.String()
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// formatRating prints whole ratings with one decimal ("4.0") and others as-is ("4.35")
func formatRating(rating *float64) string {
	if rating == nil {
		return "n/a"
	}
	r := *rating
	if r == float64(int64(r)) {
		return strconv.FormatFloat(r, 'f', 1, 64)
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
