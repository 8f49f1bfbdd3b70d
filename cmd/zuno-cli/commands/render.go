package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/zuno/backend/internal/domain"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	scoreColor   = color.New(color.FgGreen)
	mutedColor   = color.New(color.FgHiBlack)
)

// renderResponse prints a recommendation for a terminal
func renderResponse(w io.Writer, resp *domain.Response) {
	headingColor.Fprintln(w, "Zuno says")
	fmt.Fprintln(w, strings.TrimSpace(resp.Summary))
	fmt.Fprintln(w)

	headingColor.Fprintln(w, "Ranked products")
	if len(resp.RankedProducts) == 0 {
		mutedColor.Fprintln(w, "  no products with both a price and a rating were found")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tSCORE\tPRICE\tRATING\tREVIEWS\tSOURCE\tTITLE")
		for i, p := range resp.RankedProducts {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				i+1,
				scoreColor.Sprint(formatFloat(p.Score, "%.2f")),
				formatFloat(p.Price, "$%.2f"),
				formatFloat(p.Rating, "%.1f"),
				formatInt(p.ReviewCount),
				p.Source,
				p.Title,
			)
		}
		_ = tw.Flush()
	}

	renderMedia(w, "Review videos", resp.VideoResults)
	renderMedia(w, "Visually similar", resp.LensResults)
}

func renderMedia(w io.Writer, heading string, items []domain.MediaResult) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w)
	headingColor.Fprintln(w, heading)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item.Title)
		mutedColor.Fprintf(w, "    %s\n", item.Link)
	}
}

func formatFloat(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

func formatInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}
