package debrief

import (
	"fmt"
	"strings"

	"github.com/abhisek/assessor/internal/catalog"
	"github.com/abhisek/assessor/internal/scoring"
)

const systemPrompt = `You are a senior engineering manager writing an interview debrief for a React developer candidate.
You receive per-question ratings from 1 (Unsatisfactory) to 5 (Excellent) and the interviewer's notes.
Only state what the ratings and notes support. Do not invent answers the candidate gave.
Keep the tone factual and the summary consistent with the overall verdict.`

// buildPrompt renders the report plus the catalog's interviewer guidance.
func buildPrompt(r scoring.Report, c *catalog.Catalog) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Overall rating: %.1f/5, verdict %s, %s.\n", r.OverallRating, r.Verdict, r.Recommendation)
	fmt.Fprintf(&b, "%d questions answered, %d rated.\n", r.AnsweredCount, r.RatedCount)

	for _, cat := range r.Categories {
		fmt.Fprintf(&b, "\nCategory: %s (average %.1f)\n", cat.Category, cat.AverageRating)
		for _, q := range cat.Questions {
			fmt.Fprintf(&b, "- [%s] %s\n", q.Level, q.Text)
			if q.Rating.Valid() {
				fmt.Fprintf(&b, "  Rating: %d (%s)\n", int(q.Rating), q.Rating.Description())
			} else {
				b.WriteString("  Rating: not rated\n")
			}
			if q.Notes != "" {
				fmt.Fprintf(&b, "  Notes: %s\n", q.Notes)
			}
			if c == nil {
				continue
			}
			if full, ok := c.ByID(q.QuestionID); ok && full.LookFor != "" {
				fmt.Fprintf(&b, "  Expected: %s\n", full.LookFor)
			}
		}
	}
	return b.String()
}
