// Package scoring folds a session's answers into per-category summaries and
// an overall verdict. Everything here is pure and deterministic.
package scoring

import (
	"math"
	"slices"

	"github.com/abhisek/assessor/internal/assessment"
	"github.com/abhisek/assessor/internal/catalog"
)

// Verdict is the qualitative label derived from the overall rating.
type Verdict string

const (
	VerdictUnsatisfactory   Verdict = "Unsatisfactory"
	VerdictNeedsImprovement Verdict = "Needs Improvement"
	VerdictSatisfactory     Verdict = "Satisfactory"
	VerdictGood             Verdict = "Good"
	VerdictExcellent        Verdict = "Excellent"
)

// Recommendation is the hire / no-hire outcome.
type Recommendation string

const (
	Recommended    Recommendation = "Recommended"
	NotRecommended Recommendation = "Not Recommended"
)

// RecommendThreshold is the lowest overall rating that is recommended.
const RecommendThreshold = 3.5

// QuestionResult is a snapshot of one answered question.
type QuestionResult struct {
	QuestionID int               `json:"questionId"`
	Text       string            `json:"text"`
	Level      catalog.Level     `json:"level"`
	Rating     assessment.Rating `json:"rating,omitempty"`
	Notes      string            `json:"notes,omitempty"`
}

// CategorySummary aggregates the answered questions of one category.
type CategorySummary struct {
	Category      catalog.Category `json:"category"`
	Questions     []QuestionResult `json:"questions"`
	AverageRating float64          `json:"averageRating"`
	RatedCount    int              `json:"ratedCount"`
}

// Report is the aggregated result of a session.
type Report struct {
	Categories     []CategorySummary `json:"categoryReports"`
	OverallRating  float64           `json:"overallRating"`
	Verdict        Verdict           `json:"verdict"`
	Recommendation Recommendation    `json:"recommendation"`
	RatedCount     int               `json:"ratedCount"`
	AnsweredCount  int               `json:"answeredCount"`
}

// Aggregate builds a report from answers. Answers for ids the catalog does not
// know are skipped. Questions are visited in ascending id order, which fixes
// both the category order and the question order inside each category.
// Averages are means of present ratings rounded to one decimal; the overall
// rating weighs every rated question equally regardless of category.
func Aggregate(c *catalog.Catalog, answers map[int]assessment.Answer) Report {
	ids := make([]int, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var (
		order    []catalog.Category
		byCat    = make(map[catalog.Category]*CategorySummary)
		sums     = make(map[catalog.Category]int)
		total    int
		rated    int
		answered int
	)

	for _, id := range ids {
		q, ok := c.ByID(id)
		if !ok {
			continue
		}
		a := answers[id]
		answered++

		sum, exists := byCat[q.Category]
		if !exists {
			sum = &CategorySummary{Category: q.Category}
			byCat[q.Category] = sum
			order = append(order, q.Category)
		}
		sum.Questions = append(sum.Questions, QuestionResult{
			QuestionID: q.ID,
			Text:       q.Text,
			Level:      q.Level,
			Rating:     a.Rating,
			Notes:      a.Notes,
		})
		if a.Rated() {
			sum.RatedCount++
			sums[q.Category] += int(a.Rating)
			total += int(a.Rating)
			rated++
		}
	}

	r := Report{
		Categories:    make([]CategorySummary, 0, len(order)),
		RatedCount:    rated,
		AnsweredCount: answered,
	}
	for _, cat := range order {
		sum := byCat[cat]
		sum.AverageRating = mean(sums[cat], sum.RatedCount)
		r.Categories = append(r.Categories, *sum)
	}
	r.OverallRating = mean(total, rated)
	r.Verdict = VerdictFor(r.OverallRating)
	r.Recommendation = RecommendationFor(r.OverallRating)
	return r
}

// VerdictFor maps an overall rating onto its verdict band.
func VerdictFor(overall float64) Verdict {
	switch {
	case overall >= 4.5:
		return VerdictExcellent
	case overall >= 3.5:
		return VerdictGood
	case overall >= 2.5:
		return VerdictSatisfactory
	case overall >= 1.5:
		return VerdictNeedsImprovement
	default:
		return VerdictUnsatisfactory
	}
}

// RecommendationFor maps an overall rating onto the binary recommendation.
func RecommendationFor(overall float64) Recommendation {
	if overall >= RecommendThreshold {
		return Recommended
	}
	return NotRecommended
}

func mean(sum, n int) float64 {
	if n == 0 {
		return 0
	}
	return round1(float64(sum) / float64(n))
}

// round1 rounds half away from zero to one decimal place.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
