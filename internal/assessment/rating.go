package assessment

import "fmt"

// Rating is the interviewer's 1-5 score for one answer. Zero means "not rated".
type Rating int

const (
	RatingNone Rating = 0
	MinRating  Rating = 1
	MaxRating  Rating = 5
)

// Valid reports whether r is a settable rating.
func (r Rating) Valid() bool {
	return r >= MinRating && r <= MaxRating
}

// Description returns the label shown next to a rating.
func (r Rating) Description() string {
	switch r {
	case 1:
		return "Unsatisfactory"
	case 2:
		return "Needs Improvement"
	case 3:
		return "Satisfactory"
	case 4:
		return "Good"
	case 5:
		return "Excellent"
	default:
		return "Not rated"
	}
}

func (r Rating) String() string {
	if !r.Valid() {
		return r.Description()
	}
	return fmt.Sprintf("%d - %s", int(r), r.Description())
}

// Answer is the interviewer's evaluation of a single question.
type Answer struct {
	Rating Rating `json:"rating,omitempty" yaml:"rating,omitempty"`
	Notes  string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Rated reports whether a rating has been recorded.
func (a Answer) Rated() bool {
	return a.Rating.Valid()
}

// HasNotes reports whether notes have been recorded.
func (a Answer) HasNotes() bool {
	return a.Notes != ""
}
