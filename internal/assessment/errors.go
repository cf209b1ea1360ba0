package assessment

import "errors"

var (
	// ErrEmptyCategory is returned when a category has no questions in the catalog.
	ErrEmptyCategory = errors.New("category has no questions")

	// ErrInvalidRating is returned for ratings outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrUnknownQuestion is returned when a question is not in the active list.
	ErrUnknownQuestion = errors.New("question is not part of the active category")

	// ErrNoActiveCategory is returned by operations that need an active category.
	ErrNoActiveCategory = errors.New("no active category")
)
