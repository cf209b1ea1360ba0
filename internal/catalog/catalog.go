package catalog

import (
	"slices"
)

// Catalog is an immutable, indexed set of questions. All methods are safe
// for concurrent use because nothing mutates a Catalog after Load.
type Catalog struct {
	version    string
	questions  []Question
	byID       map[int]*Question
	byCategory map[Category][]Question
}

// build constructs the catalog indices from an already-validated question list.
func build(version string, questions []Question) *Catalog {
	c := &Catalog{
		version:    version,
		questions:  questions,
		byID:       make(map[int]*Question, len(questions)),
		byCategory: make(map[Category][]Question),
	}
	for i := range c.questions {
		q := &c.questions[i]
		c.byID[q.ID] = q
		c.byCategory[q.Category] = append(c.byCategory[q.Category], *q)
	}
	return c
}

// Version returns the semantic version declared by the catalog document.
func (c *Catalog) Version() string {
	return c.version
}

// Len returns the number of questions in the catalog.
func (c *Catalog) Len() int {
	return len(c.questions)
}

// AllQuestions returns every question in catalog order.
func (c *Catalog) AllQuestions() []Question {
	return slices.Clone(c.questions)
}

// GroupByCategory buckets the catalog by category, preserving catalog order
// within each bucket. Categories without questions are absent from the map.
func (c *Catalog) GroupByCategory() map[Category][]Question {
	groups := make(map[Category][]Question, len(c.byCategory))
	for cat, qs := range c.byCategory {
		groups[cat] = slices.Clone(qs)
	}
	return groups
}

// ByCategory returns the questions of one category in catalog order, or nil.
func (c *Catalog) ByCategory(cat Category) []Question {
	return slices.Clone(c.byCategory[cat])
}

// ByID looks up a question. The bool is false for ids the catalog does not know.
func (c *Catalog) ByID(id int) (Question, bool) {
	q, ok := c.byID[id]
	if !ok {
		return Question{}, false
	}
	return *q, true
}

// Categories returns the populated categories in display order.
func (c *Catalog) Categories() []Category {
	var out []Category
	for _, cat := range AllCategories() {
		if len(c.byCategory[cat]) > 0 {
			out = append(out, cat)
		}
	}
	return out
}

// CountByCategory returns the number of questions per populated category.
func (c *Catalog) CountByCategory() map[Category]int {
	counts := make(map[Category]int, len(c.byCategory))
	for cat, qs := range c.byCategory {
		counts[cat] = len(qs)
	}
	return counts
}
