package catalog

import "strings"

// Category is one of the fixed topic labels a question belongs to.
type Category string

const (
	CategoryFundamentals   Category = "JavaScript & React Fundamentals"
	CategoryArchitecture   Category = "Architecture & Component Design"
	CategoryTypeScript     Category = "TypeScript & Static Typing"
	CategoryTesting        Category = "Testing & Quality Assurance"
	CategoryPerformance    Category = "Performance & Optimization"
	CategoryLeadership     Category = "Leadership & Entrepreneurial Mindset"
	CategorySelfManagement Category = "Self-Management & Execution"
)

// AllCategories returns every category in display order.
func AllCategories() []Category {
	return []Category{
		CategoryFundamentals,
		CategoryArchitecture,
		CategoryTypeScript,
		CategoryTesting,
		CategoryPerformance,
		CategoryLeadership,
		CategorySelfManagement,
	}
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// Slug returns a short, flag-friendly identifier for the category.
func (c Category) Slug() string {
	switch c {
	case CategoryFundamentals:
		return "fundamentals"
	case CategoryArchitecture:
		return "architecture"
	case CategoryTypeScript:
		return "typescript"
	case CategoryTesting:
		return "testing"
	case CategoryPerformance:
		return "performance"
	case CategoryLeadership:
		return "leadership"
	case CategorySelfManagement:
		return "self-management"
	default:
		return strings.ToLower(strings.ReplaceAll(string(c), " ", "-"))
	}
}

// Icon returns the display icon for a category.
func (c Category) Icon() string {
	switch c {
	case CategoryFundamentals:
		return "⚛️"
	case CategoryArchitecture:
		return "🏗️"
	case CategoryTypeScript:
		return "📝"
	case CategoryTesting:
		return "🧪"
	case CategoryPerformance:
		return "⚡"
	case CategoryLeadership:
		return "👑"
	case CategorySelfManagement:
		return "⏱️"
	default:
		return "📋"
	}
}

// ParseCategory resolves a full category name or its slug, ignoring case.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range AllCategories() {
		if strings.EqualFold(s, string(c)) || strings.EqualFold(s, c.Slug()) {
			return c, true
		}
	}
	return "", false
}

// Level is a question's difficulty tier.
type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelExpert       Level = "Expert"
)

// AllLevels returns every level from easiest to hardest.
func AllLevels() []Level {
	return []Level{LevelBeginner, LevelIntermediate, LevelExpert}
}

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	return l.Rank() > 0
}

// Rank orders levels: 1 for Beginner up to 3 for Expert, 0 if unknown.
func (l Level) Rank() int {
	switch l {
	case LevelBeginner:
		return 1
	case LevelIntermediate:
		return 2
	case LevelExpert:
		return 3
	default:
		return 0
	}
}

// Question is a single interview question. LookFor, RedFlags and GreenFlags
// are guidance for the interviewer and are never evaluated.
type Question struct {
	ID          int      `json:"id"`
	Category    Category `json:"category"`
	Level       Level    `json:"level"`
	Text        string   `json:"text"`
	Description string   `json:"description"`
	LookFor     string   `json:"lookFor"`
	RedFlags    string   `json:"redFlags"`
	GreenFlags  string   `json:"greenFlags"`
}
