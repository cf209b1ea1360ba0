// Package report renders an aggregated assessment as a markdown document.
package report

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abhisek/assessor/internal/scoring"
)

// ContentType is the MIME type of the rendered report.
const ContentType = "text/markdown"

// Title is the first line of every report.
const Title = "# React Developer Assessment Report"

// ToText renders the report. Output depends only on r, so repeated calls
// return identical bytes.
func ToText(r scoring.Report) string {
	var b strings.Builder

	b.WriteString(Title)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "**Overall Rating:** %.1f/5 (%s) - %s\n\n", r.OverallRating, r.Verdict, r.Recommendation)
	fmt.Fprintf(&b, "Questions answered: %d, rated: %d\n", r.AnsweredCount, r.RatedCount)

	for _, cat := range r.Categories {
		b.WriteString("\n")
		fmt.Fprintf(&b, "## %s\n\n", cat.Category)
		fmt.Fprintf(&b, "Average Rating: %.1f/5\n", cat.AverageRating)

		for _, q := range cat.Questions {
			b.WriteString("\n")
			fmt.Fprintf(&b, "### Q%d: %s\n\n", q.QuestionID, q.Text)
			fmt.Fprintf(&b, "- Level: %s\n", q.Level)
			if q.Rating.Valid() {
				fmt.Fprintf(&b, "- Rating: %d — %s\n", int(q.Rating), q.Rating.Description())
			} else {
				b.WriteString("- Rating: not rated\n")
			}
			if q.Notes != "" {
				fmt.Fprintf(&b, "- Notes: %s\n", indentNotes(q.Notes))
			}
		}
	}
	return b.String()
}

// indentNotes keeps multi-line notes inside their list item.
func indentNotes(notes string) string {
	notes = strings.TrimRight(notes, "\n")
	return strings.ReplaceAll(notes, "\n", "\n  ")
}

// Filename suggests a name for a report generated at t. When sessionID is set
// its first eight characters are appended so two interviews finished in the
// same second still get different names.
func Filename(t time.Time, sessionID string) string {
	name := "react-assessment-" + t.Format("2006-01-02-150405")
	if len(sessionID) > 8 {
		sessionID = sessionID[:8]
	}
	if sessionID != "" {
		name += "-" + sessionID
	}
	return name + ".md"
}

// maxSuffix bounds the collision suffixes WriteFile tries.
const maxSuffix = 100

// WriteFile stores text in dir under Filename(t, sessionID) and returns the
// path. An existing file is never replaced; on collision a "-2", "-3", ...
// suffix is tried instead.
func WriteFile(dir string, t time.Time, sessionID, text string) (string, error) {
	base := strings.TrimSuffix(Filename(t, sessionID), ".md")
	for i := 1; i <= maxSuffix; i++ {
		name := base + ".md"
		if i > 1 {
			name = fmt.Sprintf("%s-%d.md", base, i)
		}
		path := filepath.Join(dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create report: %w", err)
		}
		if _, err := f.WriteString(text); err != nil {
			f.Close()
			return "", fmt.Errorf("write report: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close report: %w", err)
		}
		return path, nil
	}
	return "", fmt.Errorf("create report: %d files named %s already exist", maxSuffix, base)
}
