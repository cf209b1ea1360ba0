// Package debrief asks a language model to turn a scored assessment into a
// short written debrief for the hiring panel.
package debrief

import (
	"fmt"
	"strings"
)

// Debrief is the model's written summary of a candidate.
type Debrief struct {
	Summary   string   `json:"summary"`
	Strengths []string `json:"strengths"`
	Concerns  []string `json:"concerns"`
	FollowUps []string `json:"follow_ups"`
}

// Markdown renders the debrief as a section that can be appended to a report.
func (d *Debrief) Markdown() string {
	var b strings.Builder
	b.WriteString("## Interviewer Debrief\n\n")
	b.WriteString(d.Summary)
	b.WriteString("\n")
	writeList(&b, "Strengths", d.Strengths)
	writeList(&b, "Concerns", d.Concerns)
	writeList(&b, "Suggested Follow-ups", d.FollowUps)
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n### %s\n\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
}

// Config holds generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the settings used by the TUI, server and CLI.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1024,
		Temperature: 0.3,
	}
}
