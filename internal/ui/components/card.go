package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/assessor/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for boxed sections so
// that stacked cards line up.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 72)
}

// Card wraps content in a rounded-border box at the given content width.
func Card(content string, cw int) string {
	return theme.Card.
		Width(cw - 2).
		Render(content)
}

// Badge renders a short bracketed label in the given colour.
func Badge(label string, c color.Color) string {
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render("[" + label + "]")
}
