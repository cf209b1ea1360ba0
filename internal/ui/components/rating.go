package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/assessor/internal/assessment"
	"github.com/abhisek/assessor/internal/ui/theme"
)

// RatingPicker shows the 1-5 scale and tracks the chosen value.
type RatingPicker struct {
	Value assessment.Rating
}

// NewRatingPicker creates a picker preset to r. Zero means unrated.
func NewRatingPicker(r assessment.Rating) RatingPicker {
	return RatingPicker{Value: r}
}

// Update handles the digit keys 1-5. changed reports whether a key picked a
// rating, even if it equals the current one.
func (p RatingPicker) Update(msg tea.Msg) (RatingPicker, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, false
	}
	key := kmsg.String()
	if len(key) != 1 || key[0] < '1' || key[0] > '5' {
		return p, false
	}
	p.Value = assessment.Rating(key[0] - '0')
	return p, true
}

// View renders the scale with the current value highlighted.
func (p RatingPicker) View() string {
	cells := make([]string, 0, assessment.MaxRating)
	for r := assessment.MinRating; r <= assessment.MaxRating; r++ {
		label := fmt.Sprintf(" %d ", r)
		if r == p.Value {
			cells = append(cells, lipgloss.NewStyle().
				Background(theme.RatingColor(int(r))).
				Foreground(theme.BgDark).
				Bold(true).
				Render(label))
			continue
		}
		cells = append(cells, lipgloss.NewStyle().
			Foreground(theme.RatingColor(int(r))).
			Render(label))
	}

	desc := theme.Hint.Render(p.Value.Description())
	return strings.Join(cells, " ") + "   " + desc
}
