package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/assessor/internal/ui/theme"
)

const bannerArt = `
 ▄▀█ █▀ █▀ █▀▀ █▀ █▀ █▀█ █▀█
 █▀█ ▄█ ▄█ ██▄ ▄█ ▄█ █▄█ █▀▄`

const bannerCompact = "A S S E S S O R"

// renderBanner returns the title banner, falling back to plain letters on
// narrow or short terminals.
func renderBanner(width int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if compact || width < 40 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
