package report

import (
	"github.com/charmbracelet/glamour"

	"github.com/bobmcallan/cryptodash/internal/models"
)

// DefaultWidth is the word-wrap width used when none is given.
const DefaultWidth = 100

// StyleFor maps a display theme to a glamour standard style.
func StyleFor(theme models.Theme) string {
	if theme == models.ThemeLight {
		return "light"
	}
	return "dark"
}

// Render renders markdown for the terminal. The raw markdown is returned
// when rendering fails.
func Render(md, style string, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
