package draw

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tomz197/pewpew/internal/asset"
)

// TextRenderer styles overlay text for one terminal. Each SSH session gets
// its own renderer so colour support follows that session's terminal.
type TextRenderer struct {
	r      *lipgloss.Renderer
	styles map[TextStyle]lipgloss.Style
}

// NewTextRenderer creates a renderer writing for w with the given colour profile.
func NewTextRenderer(w io.Writer, profile termenv.Profile) *TextRenderer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	return &TextRenderer{r: r, styles: make(map[TextStyle]lipgloss.Style)}
}

// Render returns text wrapped in the escape sequences for style.
func (t *TextRenderer) Render(text string, style TextStyle) string {
	st, ok := t.styles[style]
	if !ok {
		st = t.r.NewStyle().
			Foreground(lipgloss.Color(asset.HexColor(style.Color))).
			Bold(style.Bold)
		t.styles[style] = st
	}
	return st.Render(text)
}
