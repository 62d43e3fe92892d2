package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Renderer formats one-shot command output.
type Renderer struct {
	theme *Theme
}

// NewRenderer creates a renderer with the given theme.
func NewRenderer(theme *Theme) *Renderer {
	return &Renderer{theme: theme}
}

// Success renders a confirmation line.
func (r *Renderer) Success(format string, args ...any) string {
	icon := r.theme.SuccessStyle.Render(IconCheck)
	return fmt.Sprintf("  %s %s\n", icon, fmt.Sprintf(format, args...))
}

// Error renders an error line.
func (r *Renderer) Error(err error) string {
	icon := r.theme.ErrorStyle.Render(IconX)
	return fmt.Sprintf("  %s %s\n", icon, r.theme.ErrorStyle.Render(err.Error()))
}

// Info renders an informational line.
func (r *Renderer) Info(format string, args ...any) string {
	icon := lipgloss.NewStyle().Foreground(r.theme.Accent).Render(IconInfo)
	return fmt.Sprintf("  %s %s\n", icon, r.theme.Subtle.Render(fmt.Sprintf(format, args...)))
}

// KeyValues renders aligned key/value pairs under a title.
func (r *Renderer) KeyValues(icon, title string, pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		width = max(width, len(p[0]))
	}

	var sb strings.Builder
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	fmt.Fprintf(&sb, "\n  %s %s\n", iconStyle.Render(icon), r.theme.Title.Render(title))
	for _, p := range pairs {
		key := r.theme.Subtle.Render(fmt.Sprintf("%-*s", width, p[0]))
		fmt.Fprintf(&sb, "    %s  %s\n", key, r.theme.Normal.Render(p[1]))
	}
	return sb.String()
}

// Suggestions renders a numbered suggestion list.
func (r *Renderer) Suggestions(list []string) string {
	if len(list) == 0 {
		return r.Info("no suggestions")
	}
	var sb strings.Builder
	for i, s := range list {
		num := r.theme.Subtle.Render(fmt.Sprintf("%2d", i+1))
		fmt.Fprintf(&sb, "  %s  %s\n", num, r.theme.Normal.Render(s))
	}
	return sb.String()
}
