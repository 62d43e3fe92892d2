package styles

import "github.com/bnema/startpage/internal/domain/entity"

// EngineBadge renders the engine indicator shown left of the search box.
// Engines are shown by their initials; terminals cannot draw icon URLs.
func (t *Theme) EngineBadge(e entity.Engine) string {
	if e.Nickname == "" {
		return t.BadgeMuted.Render("??")
	}
	return t.Badge.Render(e.Initials())
}

// MutedBadge renders a badge with muted colors.
func (t *Theme) MutedBadge(text string) string {
	return t.BadgeMuted.Render(text)
}
