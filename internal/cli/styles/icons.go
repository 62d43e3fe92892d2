package styles

// Nerd Font icons (requires a Nerd Font to display correctly)
const (
	IconGlobe     = "" //  browser/web
	IconSearch    = "" //  magnifier
	IconVersion   = "" //  tag
	IconGitBranch = "" //  git branch
	IconCalendar  = "" //  calendar
	IconGo        = "" //  go gopher
	IconArrow     = "" //  arrow right

	IconCheck   = ""
	IconX       = ""
	IconWarning = ""
	IconInfo    = ""

	IconConfig    = ""
	IconDatabase  = ""
	IconClipboard = ""
	IconStar      = "" // default engine marker
	IconServer    = ""
)
