package port

import "context"

// Clipboard is the system clipboard, text only.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
	// ReadText returns "" when the clipboard holds no text.
	ReadText(ctx context.Context) (string, error)
}
