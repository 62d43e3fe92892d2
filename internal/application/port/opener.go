package port

import "context"

// URLOpener hands a navigation target to the desktop's web browser.
type URLOpener interface {
	Open(ctx context.Context, targetURL string) error
}
