package port

import "context"

// MetadataSource looks up page metadata through the proxy.
// An empty string with a nil error means the page had none.
type MetadataSource interface {
	FetchTitle(ctx context.Context, pageURL string) (string, error)
	FetchFavicon(ctx context.Context, pageURL string) (string, error)
}
