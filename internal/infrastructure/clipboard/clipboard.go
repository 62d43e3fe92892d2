// Package clipboard adapts the system clipboard to port.Clipboard.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/bnema/startpage/internal/application/port"
	"github.com/bnema/startpage/internal/logging"
)

// ErrUnavailable is returned when no clipboard tool is installed
// (xclip, xsel or wl-clipboard on Linux).
var ErrUnavailable = errors.New("no clipboard tool available (install wl-clipboard, xclip or xsel)")

// Adapter implements port.Clipboard on top of atotto/clipboard.
type Adapter struct {
	read        func() (string, error)
	write       func(string) error
	unsupported bool
}

var _ port.Clipboard = (*Adapter)(nil)

// New creates a clipboard adapter backed by the system clipboard.
func New() *Adapter {
	return &Adapter{
		read:        clipboard.ReadAll,
		write:       clipboard.WriteAll,
		unsupported: clipboard.Unsupported,
	}
}

// NewWithFuncs creates an adapter over custom read/write functions, for tests
// and headless environments.
func NewWithFuncs(read func() (string, error), write func(string) error) *Adapter {
	return &Adapter{read: read, write: write}
}

// WriteText copies text to the clipboard.
func (a *Adapter) WriteText(ctx context.Context, text string) error {
	log := logging.FromContext(ctx)

	if a.unsupported {
		log.Error().Err(ErrUnavailable).Msg("clipboard write failed")
		return ErrUnavailable
	}
	if err := a.write(text); err != nil {
		log.Error().Err(err).Msg("clipboard write failed")
		return fmt.Errorf("clipboard write: %w", err)
	}

	log.Debug().Int("len", len(text)).Msg("clipboard write success")
	return nil
}

// ReadText returns the clipboard text with the trailing newline some tools
// append removed.
func (a *Adapter) ReadText(ctx context.Context) (string, error) {
	log := logging.FromContext(ctx)

	if a.unsupported {
		log.Error().Err(ErrUnavailable).Msg("clipboard read failed")
		return "", ErrUnavailable
	}
	text, err := a.read()
	if err != nil {
		// An empty clipboard makes some tools exit non-zero.
		log.Debug().Err(err).Msg("clipboard read failed (may be empty)")
		return "", fmt.Errorf("clipboard read: %w", err)
	}

	text = strings.TrimRight(text, "\r\n")
	log.Debug().Int("len", len(text)).Msg("clipboard read success")
	return text, nil
}
