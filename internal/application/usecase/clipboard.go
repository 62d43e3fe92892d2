package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/startpage/internal/application/port"
	"github.com/bnema/startpage/internal/logging"
)

// ErrClipboardEmpty is returned when the clipboard holds no text.
var ErrClipboardEmpty = errors.New("clipboard is empty")

// ClipboardUseCase reads search input from and copies targets to the
// system clipboard.
type ClipboardUseCase struct {
	clipboard port.Clipboard
}

// NewClipboardUseCase creates a new ClipboardUseCase.
func NewClipboardUseCase(clipboard port.Clipboard) *ClipboardUseCase {
	return &ClipboardUseCase{clipboard: clipboard}
}

// Copy writes text to the clipboard.
func (uc *ClipboardUseCase) Copy(ctx context.Context, text string) error {
	log := logging.FromContext(ctx)

	if text == "" {
		log.Debug().Msg("copy: empty text")
		return fmt.Errorf("nothing to copy")
	}
	if uc.clipboard == nil {
		return fmt.Errorf("clipboard not available")
	}

	if err := uc.clipboard.WriteText(ctx, text); err != nil {
		return fmt.Errorf("clipboard write failed: %w", err)
	}

	log.Debug().Str("text", text).Msg("copied to clipboard")
	return nil
}

// Read returns the trimmed clipboard text, or ErrClipboardEmpty.
func (uc *ClipboardUseCase) Read(ctx context.Context) (string, error) {
	if uc.clipboard == nil {
		return "", fmt.Errorf("clipboard not available")
	}

	text, err := uc.clipboard.ReadText(ctx)
	if err != nil {
		return "", fmt.Errorf("clipboard read failed: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrClipboardEmpty
	}
	return text, nil
}
