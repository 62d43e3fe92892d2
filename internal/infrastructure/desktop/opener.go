// Package desktop hands navigation targets to the user's web browser.
package desktop

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/bnema/startpage/internal/application/port"
	"github.com/bnema/startpage/internal/logging"
)

// ErrNoOpener is returned when neither $BROWSER nor a platform opener exists.
var ErrNoOpener = errors.New("no browser opener found (set $BROWSER or install xdg-utils)")

// Opener implements port.URLOpener by running an external command.
type Opener struct {
	command string
	args    []string
}

var _ port.URLOpener = (*Opener)(nil)

// NewOpener detects the opener: $BROWSER first, then xdg-open on Unix,
// open on macOS and rundll32 on Windows.
func NewOpener() *Opener {
	if browser := strings.TrimSpace(os.Getenv("BROWSER")); browser != "" {
		// $BROWSER may be a colon-separated list; the first entry wins.
		fields := strings.Fields(strings.Split(browser, ":")[0])
		if len(fields) > 0 {
			return NewOpenerCommand(fields[0], fields[1:]...)
		}
	}

	switch runtime.GOOS {
	case "darwin":
		return lookup("open")
	case "windows":
		return lookup("rundll32", "url.dll,FileProtocolHandler")
	default:
		return lookup("xdg-open")
	}
}

// NewOpenerCommand uses command with args; the URL is appended last.
func NewOpenerCommand(command string, args ...string) *Opener {
	return &Opener{command: command, args: args}
}

func lookup(name string, args ...string) *Opener {
	path, err := exec.LookPath(name)
	if err != nil {
		return &Opener{}
	}
	return &Opener{command: path, args: args}
}

// Command returns the detected command, empty when none was found.
func (o *Opener) Command() string {
	return o.command
}

// Open starts the browser without waiting for it to exit.
func (o *Opener) Open(ctx context.Context, targetURL string) error {
	log := logging.FromContext(ctx)

	if o.command == "" {
		return ErrNoOpener
	}

	args := append(append([]string{}, o.args...), targetURL)
	cmd := exec.Command(o.command, args...)
	if err := cmd.Start(); err != nil {
		log.Error().Err(err).Str("command", o.command).Msg("failed to start browser")
		return fmt.Errorf("failed to open %s: %w", targetURL, err)
	}
	// Reap the child in the background.
	go func() { _ = cmd.Wait() }()

	log.Debug().Str("command", o.command).Str("url", targetURL).Msg("opened in browser")
	return nil
}
