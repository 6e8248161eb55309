// Package browser opens result links in the user's default browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// Launcher starts an external command without waiting for it.
type Launcher func(name string, args ...string) error

// Opener opens validated http(s) URLs with a platform command.
type Opener struct {
	goos   string
	launch Launcher
}

// New returns an Opener for the running platform.
func New() *Opener {
	return &Opener{goos: runtime.GOOS, launch: start}
}

// NewWith returns an Opener for goos that runs commands through launch.
func NewWith(goos string, launch Launcher) *Opener {
	return &Opener{goos: goos, launch: launch}
}

// Open validates rawURL and hands it to the platform's URL handler. Only
// absolute http and https URLs are accepted.
func (o *Opener) Open(rawURL string) error {
	if strings.ContainsAny(rawURL, " \t\r\n\x00") {
		return fmt.Errorf("invalid URL: contains whitespace or control characters")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %q (only http and https allowed)", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}

	name, args, err := command(o.goos, parsed.String())
	if err != nil {
		return err
	}
	if err := o.launch(name, args...); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

// Open opens rawURL with the running platform's handler.
func Open(rawURL string) error {
	return New().Open(rawURL)
}

func command(goos, target string) (string, []string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd":
		return "xdg-open", []string{target}, nil
	case "darwin":
		return "open", []string{target}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

func start(name string, args ...string) error {
	return exec.Command(name, args...).Start() // #nosec G204 -- URL validated by Open
}
