// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-inkpress/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for a browser that failed to start.
// The suggested environment variables depend on the rendering engine.
func ForBrowserConnect(engine string) string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != ""

	switch engine {
	case "chromedp":
		if os.Getenv("CHROME_PATH") == "" {
			hints = append(hints, "set CHROME_PATH to a Chrome or Chromium binary")
		}
	default:
		if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
			hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
		}
		if os.Getenv("ROD_BROWSER_BIN") == "" {
			hints = append(hints, "set ROD_BROWSER_BIN to use a custom Chrome")
		}
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about raising the render timeout.
func ForTimeout() string {
	return format("for large documents or slow image hosts, raise --timeout")
}

// ForConfigNotFound suggests --config and the per-user config location.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(slashed(p), ".config/inkpress") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForMissingInput points at the flag that names the document.
func ForMissingInput() string {
	return format("pass the markdown file with -i/--input or as the first argument")
}

func slashed(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
