package hints

// Notes:
// - ForBrowserConnect tests cannot use t.Parallel(): they call t.Setenv and
//   swap the package-level IsInContainer variable.

import (
	"strings"
	"testing"
)

func TestForBrowserConnect_RodInCI(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return false }

	t.Setenv("CI", "true")
	t.Setenv("ROD_NO_SANDBOX", "")
	t.Setenv("ROD_BROWSER_BIN", "")

	hint := ForBrowserConnect("rod")

	if !strings.HasPrefix(hint, "\n  hint: ") {
		t.Errorf("hint = %q, want hint prefix", hint)
	}
	if !strings.Contains(hint, "ROD_NO_SANDBOX") {
		t.Error("expected ROD_NO_SANDBOX suggestion in CI")
	}
	if !strings.Contains(hint, "ROD_BROWSER_BIN") {
		t.Error("expected ROD_BROWSER_BIN suggestion")
	}
}

func TestForBrowserConnect_RodConfigured(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return true }

	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	t.Setenv("GITLAB_CI", "")
	t.Setenv("ROD_NO_SANDBOX", "1")
	t.Setenv("ROD_BROWSER_BIN", "/usr/bin/chromium")

	if hint := ForBrowserConnect("rod"); hint != "" {
		t.Errorf("ForBrowserConnect() = %q, want empty", hint)
	}
}

func TestForBrowserConnect_Chromedp(t *testing.T) {
	t.Setenv("CHROME_PATH", "")

	hint := ForBrowserConnect("chromedp")
	if !strings.Contains(hint, "CHROME_PATH") {
		t.Errorf("hint = %q, want CHROME_PATH suggestion", hint)
	}
	if strings.Contains(hint, "ROD_") {
		t.Errorf("hint = %q, should not mention rod variables", hint)
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	hint := ForConfigNotFound([]string{"work.yaml", "/home/u/.config/inkpress/work.yaml"})
	if !strings.Contains(hint, "--config") {
		t.Errorf("hint = %q, want --config suggestion", hint)
	}
	if !strings.Contains(hint, "/home/u/.config/inkpress/work.yaml") {
		t.Errorf("hint = %q, want user config path", hint)
	}
}

func TestStaticHints(t *testing.T) {
	t.Parallel()

	for name, got := range map[string]string{
		"ForTimeout":      ForTimeout(),
		"ForMissingInput": ForMissingInput(),
	} {
		if !strings.HasPrefix(got, "\n  hint: ") {
			t.Errorf("%s() = %q, want hint prefix", name, got)
		}
	}
}
