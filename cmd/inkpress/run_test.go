package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestIsCommand - Command name matching
// ---------------------------------------------------------------------------

func TestIsCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arg  string
		want bool
	}{
		{"convert", true},
		{"serve", true},
		{"version", true},
		{"help", true},
		{"doc.md", false},
		{"-i", false},
		{"Convert", false},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			t.Parallel()

			if got := isCommand(tt.arg); got != tt.want {
				t.Errorf("isCommand(%q) = %v, want %v", tt.arg, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain - Dispatch and exit codes
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "doc.md")
	writeFile(t, input, "# Doc\n")

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"version", []string{"version"}, ExitSuccess, "inkpress dev", ""},
		{"help", []string{"help"}, ExitSuccess, "Commands:", ""},
		{"help convert", []string{"help", "convert"}, ExitSuccess, "--paper", ""},
		{"help unknown", []string{"help", "publish"}, ExitUsage, "", "unknown command"},
		{"convert help flag", []string{"convert", "--help"}, ExitSuccess, "", "Usage: inkpress [convert]"},
		{"serve help flag", []string{"serve", "-h"}, ExitSuccess, "", "Usage: inkpress serve"},
		{"no input", nil, ExitUsage, "", "no input file specified"},
		{"unknown flag", []string{"--landscape"}, ExitUsage, "", "usage error"},
		{"input not found", []string{filepath.Join(dir, "missing.md")}, ExitIO, "", "input file not found"},
		{"bad theme", []string{"-t", "neon", input}, ExitUsage, "", "neon"},
		{"serve positional", []string{"serve", "extra"}, ExitUsage, "", "unexpected argument"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv()
			code := runMain(append([]string{"inkpress"}, tt.args...), env.Environment)

			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, env.stderr.String())
			}
			if tt.wantStdout != "" && !strings.Contains(env.stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want substring %q", env.stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(env.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want substring %q", env.stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestRunMain_ConvertByDefault(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "doc.md")
	writeFile(t, input, "# Doc\n")

	for _, args := range [][]string{
		{"inkpress", input},
		{"inkpress", "convert", "-i", input},
	} {
		env := newTestEnv()
		if code := runMain(args, env.Environment); code != ExitSuccess {
			t.Fatalf("%v: exit code %d (stderr: %s)", args, code, env.stderr.String())
		}
		if _, err := os.Stat(filepath.Join(dir, "doc.pdf")); err != nil {
			t.Errorf("%v: output missing: %v", args, err)
		}
	}
}
