package pipeline

import (
	"testing"

	"github.com/yuin/goldmark/ast"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Padded  ", "padded"},
		{"Hello, World!", "hello-world"},
		{"snake_case and-dash", "snake_case-and-dash"},
		{"Multiple   spaces", "multiple-spaces"},
		{"Café Ünïcode", "café-ünïcode"},
		{"Version 2.0", "version-20"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAnchorIDs_Generate(t *testing.T) {
	t.Parallel()

	ids := newAnchorIDs()
	ids.Put([]byte("taken"))

	steps := []struct {
		value string
		want  string
	}{
		{"Intro", "intro"},
		{"Intro", "intro-1"},
		{"Intro", "intro-2"},
		{"Taken", "taken-1"},
		{"???", "section"},
		{"???", "section-1"},
	}

	for _, s := range steps {
		if got := string(ids.Generate([]byte(s.value), ast.KindHeading)); got != s.want {
			t.Errorf("Generate(%q) = %q, want %q", s.value, got, s.want)
		}
	}
}
