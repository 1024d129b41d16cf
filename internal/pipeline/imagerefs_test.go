package pipeline

import (
	"runtime"
	"testing"
)

func TestClassifyImageSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want SourceKind
	}{
		{"https://example.com/a.png", SourceRemote},
		{"HTTP://example.com/a.png", SourceRemote},
		{"data:image/png;base64,AAAA", SourceData},
		{"file:///docs/a.png", SourceFileURL},
		{"FILE:///docs/a.png", SourceFileURL},
		{"#figure", SourceFragment},
		{"blob:https://example.com/id", SourceBlob},
		{`C:\images\a.png`, SourceWindowsDrive},
		{"d:/images/a.png", SourceWindowsDrive},
		{"/abs/a.png", SourceAbsolute},
		{"a.png", SourceRelative},
		{"./img/a.png", SourceRelative},
		{"../a.png", SourceRelative},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()

			if got := ClassifyImageSource(tt.src); got != tt.want {
				t.Errorf("ClassifyImageSource(%q) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestNormalizeImageSources(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("expectations use POSIX base directories")
	}

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "no images is a no-op",
			html: "<p>a &amp; b</p><!-- note --><a href=\"x.md\">x</a>\n",
			want: "<p>a &amp; b</p><!-- note --><a href=\"x.md\">x</a>\n",
		},
		{
			name: "relative path",
			html: `<p><img src="pic.png" alt="x"></p>`,
			want: `<p><img src="file:///docs/pic.png" alt="x"></p>`,
		},
		{
			name: "dot relative path",
			html: `<img src="./img/pic.png">`,
			want: `<img src="file:///docs/img/pic.png">`,
		},
		{
			name: "single quotes and spaces",
			html: `<img src='a b.png'>`,
			want: `<img src="file:///docs/a%20b.png">`,
		},
		{
			name: "unquoted",
			html: `<img src=pic.png alt=x>`,
			want: `<img src="file:///docs/pic.png" alt=x>`,
		},
		{
			name: "entity in src",
			html: `<img src="a&amp;b.png">`,
			want: `<img src="file:///docs/a&amp;b.png">`,
		},
		{
			name: "absolute path",
			html: `<img src="/abs/pic.png">`,
			want: `<img src="file:///abs/pic.png">`,
		},
		{
			name: "windows drive path",
			html: `<img src="C:\img\pic.png">`,
			want: `<img src="file:///C:/img/pic.png">`,
		},
		{
			name: "uppercase tag keeps its bytes",
			html: `<IMG SRC="pic.png">`,
			want: `<IMG SRC="file:///docs/pic.png">`,
		},
		{
			name: "src text inside another attribute value",
			html: `<img alt="see src=other.png" src="pic.png">`,
			want: `<img alt="see src=other.png" src="file:///docs/pic.png">`,
		},
		{
			name: "src text inside a single-quoted title",
			html: `<img title=' src="x.png"' src='pic.png'>`,
			want: `<img title=' src="x.png"' src="file:///docs/pic.png">`,
		},
		{
			name: "valueless src before the real one",
			html: `<img src alt="x">`,
			want: `<img src alt="x">`,
		},
		{
			name: "only src is rewritten",
			html: `<img data-src="lazy.png" src="pic.png" srcset="big.png 2x">`,
			want: `<img data-src="lazy.png" src="file:///docs/pic.png" srcset="big.png 2x">`,
		},
		{
			name: "urls pass through",
			html: `<img src="https://e.com/a.png"><img src="data:image/gif;base64,R0"><img src="#f"><img src="blob:x"><img src="file:///a.png">`,
			want: `<img src="https://e.com/a.png"><img src="data:image/gif;base64,R0"><img src="#f"><img src="blob:x"><img src="file:///a.png">`,
		},
		{
			name: "script text untouched",
			html: `<script>var s = '<img src="a.png">';</script>`,
			want: `<script>var s = '<img src="a.png">';</script>`,
		},
		{
			name: "links untouched",
			html: `<a href="doc.pdf"><img src="pic.png"></a>`,
			want: `<a href="doc.pdf"><img src="file:///docs/pic.png"></a>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NormalizeImageSources(tt.html, "/docs"); got != tt.want {
				t.Errorf("NormalizeImageSources()\n got: %s\nwant: %s", got, tt.want)
			}
		})
	}
}

func TestNormalizeImageSource(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("expectations use POSIX base directories")
	}

	if got := NormalizeImageSource("pic.png", "/docs"); got != "file:///docs/pic.png" {
		t.Errorf("NormalizeImageSource() = %q, want file:///docs/pic.png", got)
	}
	if got := NormalizeImageSource("", "/docs"); got != "" {
		t.Errorf("NormalizeImageSource(\"\") = %q, want empty", got)
	}
}
