package pipeline

import (
	"html"
	"io"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	nethtml "golang.org/x/net/html"
)

// SourceKind classifies the src attribute of an image.
type SourceKind int

const (
	SourceRelative     SourceKind = iota // path relative to the base directory
	SourceAbsolute                       // absolute local path
	SourceWindowsDrive                   // C:\ or C:/ path
	SourceRemote                         // http: or https:
	SourceData                           // data: URL
	SourceFileURL                        // file: URL
	SourceFragment                       // #fragment
	SourceBlob                           // blob: URL
)

var (
	passThroughSource = regexp.MustCompile(`(?i)^(https?|data|file|blob):`)
	windowsDrivePath  = regexp.MustCompile(`^[a-zA-Z]:[\\/]`)
)

// ClassifyImageSource reports which kind of reference src is. Scheme
// matching is case-insensitive.
func ClassifyImageSource(src string) SourceKind {
	if strings.HasPrefix(src, "#") {
		return SourceFragment
	}
	if m := passThroughSource.FindStringSubmatch(src); m != nil {
		switch strings.ToLower(m[1]) {
		case "http", "https":
			return SourceRemote
		case "data":
			return SourceData
		case "file":
			return SourceFileURL
		case "blob":
			return SourceBlob
		}
	}
	if windowsDrivePath.MatchString(src) {
		return SourceWindowsDrive
	}
	if filepath.IsAbs(src) || strings.HasPrefix(src, "/") {
		return SourceAbsolute
	}
	return SourceRelative
}

// NormalizeImageSource turns a local image reference into a file:// URL.
// URLs and fragments are returned unchanged; relative paths are resolved
// against basedir.
func NormalizeImageSource(src, basedir string) string {
	if src == "" {
		return src
	}
	switch ClassifyImageSource(src) {
	case SourceRemote, SourceData, SourceFileURL, SourceFragment, SourceBlob:
		return src
	case SourceWindowsDrive:
		return pathToFileURL(strings.ReplaceAll(src, `\`, "/"))
	case SourceAbsolute:
		return pathToFileURL(src)
	}
	return pathToFileURL(filepath.Join(absDir(basedir), src))
}

// NormalizeImageSources rewrites the src of every <img> in htmlContent with
// NormalizeImageSource. All other bytes are copied unchanged.
func NormalizeImageSources(htmlContent, basedir string) string {
	base := absDir(basedir)
	return rewriteImageSources(htmlContent, func(src string) string {
		return NormalizeImageSource(src, base)
	})
}

// rewriteImageSources walks the tokens of content and replaces the src of
// each img tag with rewrite(src). Tags whose src does not change keep their
// original bytes. On a tokenizer error content is returned as is.
func rewriteImageSources(content string, rewrite func(src string) string) string {
	z := nethtml.NewTokenizer(strings.NewReader(content))

	var out strings.Builder
	out.Grow(len(content))
	consumed := 0

	for {
		tt := z.Next()
		if tt == nethtml.ErrorToken {
			if z.Err() != io.EOF {
				return content
			}
			out.WriteString(content[consumed:])
			return out.String()
		}

		// TagName lowercases the token buffer in place; copy it first.
		raw := string(z.Raw())
		consumed += len(raw)

		if tt == nethtml.StartTagToken || tt == nethtml.SelfClosingTagToken {
			if name, _ := z.TagName(); string(name) == "img" {
				raw = rewriteSrcAttribute(raw, rewrite)
			}
		}
		out.WriteString(raw)
	}
}

// rewriteSrcAttribute replaces the value of the src attribute of a raw tag.
func rewriteSrcAttribute(tag string, rewrite func(string) string) string {
	start, end, ok := srcValueSpan(tag)
	if !ok {
		return tag
	}

	value := tag[start:end]
	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
		value = value[1 : len(value)-1]
	}

	src := html.UnescapeString(value)
	next := rewrite(src)
	if next == src {
		return tag
	}
	return tag[:start] + `"` + html.EscapeString(next) + `"` + tag[end:]
}

// srcValueSpan locates the value of the first src attribute of a raw start
// tag, quotes included. Attributes are scanned the way the HTML tokenizer
// reads them, so text inside another attribute's quoted value never
// matches. A src without a value reports false.
func srcValueSpan(tag string) (start, end int, ok bool) {
	i := 1
	for i < len(tag) && !isTagSpace(tag[i]) && tag[i] != '>' && tag[i] != '/' {
		i++
	}

	for {
		for i < len(tag) && (isTagSpace(tag[i]) || tag[i] == '/') {
			i++
		}
		if i >= len(tag) || tag[i] == '>' {
			return 0, 0, false
		}

		nameStart := i
		i++
		for i < len(tag) && !isTagSpace(tag[i]) && tag[i] != '=' && tag[i] != '>' && tag[i] != '/' {
			i++
		}
		isSrc := strings.EqualFold(tag[nameStart:i], "src")

		j := i
		for j < len(tag) && isTagSpace(tag[j]) {
			j++
		}
		if j >= len(tag) || tag[j] != '=' {
			if isSrc {
				return 0, 0, false
			}
			continue
		}
		i = j + 1
		for i < len(tag) && isTagSpace(tag[i]) {
			i++
		}

		valueStart := i
		if i < len(tag) && (tag[i] == '"' || tag[i] == '\'') {
			if k := strings.IndexByte(tag[i+1:], tag[i]); k >= 0 {
				i += k + 2
			} else {
				i = len(tag)
			}
		} else {
			for i < len(tag) && !isTagSpace(tag[i]) && tag[i] != '>' {
				i++
			}
		}
		if isSrc {
			return valueStart, i, true
		}
	}
}

func isTagSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func pathToFileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}

func absDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}
