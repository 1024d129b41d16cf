package pipeline

import (
	"regexp"
	"strings"
)

var crlfOrCR = regexp.MustCompile(`\r\n?`)

const byteOrderMark = "\uFEFF"

// Preprocess prepares Markdown source for parsing: a leading byte order
// mark is dropped and CRLF/CR line endings become LF.
func Preprocess(content string) string {
	content = strings.TrimPrefix(content, byteOrderMark)
	return crlfOrCR.ReplaceAllString(content, "\n")
}
