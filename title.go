package inkpress

import (
	"regexp"
	"strings"
)

var firstHeading = regexp.MustCompile(`(?m)^[ \t]*#[ \t]+(.+?)[ \t]*$`)

// ResolveTitle returns override when set, otherwise the text of the first
// level-1 ATX heading in markdown, otherwise DefaultTitle.
func ResolveTitle(markdown, override string) string {
	if t := strings.TrimSpace(override); t != "" {
		return t
	}
	if m := firstHeading.FindStringSubmatch(markdown); m != nil {
		if t := strings.TrimSpace(m[1]); t != "" {
			return t
		}
	}
	return DefaultTitle
}
