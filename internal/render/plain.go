package render

import (
	"regexp"
	"strings"
)

var (
	plainMarkers  = strings.NewReplacer("**", "", "*", "", "-", "", "\n", " ")
	headingMarker = regexp.MustCompile(`##+`)
)

// Plain strips markdown markers and flattens newlines to spaces.
// It is the rendition shown while the reply is being revealed.
func Plain(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return plainMarkers.Replace(headingMarker.ReplaceAllString(text, ""))
}
