// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize cleans user-supplied text before it is stored.
// Note content keeps safe formatting markup; titles and names are reduced
// to plain text.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	contentPolicy = bluemonday.UGCPolicy()
	strictPolicy  = bluemonday.StrictPolicy()
)

// Sanitize cleans rich text, keeping the formatting elements allowed for
// user-generated content and stripping scripts, event handlers, and
// javascript: URLs.
func Sanitize(s string) string {
	return contentPolicy.Sanitize(s)
}

// Strict strips all markup, leaving plain text. Used for titles,
// workspace names, and display names.
func Strict(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}
