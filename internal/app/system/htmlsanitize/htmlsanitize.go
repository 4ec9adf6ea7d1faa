// internal/app/system/htmlsanitize/htmlsanitize.go
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every tag. Policies are safe for concurrent use once built.
var strict = bluemonday.StrictPolicy()

// PlainText strips all markup from user-entered free text (names, notes,
// addresses) and returns the trimmed result. Entities escaped by the policy
// are decoded again so "Tom & Sons" round-trips unchanged; the API only
// ever emits JSON, never HTML.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
