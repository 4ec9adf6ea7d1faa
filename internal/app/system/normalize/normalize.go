// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Email trims and lowercases an email address. Stored emails are always in
// this form so lookups and the unique index agree.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// LicenseID trims and uppercases a fishing license identifier.
func LicenseID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Role trims and lowercases a role name.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
