// Package scope resolves the country scope a feed request is viewed under.
// The scope is resolved once per request and passed explicitly into the
// feed pipeline; nothing here is ambient state.
package scope

import (
	"strings"
)

// Default is the fallback scope when nothing else resolves
const Default = "GB"

// Wildcard is the scope value that shows every country
const Wildcard = "EU"

// Normalize uppercases and trims a country code. Anything that does not
// look like a two-letter code (or the wildcard) normalizes to empty.
func Normalize(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == Wildcard {
		return code
	}
	if len(code) != 2 {
		return ""
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return ""
		}
	}
	return code
}

// Resolve picks the active scope, in priority order: the explicit query
// value, the account's saved preference, the region of the request's
// Accept-Language header, then Default.
func Resolve(query, saved, acceptLanguage string) string {
	if s := Normalize(query); s != "" {
		return s
	}
	if s := Normalize(saved); s != "" {
		return s
	}
	if s := Normalize(RegionFromAcceptLanguage(acceptLanguage)); s != "" {
		return s
	}
	return Default
}

// RegionFromAcceptLanguage extracts the region subtag of the first language
// range in an Accept-Language header ("en-GB,en;q=0.9" -> "GB").
// Returns empty when the first range carries no region.
func RegionFromAcceptLanguage(header string) string {
	first := header
	if i := strings.IndexByte(first, ','); i >= 0 {
		first = first[:i]
	}
	if i := strings.IndexByte(first, ';'); i >= 0 {
		first = first[:i]
	}
	first = strings.TrimSpace(first)

	parts := strings.FieldsFunc(first, func(r rune) bool {
		return r == '-' || r == '_'
	})
	if len(parts) < 2 {
		return ""
	}
	for _, p := range parts[1:] {
		if len(p) == 2 {
			return strings.ToUpper(p)
		}
	}
	return ""
}
