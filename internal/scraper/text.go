package scraper

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CleanText composes accents into NFC and collapses whitespace so titles
// scraped from different page encodings compare equal.
func CleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// Or returns s, or def when s is blank.
func Or(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
