// Package validator holds small text helpers shared by the domain packages.
package validator

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents turns "Niños" into "Ninos" by dropping combining marks after
// canonical decomposition.
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// GenerateSlug lowercases text, folds accents and joins the remaining ASCII
// letters and digits with single hyphens, e.g. "Limpieza de Playa Año 2026!"
// becomes "limpieza-de-playa-ano-2026". The result is cut to maxLength.
func GenerateSlug(text string, maxLength int) string {
	folded, _, err := transform.String(foldAccents, strings.ToLower(text))
	if err != nil {
		folded = strings.ToLower(text)
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return truncateSlug(b.String(), maxLength)
}

// MakeSlugUnique appends "-suffix" to base, shortening base so the result
// stays within maxLength. A non-positive suffix leaves base as is.
func MakeSlugUnique(base string, suffix int, maxLength int) string {
	if suffix <= 0 {
		return truncateSlug(base, maxLength)
	}
	tail := "-" + strconv.Itoa(suffix)
	return truncateSlug(base, maxLength-len(tail)) + tail
}

func truncateSlug(slug string, maxLength int) string {
	if maxLength <= 0 || len(slug) <= maxLength {
		return slug
	}
	return strings.TrimRight(slug[:maxLength], "-")
}
