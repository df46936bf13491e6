package msgformat

import (
	"strings"

	"golang.org/x/text/language"
)

// normalizeLocale normalizes a locale identifier by replacing underscores
// with hyphens and trimming whitespace.
func normalizeLocale(locale string) string {
	return strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
}

// localeTag resolves a locale identifier to a language.Tag. Unparseable or
// empty identifiers map to language.Und so formatting still proceeds with
// root-locale rules.
func localeTag(locale string) language.Tag {
	normalized := normalizeLocale(locale)
	if normalized == "" {
		return language.Und
	}

	tag, err := language.Parse(normalized)
	if err != nil {
		return language.Make(normalized)
	}
	return tag
}
