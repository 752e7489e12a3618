package domain

import "strings"

// SportSlug derives the slug stored in sports.slug and matched against
// market_constants.sports: the lower-cased name with every whitespace run
// turned into "_". Punctuation and diacritics are kept as the feed sends them.
func SportSlug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

// ThemeText turns a theme key ("place_bet") into display text ("place bet").
func ThemeText(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}
