package translation

import (
	"strings"

	"github.com/guymillicare/parsingHugeData/internal/domain"
)

// BuildPrompt asks for every word in every language in a single JSON object
// keyed by language name, with arrays aligned to the word order.
func BuildPrompt(langs []domain.Language, words []string) string {
	names := make([]string, len(langs))
	for i, l := range langs {
		names[i] = l.Name
	}

	var b strings.Builder
	b.WriteString("Translate the following words related to sports betting into the following languages: ")
	b.WriteString(strings.Join(names, ", "))
	b.WriteString(". Provide the translations in a JSON object where the keys are the language names and the values are arrays of translations")
	b.WriteString(" in the same order as the words, one translation per word. Respond with the JSON object only.")
	b.WriteString(" Words: ")
	b.WriteString(strings.Join(words, ", "))
	return b.String()
}
