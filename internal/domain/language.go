package domain

import (
	"fmt"
	"strings"
)

// Language is a translation target. Name is the key the translation service
// uses in its reply; Code is what gets stored in translations.language.
type Language struct {
	Name string
	Code string
}

var (
	English    = Language{Name: "English", Code: "en"}
	Turkish    = Language{Name: "Turkish", Code: "tr"}
	Arabic     = Language{Name: "Arabic", Code: "ar"}
	Spanish    = Language{Name: "Spanish", Code: "es"}
	Portuguese = Language{Name: "Portuguese", Code: "pt"}
	Russian    = Language{Name: "Russian", Code: "ru"}
	French     = Language{Name: "French", Code: "fr"}
	German     = Language{Name: "German", Code: "de"}
	Chinese    = Language{Name: "Chinese", Code: "zh"}
	Japanese   = Language{Name: "Japanese", Code: "ja"}
	Italian    = Language{Name: "Italian", Code: "it"}
	Korean     = Language{Name: "Korean", Code: "ko"}
)

var allLanguages = []Language{
	English, Turkish, Arabic, Spanish, Portuguese, Russian,
	French, German, Chinese, Japanese, Italian, Korean,
}

// AllLanguages returns the supported languages in canonical order.
func AllLanguages() []Language {
	return append([]Language(nil), allLanguages...)
}

// LanguageByCode looks up a supported language by its ISO code.
func LanguageByCode(code string) (Language, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, l := range allLanguages {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// ParseLanguages parses a comma-separated list of language codes ("en,tr").
// An empty string selects every supported language. Duplicates are dropped
// and the configured order is kept.
func ParseLanguages(raw string) ([]Language, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return AllLanguages(), nil
	}

	seen := make(map[string]bool)
	var langs []Language
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		l, ok := LanguageByCode(part)
		if !ok {
			return nil, NewValidationError("languages", fmt.Sprintf("unknown language code %q", part))
		}
		if seen[l.Code] {
			continue
		}
		seen[l.Code] = true
		langs = append(langs, l)
	}

	if len(langs) == 0 {
		return nil, NewValidationError("languages", "at least one language required")
	}
	return langs, nil
}
