package translation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/guymillicare/parsingHugeData/internal/domain"
)

// ErrMalformedResponse is returned when a reply cannot be turned into a
// complete translation table.
var ErrMalformedResponse = errors.New("malformed translation response")

// arabicComma is replaced before decoding; models sometimes use it as a
// JSON separator.
const arabicComma = "،"

// Table maps a language code to translations aligned with the batch words.
type Table map[string][]string

// ParseResponse extracts the JSON object from a reply and validates that
// every language has exactly wordCount translations.
func ParseResponse(reply string, langs []domain.Language, wordCount int) (Table, error) {
	raw, err := extractJSON(reply)
	if err != nil {
		return nil, err
	}
	raw = strings.ReplaceAll(raw, arabicComma, ",")

	var byName map[string][]string
	if err := json.Unmarshal([]byte(raw), &byName); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrMalformedResponse, err)
	}

	table := make(Table, len(langs))
	for _, l := range langs {
		values, err := lookupLanguage(byName, l.Name)
		if err != nil {
			return nil, err
		}
		if len(values) != wordCount {
			return nil, fmt.Errorf("%w: %s has %d translations, want %d", ErrMalformedResponse, l.Name, len(values), wordCount)
		}
		for i, v := range values {
			values[i] = strings.TrimSpace(v)
			if values[i] == "" {
				return nil, fmt.Errorf("%w: %s translation %d is empty", ErrMalformedResponse, l.Name, i)
			}
		}
		table[l.Code] = values
	}

	return table, nil
}

// lookupLanguage matches a language key case-insensitively. Two keys naming
// the same language are ambiguous and make the reply malformed.
func lookupLanguage(byName map[string][]string, name string) ([]string, error) {
	var (
		values  []string
		matches int
	)
	for k, v := range byName {
		if strings.EqualFold(strings.TrimSpace(k), name) {
			values = v
			matches++
		}
	}
	switch matches {
	case 0:
		return nil, fmt.Errorf("%w: missing language %q", ErrMalformedResponse, name)
	case 1:
		return values, nil
	default:
		return nil, fmt.Errorf("%w: language %q given %d times", ErrMalformedResponse, name, matches)
	}
}

// extractJSON returns the text between the first "{" and the last "}".
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("%w: no JSON object found", ErrMalformedResponse)
	}
	return s[start : end+1], nil
}
