package domain

import (
	"fmt"
	"strings"
)

// Kind identifies one translatable entity table. Every kind carries its own
// table, dictionary group tag and text column, so callers dispatch on the
// kind instead of branching on table names.
type Kind string

const (
	KindThemes      Kind = "themes"
	KindSports      Kind = "sports"
	KindCountries   Kind = "countries"
	KindTournaments Kind = "tournaments"
	KindCompetitors Kind = "competitors"
	KindMarkets     Kind = "markets"
	KindOutcomes    Kind = "outcomes"
)

type kindInfo struct {
	table        string
	group        string
	textColumn   string
	hasReference bool
	display      func(string) string
}

var kindInfos = map[Kind]kindInfo{
	KindThemes:      {table: "theme_dictionaries", group: "admin", textColumn: `"key"`, display: ThemeText},
	KindSports:      {table: "sports", group: "sports", textColumn: "name", hasReference: true},
	KindCountries:   {table: "countries", group: "country", textColumn: "name", hasReference: true},
	KindTournaments: {table: "tournaments", group: "tournament", textColumn: "name", hasReference: true},
	KindCompetitors: {table: "competitors", group: "competitor", textColumn: "name", hasReference: true},
	KindMarkets:     {table: "market_constants", group: "market", textColumn: "description", hasReference: true},
	KindOutcomes:    {table: "outcome_constants", group: "outcome", textColumn: "name", hasReference: true},
}

// allKinds is the canonical translation order.
var allKinds = []Kind{
	KindThemes, KindSports, KindCountries, KindTournaments,
	KindCompetitors, KindMarkets, KindOutcomes,
}

// AllKinds returns every kind in canonical translation order.
func AllKinds() []Kind {
	return append([]Kind(nil), allKinds...)
}

func (k Kind) String() string { return string(k) }

func (k Kind) IsValid() bool {
	_, ok := kindInfos[k]
	return ok
}

// Table is the entity table holding rows of this kind.
func (k Kind) Table() string { return kindInfos[k].table }

// DictionaryGroup is the tag written to dictionaries."group".
func (k Kind) DictionaryGroup() string { return kindInfos[k].group }

// TextColumn is the (quoted if needed) column whose value gets translated.
func (k Kind) TextColumn() string { return kindInfos[k].textColumn }

// HasReference reports whether rows of this kind carry an upstream reference_id.
func (k Kind) HasReference() bool { return kindInfos[k].hasReference }

// DisplayText converts the stored text column into the word sent for translation.
func (k Kind) DisplayText(raw string) string {
	if fn := kindInfos[k].display; fn != nil {
		return fn(raw)
	}
	return raw
}

// ParseKind resolves a kind by name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", NewValidationError("kind", fmt.Sprintf("unknown kind %q", s))
	}
	return k, nil
}

// ParseKinds parses a comma-separated kind list and returns the selected kinds
// in canonical order. An empty string selects every kind.
func ParseKinds(raw string) ([]Kind, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return AllKinds(), nil
	}

	selected := make(map[Kind]bool)
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		k, err := ParseKind(part)
		if err != nil {
			return nil, err
		}
		selected[k] = true
	}

	kinds := make([]Kind, 0, len(selected))
	for _, k := range allKinds {
		if selected[k] {
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}
