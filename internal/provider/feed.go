// Package provider holds the data shapes returned by upstream providers,
// independent of their wire format.
package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// RefID is an upstream identifier. The feed sends ids as JSON numbers or
// strings; both decode into the same textual form.
type RefID string

// UnmarshalJSON accepts a JSON number, string or null.
func (id *RefID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("ref id: %w", err)
		}
		*id = RefID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("ref id: %w", err)
		}
		if i, err := n.Int64(); err == nil {
			*id = RefID(strconv.FormatInt(i, 10))
			return nil
		}
		*id = RefID(n.String())
	}
	return nil
}

func (id RefID) String() string { return string(id) }

// IsZero reports whether the feed sent no usable id (missing, null, "" or 0).
func (id RefID) IsZero() bool {
	return id == "" || id == "0"
}

// Sport is a sport as listed by the feed.
type Sport struct {
	ID   RefID  `json:"id"`
	Name string `json:"name"`
}

// Country is a country as listed by the feed.
type Country struct {
	ID   RefID  `json:"id"`
	Name string `json:"name"`
	ISO2 string `json:"iso2"`
}

// SportCountry is the sport/country pairing a tournament belongs to upstream.
type SportCountry struct {
	SportID   RefID `json:"sport_id"`
	CountryID RefID `json:"country_id"`
}

// Tournament is a tournament as listed by the feed.
type Tournament struct {
	ID           RefID         `json:"id"`
	Name         string        `json:"name"`
	SportCountry *SportCountry `json:"sport_country"`
}

// MarketDefinition groups market templates upstream.
type MarketDefinition struct {
	MarketTemplates []MarketTemplate `json:"market_templates"`
}

// MarketTemplate is a market with its possible outcomes.
type MarketTemplate struct {
	ID       RefID     `json:"id"`
	Name     string    `json:"name"`
	Outcomes []Outcome `json:"outcomes"`
}

// Outcome is one outcome of a market template.
type Outcome struct {
	ID   RefID  `json:"id"`
	Name string `json:"name"`
}
