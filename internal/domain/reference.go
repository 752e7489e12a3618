package domain

import (
	"slices"
	"strings"
)

// DefaultDataFeed is the tag stamped on every row this job owns.
const DefaultDataFeed = "huge_data"

// groupAll marks a market that applies to a sport without a specific group.
const groupAll = "all"

// Sport is a row of the sports table.
type Sport struct {
	ID           int64
	ReferenceID  string
	Name         string
	Type         string
	Slug         string
	Order        int64
	Status       bool
	IsTranslated bool
	Flag         string
	DataFeed     string
}

// Country is a row of the countries table.
type Country struct {
	ID           int64
	ReferenceID  string
	Name         string
	Abbr         string
	Order        int64
	IsTranslated bool
	Flag         string
	DataFeed     string
}

// Tournament is a row of the tournaments table. SportID and CountryID are the
// local ids of the sport/country pair the tournament was fetched for.
type Tournament struct {
	ID           int64
	ReferenceID  string
	SportID      int64
	CountryID    int64
	Name         string
	Abbr         *string
	Order        int64
	IsTranslated bool
	Flag         string
	DataFeed     string
}

// MarketConstant is a row of the market_constants table.
type MarketConstant struct {
	ID           int64
	ReferenceID  string
	Description  string
	Groups       *string
	Sports       string
	Order        int64
	IsTranslated bool
	DataFeed     string
}

// GroupNames returns the "|"-separated group list; a NULL groups column means "all".
func (m MarketConstant) GroupNames() []string {
	if m.Groups == nil {
		return []string{groupAll}
	}
	return strings.Split(*m.Groups, "|")
}

// IsUngrouped reports whether the market applies without a specific group.
func (m MarketConstant) IsUngrouped() bool {
	names := m.GroupNames()
	return len(names) == 1 && names[0] == groupAll
}

// AppliesToSport reports whether the sport slug is listed in the market's
// comma-separated sports column.
func (m MarketConstant) AppliesToSport(slug string) bool {
	return slices.Contains(strings.Split(m.Sports, ","), slug)
}

// IsAllGroup reports whether a group name is the "all" placeholder.
func IsAllGroup(name string) bool {
	return name == groupAll
}

// OutcomeConstant is a row of the outcome_constants table.
type OutcomeConstant struct {
	ID           int64
	ReferenceID  string
	Name         string
	Order        int64
	IsTranslated bool
	DataFeed     string
}

// MarketGroup is a row of the market_groups table.
type MarketGroup struct {
	ID   int64
	Name string
}

// SportMarketGroup links a sport to a market, optionally inside a market group.
// Ungrouped associations have nil GroupID and GroupName.
type SportMarketGroup struct {
	ID         int64
	SportID    int64
	MarketID   int64
	GroupID    *int64
	SportName  string
	GroupName  *string
	MarketName string
}
