package sourcing

import (
	"time"

	"github.com/matchlens/matchlens/internal/domain/competition"
)

// TeamProfile is the normalized single-team answer shape shared by every
// provider adapter.
type TeamProfile struct {
	Name        string         `json:"name"`
	ShortName   string         `json:"shortName,omitempty"`
	Country     string         `json:"country,omitempty"`
	Competition competition.ID `json:"competition,omitempty"`
	Founded     int            `json:"founded,omitempty"`
	Venue       string         `json:"venue,omitempty"`
	CrestURL    string         `json:"crestUrl,omitempty"`
	Summary     string         `json:"summary,omitempty"`
}

// PlayerProfile is the normalized single-player answer shape.
type PlayerProfile struct {
	Name        string `json:"name"`
	Nationality string `json:"nationality,omitempty"`
	Position    string `json:"position,omitempty"`
	BirthDate   string `json:"birthDate,omitempty"`
	CurrentTeam string `json:"currentTeam,omitempty"`
	PhotoURL    string `json:"photoUrl,omitempty"`
	Summary     string `json:"summary,omitempty"`
}

// Translation is a resolved display-string lookup.
type Translation struct {
	Key         string `json:"key"`
	LanguageTag string `json:"languageTag"`
	Text        string `json:"text"`
}

// FunFact is the AI-generated daily trivia item, cached per calendar date.
type FunFact struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

// KeywordAnswer is the free-form answer for generic keyword queries.
type KeywordAnswer struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
}

// MatchStatus mirrors the coarse match states the service exposes.
type MatchStatus string

const (
	MatchScheduled MatchStatus = "SCHEDULED"
	MatchLive      MatchStatus = "LIVE"
	MatchFinished  MatchStatus = "FINISHED"
)

// Match is one fixture row, already canonicalized on competition.
type Match struct {
	ID          int64          `json:"id"`
	Competition competition.ID `json:"competition"`
	HomeTeam    string         `json:"homeTeam"`
	AwayTeam    string         `json:"awayTeam"`
	HomeScore   *int           `json:"homeScore,omitempty"`
	AwayScore   *int           `json:"awayScore,omitempty"`
	Status      MatchStatus    `json:"status"`
	KickoffAt   time.Time      `json:"kickoffAt"`
	VideoURL    string         `json:"videoUrl,omitempty"`
}

// MatchList is the list-query payload. An empty list is a legitimate answer
// for match queries ("no matches this week").
type MatchList struct {
	Matches []Match `json:"matches"`
}

// CompetitionGroup is a priority-ordered bucket of matches for display.
type CompetitionGroup struct {
	Competition competition.ID `json:"competition"`
	DisplayName string         `json:"displayName"`
	Matches     []Match        `json:"matches"`
}

// GroupByCompetition buckets matches by canonical competition in fixed
// priority order, the Other bucket last.
func GroupByCompetition(matches []Match) []CompetitionGroup {
	byID := make(map[competition.ID][]Match)
	ids := make([]competition.ID, 0, 8)
	for _, m := range matches {
		if _, seen := byID[m.Competition]; !seen {
			ids = append(ids, m.Competition)
		}
		byID[m.Competition] = append(byID[m.Competition], m)
	}

	competition.SortIDs(ids)

	out := make([]CompetitionGroup, 0, len(ids))
	for _, id := range ids {
		out = append(out, CompetitionGroup{
			Competition: id,
			DisplayName: competition.Lookup(id).DisplayName,
			Matches:     byID[id],
		})
	}
	return out
}
