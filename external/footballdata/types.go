package footballdata

import (
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/matchlens/matchlens/internal/domain/competition"
	"github.com/matchlens/matchlens/internal/domain/sourcing"
)

var errNoMatch = crerr.New("football-data: no matching record")

// IsNoMatch reports whether err means the provider answered but had no
// record for the query.
func IsNoMatch(err error) bool {
	return crerr.Is(err, errNoMatch)
}

type matchesEnvelope struct {
	Matches []matchItem `json:"matches"`
}

type matchItem struct {
	ID          int64           `json:"id"`
	UTCDate     string          `json:"utcDate"`
	Status      string          `json:"status"`
	Competition competitionItem `json:"competition"`
	HomeTeam    teamRef         `json:"homeTeam"`
	AwayTeam    teamRef         `json:"awayTeam"`
	Score       scoreItem       `json:"score"`
}

type competitionItem struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type teamRef struct {
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

type scoreItem struct {
	FullTime scorePair `json:"fullTime"`
}

type scorePair struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type teamsEnvelope struct {
	Teams []teamItem `json:"teams"`
}

type teamItem struct {
	Name                string            `json:"name"`
	ShortName           string            `json:"shortName"`
	Area                areaItem          `json:"area"`
	Founded             int               `json:"founded"`
	Venue               string            `json:"venue"`
	Crest               string            `json:"crest"`
	RunningCompetitions []competitionItem `json:"runningCompetitions"`
}

type areaItem struct {
	Name string `json:"name"`
}

type personsEnvelope struct {
	Persons []personItem `json:"persons"`
}

type personItem struct {
	Name        string  `json:"name"`
	Nationality string  `json:"nationality"`
	Position    string  `json:"position"`
	DateOfBirth string  `json:"dateOfBirth"`
	CurrentTeam teamRef `json:"currentTeam"`
}

func mapMatch(item matchItem) (sourcing.Match, bool) {
	if item.ID <= 0 {
		return sourcing.Match{}, false
	}
	kickoff, err := time.Parse(time.RFC3339, strings.TrimSpace(item.UTCDate))
	if err != nil {
		return sourcing.Match{}, false
	}

	comp := competition.Canonicalize(item.Competition.Code)
	if comp == competition.Other && item.Competition.Name != "" {
		comp = competition.Canonicalize(item.Competition.Name)
	}

	return sourcing.Match{
		ID:          item.ID,
		Competition: comp,
		HomeTeam:    firstNonEmpty(item.HomeTeam.ShortName, item.HomeTeam.Name),
		AwayTeam:    firstNonEmpty(item.AwayTeam.ShortName, item.AwayTeam.Name),
		HomeScore:   item.Score.FullTime.Home,
		AwayScore:   item.Score.FullTime.Away,
		Status:      mapMatchStatus(item.Status),
		KickoffAt:   kickoff.UTC(),
	}, true
}

func mapMatchStatus(raw string) sourcing.MatchStatus {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "FINISHED", "AWARDED":
		return sourcing.MatchFinished
	case "IN_PLAY", "PAUSED", "LIVE":
		return sourcing.MatchLive
	default:
		return sourcing.MatchScheduled
	}
}

func pickTeam(items []teamItem, name string) (teamItem, bool) {
	if len(items) == 0 {
		return teamItem{}, false
	}
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, item := range items {
		if strings.ToLower(item.Name) == needle || strings.ToLower(item.ShortName) == needle {
			return item, true
		}
	}
	return items[0], true
}

func mapTeam(item teamItem) sourcing.TeamProfile {
	comp := competition.Other
	for _, running := range item.RunningCompetitions {
		candidate := competition.Canonicalize(running.Code)
		if candidate == competition.Other {
			candidate = competition.Canonicalize(running.Name)
		}
		if candidate != competition.Other && (comp == competition.Other || competition.Rank(candidate) < competition.Rank(comp)) {
			comp = candidate
		}
	}

	return sourcing.TeamProfile{
		Name:        strings.TrimSpace(item.Name),
		ShortName:   strings.TrimSpace(item.ShortName),
		Country:     strings.TrimSpace(item.Area.Name),
		Competition: comp,
		Founded:     item.Founded,
		Venue:       strings.TrimSpace(item.Venue),
		CrestURL:    strings.TrimSpace(item.Crest),
	}
}

func pickPerson(items []personItem, name string) (personItem, bool) {
	if len(items) == 0 {
		return personItem{}, false
	}
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, item := range items {
		if strings.ToLower(item.Name) == needle {
			return item, true
		}
	}
	return items[0], true
}

func mapPerson(item personItem) sourcing.PlayerProfile {
	return sourcing.PlayerProfile{
		Name:        strings.TrimSpace(item.Name),
		Nationality: strings.TrimSpace(item.Nationality),
		Position:    strings.TrimSpace(item.Position),
		BirthDate:   strings.TrimSpace(item.DateOfBirth),
		CurrentTeam: firstNonEmpty(item.CurrentTeam.ShortName, item.CurrentTeam.Name),
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
