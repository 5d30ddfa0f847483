// Package statictable is the last link of every fallback chain: a small
// seeded dataset that needs no network and never fails transiently.
package statictable

import (
	"context"
	"fmt"
	"time"

	"github.com/matchlens/matchlens/internal/domain/competition"
	"github.com/matchlens/matchlens/internal/domain/query"
	"github.com/matchlens/matchlens/internal/domain/sourcing"
	"github.com/matchlens/matchlens/internal/usecase"
)

// Provider serves seeded answers. Always configured, always low confidence.
type Provider struct {
	teams        map[string]sourcing.TeamProfile
	players      map[string]sourcing.PlayerProfile
	translations map[string]string
	funFacts     []string
}

func NewProvider() *Provider {
	return &Provider{
		teams:        seedTeams,
		players:      seedPlayers,
		translations: seedTranslations,
		funFacts:     seedFunFacts,
	}
}

func (p *Provider) ID() sourcing.ProviderID { return sourcing.ProviderStatic }

func (p *Provider) Configured() bool { return true }

func (p *Provider) Fetch(_ context.Context, intent query.Intent) (sourcing.Result, error) {
	switch intent.Kind {
	case query.KindTeam:
		if profile, ok := p.teams[intent.NormalizedText]; ok {
			return p.result(profile), nil
		}
	case query.KindPlayer:
		if profile, ok := p.players[intent.NormalizedText]; ok {
			return p.result(profile), nil
		}
	case query.KindTranslation:
		if text, ok := p.translations[translationKey(intent.NormalizedText, intent.LanguageTag)]; ok {
			return p.result(sourcing.Translation{
				Key:         intent.NormalizedText,
				LanguageTag: intent.LanguageTag,
				Text:        text,
			}), nil
		}
	case query.KindMatches:
		// No seeded fixtures; an empty list is still a displayable answer.
		return p.result(sourcing.MatchList{Matches: []sourcing.Match{}}), nil
	}
	return sourcing.Result{}, fmt.Errorf("%w: no seeded entry for %q", usecase.ErrEmptyResult, intent.NormalizedText)
}

// FunFactOfDay rotates through the seeded facts by day of year.
func (p *Provider) FunFactOfDay(_ context.Context, date time.Time, _ string) (sourcing.FunFact, error) {
	if len(p.funFacts) == 0 {
		return sourcing.FunFact{}, fmt.Errorf("%w: no seeded fun facts", usecase.ErrEmptyResult)
	}
	day := date.UTC()
	return sourcing.FunFact{
		Date: day.Format("2006-01-02"),
		Text: p.funFacts[day.YearDay()%len(p.funFacts)],
	}, nil
}

func (p *Provider) result(data any) sourcing.Result {
	return sourcing.Result{
		Data:       data,
		Source:     sourcing.ProviderStatic,
		Confidence: sourcing.ConfidenceLow,
	}
}

func translationKey(key, languageTag string) string {
	return languageTag + ":" + key
}

// Seed keys are pre-normalized the same way query text is.
var seedTeams = map[string]sourcing.TeamProfile{
	"brazil": {
		Name:    "Brazil",
		Country: "Brazil",
		Summary: "Record five-time World Cup winners and the only side to play in every tournament.",
	},
	"argentina": {
		Name:    "Argentina",
		Country: "Argentina",
		Summary: "Three-time World Cup winners, most recently in 2022.",
	},
	"real madrid": {
		Name:        "Real Madrid CF",
		ShortName:   "Real Madrid",
		Country:     "Spain",
		Competition: competition.PD,
		Founded:     1902,
		Venue:       "Santiago Bernabeu",
		Summary:     "Record winners of the European Cup and Champions League.",
	},
	"manchester united": {
		Name:        "Manchester United FC",
		ShortName:   "Man United",
		Country:     "England",
		Competition: competition.PL,
		Founded:     1878,
		Venue:       "Old Trafford",
		Summary:     "Twenty-time English champions based at Old Trafford.",
	},
	"persija": {
		Name:      "Persija Jakarta",
		ShortName: "Persija",
		Country:   "Indonesia",
		Founded:   1928,
		Summary:   "One of Indonesia's oldest and most supported clubs.",
	},
}

var seedPlayers = map[string]sourcing.PlayerProfile{
	"messi": {
		Name:        "Lionel Messi",
		Nationality: "Argentina",
		Position:    "Forward",
		Summary:     "Eight-time Ballon d'Or winner and 2022 World Cup champion.",
	},
	"mbappe": {
		Name:        "Kylian Mbappé",
		Nationality: "France",
		Position:    "Forward",
		Summary:     "World Cup winner at 19 and serial top scorer in France and Spain.",
	},
	"ronaldo": {
		Name:        "Cristiano Ronaldo",
		Nationality: "Portugal",
		Position:    "Forward",
		Summary:     "Five-time Ballon d'Or winner and record international goalscorer.",
	},
	"haaland": {
		Name:        "Erling Haaland",
		Nationality: "Norway",
		Position:    "Forward",
		Summary:     "Broke the Premier League single-season scoring record as a debutant.",
	},
}

var seedTranslations = map[string]string{
	"en:matches":   "Matches",
	"es:matches":   "Partidos",
	"id:matches":   "Pertandingan",
	"en:standings": "Standings",
	"es:standings": "Clasificación",
	"id:standings": "Klasemen",
}

var seedFunFacts = []string{
	"The first World Cup final in 1930 was watched by over 68,000 people in Montevideo.",
	"Brazil is the only nation to have played in every World Cup tournament.",
	"The fastest goal in World Cup history was scored after 10.8 seconds by Hakan Şükür in 2002.",
	"Real Madrid won the first five European Cups ever contested.",
	"A football match has two halves of 45 minutes because two London clubs compromised on the length in 1866.",
}
