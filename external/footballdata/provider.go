package footballdata

import (
	"context"
	"fmt"
	"time"

	"github.com/matchlens/matchlens/internal/domain/competition"
	"github.com/matchlens/matchlens/internal/domain/query"
	"github.com/matchlens/matchlens/internal/domain/sourcing"
	"github.com/matchlens/matchlens/internal/usecase"
)

const matchLookbackDays = 7

// Provider adapts the client to the fallback-chain contract. It serves team
// and player lookups plus match lists; other kinds report empty so the
// chain moves on.
type Provider struct {
	client *Client
	now    func() time.Time
}

func NewProvider(client *Client) *Provider {
	return &Provider{client: client, now: time.Now}
}

func (p *Provider) ID() sourcing.ProviderID { return sourcing.ProviderFootballData }

func (p *Provider) Configured() bool { return p.client.Configured() }

// MatchesByCompetition exposes the per-competition feed directly for callers
// that fan out themselves instead of going through Fetch.
func (p *Provider) MatchesByCompetition(ctx context.Context, comp competition.ID, from, to time.Time) ([]sourcing.Match, error) {
	return p.client.MatchesByCompetition(ctx, comp, from, to)
}

func (p *Provider) Fetch(ctx context.Context, intent query.Intent) (sourcing.Result, error) {
	switch intent.Kind {
	case query.KindTeam:
		profile, err := p.client.SearchTeam(ctx, intent.NormalizedText)
		if err != nil {
			return sourcing.Result{}, classify(err)
		}
		return p.result(profile, sourcing.ConfidenceHigh), nil
	case query.KindPlayer:
		profile, err := p.client.SearchPerson(ctx, intent.NormalizedText)
		if err != nil {
			return sourcing.Result{}, classify(err)
		}
		return p.result(profile, sourcing.ConfidenceHigh), nil
	case query.KindMatches:
		now := p.now().UTC()
		matches, err := p.matchesAcross(ctx, now.AddDate(0, 0, -matchLookbackDays), now.AddDate(0, 0, matchLookbackDays))
		if err != nil {
			return sourcing.Result{}, classify(err)
		}
		// An empty fixture list is a real answer for match queries.
		return p.result(sourcing.MatchList{Matches: matches}, sourcing.ConfidenceHigh), nil
	default:
		return sourcing.Result{}, fmt.Errorf("%w: unsupported query kind %s", usecase.ErrEmptyResult, intent.Kind)
	}
}

func (p *Provider) matchesAcross(ctx context.Context, from, to time.Time) ([]sourcing.Match, error) {
	var merged []sourcing.Match
	var lastErr error
	for _, comp := range competition.Default() {
		matches, err := p.client.MatchesByCompetition(ctx, comp, from, to)
		if err != nil {
			lastErr = err
			continue
		}
		merged = append(merged, matches...)
	}
	if merged == nil && lastErr != nil {
		return nil, lastErr
	}
	return merged, nil
}

func (p *Provider) result(data any, confidence sourcing.Confidence) sourcing.Result {
	return sourcing.Result{
		Data:       data,
		Source:     sourcing.ProviderFootballData,
		Confidence: confidence,
	}
}

// classify maps transport errors onto the router's failure taxonomy.
func classify(err error) error {
	switch {
	case IsNoMatch(err):
		return fmt.Errorf("%w: %v", usecase.ErrEmptyResult, err)
	case IsTransient(err):
		return fmt.Errorf("%w: %v", usecase.ErrTransientProvider, err)
	default:
		return fmt.Errorf("%w: %v", usecase.ErrProviderRejected, err)
	}
}
