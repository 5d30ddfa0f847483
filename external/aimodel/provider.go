package aimodel

import (
	"context"
	"fmt"
	"time"

	"github.com/matchlens/matchlens/internal/domain/query"
	"github.com/matchlens/matchlens/internal/domain/sourcing"
	"github.com/matchlens/matchlens/internal/usecase"
)

// Provider adapts the model client to the fallback-chain contract. Model
// answers are plausible but unverified, so everything is tagged medium.
type Provider struct {
	client *Client
}

func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

func (p *Provider) ID() sourcing.ProviderID { return sourcing.ProviderAIModel }

func (p *Provider) Configured() bool { return p.client.Configured() }

// FunFactOfDay delegates to the client so the provider can sit in the daily
// trivia chain.
func (p *Provider) FunFactOfDay(ctx context.Context, date time.Time, languageTag string) (sourcing.FunFact, error) {
	return p.client.FunFactOfDay(ctx, date, languageTag)
}

func (p *Provider) Fetch(ctx context.Context, intent query.Intent) (sourcing.Result, error) {
	switch intent.Kind {
	case query.KindTeam:
		profile, err := p.client.EnrichTeam(ctx, intent.NormalizedText, intent.LanguageTag)
		if err != nil {
			return sourcing.Result{}, classify(err)
		}
		return p.result(profile), nil
	case query.KindPlayer:
		profile, err := p.client.EnrichPlayer(ctx, intent.NormalizedText, intent.LanguageTag)
		if err != nil {
			return sourcing.Result{}, classify(err)
		}
		return p.result(profile), nil
	case query.KindTranslation:
		translation, err := p.client.Translate(ctx, intent.NormalizedText, intent.NormalizedText, intent.LanguageTag)
		if err != nil {
			return sourcing.Result{}, classify(err)
		}
		return p.result(translation), nil
	case query.KindKeyword:
		answer, err := p.client.Answer(ctx, intent.NormalizedText, intent.LanguageTag)
		if err != nil {
			return sourcing.Result{}, classify(err)
		}
		return p.result(answer), nil
	default:
		return sourcing.Result{}, fmt.Errorf("%w: unsupported query kind %s", usecase.ErrEmptyResult, intent.Kind)
	}
}

func (p *Provider) result(data any) sourcing.Result {
	return sourcing.Result{
		Data:       data,
		Source:     sourcing.ProviderAIModel,
		Confidence: sourcing.ConfidenceMedium,
	}
}

func classify(err error) error {
	switch {
	case IsTransient(err):
		return fmt.Errorf("%w: %v", usecase.ErrTransientProvider, err)
	case IsRejected(err):
		return fmt.Errorf("%w: %v", usecase.ErrProviderRejected, err)
	default:
		return fmt.Errorf("%w: %v", usecase.ErrTransientProvider, err)
	}
}
