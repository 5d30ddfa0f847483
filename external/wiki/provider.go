package wiki

import (
	"context"
	"fmt"

	"github.com/matchlens/matchlens/internal/domain/query"
	"github.com/matchlens/matchlens/internal/domain/sourcing"
	"github.com/matchlens/matchlens/internal/usecase"
)

// Provider adapts page summaries to the fallback-chain contract. Summaries
// carry prose and an image but no structured stats, so answers are tagged
// medium confidence.
type Provider struct {
	client *Client
}

func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

func (p *Provider) ID() sourcing.ProviderID { return sourcing.ProviderWiki }

// Configured is always true: the encyclopedia needs no credential.
func (p *Provider) Configured() bool { return true }

func (p *Provider) Fetch(ctx context.Context, intent query.Intent) (sourcing.Result, error) {
	switch intent.Kind {
	case query.KindTeam, query.KindPlayer:
	default:
		return sourcing.Result{}, fmt.Errorf("%w: unsupported query kind %s", usecase.ErrEmptyResult, intent.Kind)
	}

	summary, err := p.client.Summary(ctx, intent.NormalizedText, intent.LanguageTag)
	if err != nil {
		return sourcing.Result{}, classify(err)
	}

	var data any
	if intent.Kind == query.KindTeam {
		data = sourcing.TeamProfile{
			Name:     summary.Title,
			Summary:  summary.Extract,
			CrestURL: summary.ImageURL,
		}
	} else {
		data = sourcing.PlayerProfile{
			Name:     summary.Title,
			Summary:  summary.Extract,
			PhotoURL: summary.ImageURL,
		}
	}

	return sourcing.Result{
		Data:       data,
		Source:     sourcing.ProviderWiki,
		Confidence: sourcing.ConfidenceMedium,
	}, nil
}

func classify(err error) error {
	switch {
	case IsNotFound(err):
		return fmt.Errorf("%w: %v", usecase.ErrEmptyResult, err)
	case IsTransient(err):
		return fmt.Errorf("%w: %v", usecase.ErrTransientProvider, err)
	default:
		return fmt.Errorf("%w: %v", usecase.ErrProviderRejected, err)
	}
}
