package sourcing

import (
	"context"

	"github.com/matchlens/matchlens/internal/domain/query"
)

// ProviderID identifies an upstream data source.
type ProviderID string

const (
	ProviderFootballData ProviderID = "football-data"
	ProviderWiki         ProviderID = "wiki"
	ProviderAIModel      ProviderID = "ai-model"
	ProviderVideoSearch  ProviderID = "video-search"
	ProviderStatic       ProviderID = "static"
	ProviderCache        ProviderID = "cache"
)

// Confidence tags how trustworthy a provider's answer is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Result is the normalized outcome of one resolution. Created once by a
// provider adapter (or by the router on exhaustion) and never mutated
// afterwards; the router wraps rather than edits.
//
// Data == nil with Err set is the "all providers exhausted" outcome. It is a
// normal, displayable result, not an error condition for the caller.
type Result struct {
	Data       any
	Source     ProviderID
	Confidence Confidence
	Err        error
}

// Provider is one element of a fallback chain. Fetch must normalize the
// upstream response into a Result payload at the I/O boundary and classify
// failures with the usecase sentinel errors.
type Provider interface {
	ID() ProviderID
	// Configured reports whether the provider has the credentials it needs.
	// Unconfigured providers are skipped by the router and fail fast.
	Configured() bool
	Fetch(ctx context.Context, intent query.Intent) (Result, error)
}
