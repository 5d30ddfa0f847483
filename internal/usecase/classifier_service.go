package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/matchlens/matchlens/internal/domain/query"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const defaultLanguageTag = "en"

// ClassifierService turns raw lookup text into a query.Intent. It is a pure
// function of its inputs plus the static lookup tables in domain/query.
type ClassifierService struct{}

func NewClassifierService() *ClassifierService {
	return &ClassifierService{}
}

// Classify normalizes raw text and infers intent. Rules run in fixed
// priority order: explicit hint, country name, club indicator, curated
// player fragment, match indicator, two-token proper name, generic keyword.
// A bare country name beats a club indicator because it far more often
// means the national team.
func (s *ClassifierService) Classify(ctx context.Context, raw string, hints query.Hints) (query.Intent, error) {
	_, span := startUsecaseSpan(ctx, "usecase.ClassifierService.Classify")
	defer span.End()

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return query.Intent{}, fmt.Errorf("%w: query must not be empty", ErrInvalidInput)
	}

	normalized := normalizeQueryText(trimmed)
	languageTag := strings.TrimSpace(hints.LanguageTag)
	if languageTag == "" {
		languageTag = defaultLanguageTag
	}

	intent := query.Intent{
		NormalizedText: normalized,
		LanguageTag:    languageTag,
	}

	if hints.ForcedKind.Valid() {
		intent.Kind = hints.ForcedKind
		intent.Confidence = query.ConfidenceHigh
		return intent, nil
	}

	tokens := strings.Fields(normalized)
	rawTokens := strings.Fields(trimmed)

	if _, ok := query.CountryNames[normalized]; ok {
		intent.Kind = query.KindTeam
		intent.Confidence = query.ConfidenceHigh
		return intent, nil
	}

	for _, token := range tokens {
		if _, ok := query.ClubIndicatorTokens[token]; ok {
			intent.Kind = query.KindTeam
			intent.Confidence = query.ConfidenceHigh
			return intent, nil
		}
	}

	// Curated player surnames fire only when the whole query is the surname,
	// including multi-token ones like "de bruyne"; a full name goes through
	// the structural pattern below instead.
	if _, ok := query.KnownPlayerFragments[normalized]; ok {
		intent.Kind = query.KindPlayer
		intent.Confidence = query.ConfidenceHigh
		return intent, nil
	}

	for _, token := range tokens {
		if _, ok := query.MatchIndicatorTokens[token]; ok {
			intent.Kind = query.KindMatches
			intent.Confidence = query.ConfidenceMedium
			return intent, nil
		}
	}

	if looksLikeProperName(rawTokens) {
		intent.Kind = query.KindPlayer
		intent.Confidence = query.ConfidenceMedium
		return intent, nil
	}

	intent.Kind = query.KindKeyword
	intent.Confidence = query.ConfidenceLow
	return intent, nil
}

// normalizeQueryText lowercases and strips diacritics via Unicode canonical
// decomposition, so "Mbappé" and "mbappe" compare equal.
func normalizeQueryText(s string) string {
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(chain, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.Join(strings.Fields(out), " "))
}

// looksLikeProperName matches the "Capitalized Capitalized" structural
// pattern of person names, up to three tokens for compound surnames.
func looksLikeProperName(rawTokens []string) bool {
	if len(rawTokens) < 2 || len(rawTokens) > 3 {
		return false
	}
	for _, token := range rawTokens {
		first := []rune(token)[0]
		if !unicode.IsUpper(first) {
			return false
		}
	}
	return true
}
