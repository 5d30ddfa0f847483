package query

// Kind is the inferred intent of a raw lookup query.
type Kind string

const (
	KindTeam        Kind = "team"
	KindPlayer      Kind = "player"
	KindMatches     Kind = "matches"
	KindTranslation Kind = "translation"
	KindKeyword     Kind = "keyword"
)

func (k Kind) Valid() bool {
	switch k {
	case KindTeam, KindPlayer, KindMatches, KindTranslation, KindKeyword:
		return true
	}
	return false
}

// Confidence grades how certain the classifier is about an intent.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Intent is the classified form of a raw query. Produced once per request,
// immutable afterwards.
type Intent struct {
	Kind           Kind
	NormalizedText string
	LanguageTag    string
	Confidence     Confidence
}

// Hints lets callers override parts of classification, e.g. a UI tab that is
// already scoped to players.
type Hints struct {
	LanguageTag string
	ForcedKind  Kind
}
