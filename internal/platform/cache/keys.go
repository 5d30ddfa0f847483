package cache

import "strings"

// schemaVersion is embedded in every key so a payload-shape change
// invalidates old entries without a migration step. Bump on any change to a
// cached payload type.
const schemaVersion = "v3"

// Cache domains. Each domain gets its own TTL tier and key prefix, so a
// whole domain can be invalidated with one prefix call.
const (
	DomainTeam        = "team"
	DomainPlayer      = "player"
	DomainSquad       = "squad"
	DomainMatches     = "matches"
	DomainTranslation = "translation"
	DomainImage       = "image"
	DomainFunFact     = "funfact"
	DomainKeyword     = "keyword"
)

// Key builds a deterministic versioned cache key:
// "<version>:<domain>:<part>:<part>...". Parts are lowercased and
// space-folded so equivalent queries share an entry.
func Key(domain string, parts ...string) string {
	var b strings.Builder
	b.WriteString(schemaVersion)
	b.WriteByte(':')
	b.WriteString(domain)
	for _, part := range parts {
		b.WriteByte(':')
		b.WriteString(normalizeKeyPart(part))
	}
	return b.String()
}

// DomainPrefix is the invalidation prefix covering one domain.
func DomainPrefix(domain string) string {
	return schemaVersion + ":" + domain + ":"
}

func normalizeKeyPart(part string) string {
	part = strings.ToLower(strings.TrimSpace(part))
	return strings.Join(strings.Fields(part), "-")
}
