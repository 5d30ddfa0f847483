package cache

import "time"

// Per-domain TTL tiers. Volatility differs per domain: fixtures move within
// the hour, rosters change seasonally, images almost never change, and
// translation tables are static.
const (
	TTLEntityProfile = 24 * time.Hour
	TTLSquad         = 24 * time.Hour
	TTLImage         = 30 * 24 * time.Hour
	TTLMatches       = 15 * time.Minute
	TTLTranslation   = time.Duration(0) // static, never expires
	TTLFunFact       = 24 * time.Hour   // keyed by calendar date
)

// TTLForDomain maps a cache domain to its TTL tier. Unknown domains get the
// entity-profile tier, the most conservative of the finite ones.
func TTLForDomain(domain string) time.Duration {
	switch domain {
	case DomainMatches:
		return TTLMatches
	case DomainImage:
		return TTLImage
	case DomainTranslation:
		return TTLTranslation
	case DomainFunFact:
		return TTLFunFact
	case DomainSquad:
		return TTLSquad
	default:
		return TTLEntityProfile
	}
}
