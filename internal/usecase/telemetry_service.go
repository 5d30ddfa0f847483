package usecase

import (
	"sort"
	"sync"

	"github.com/matchlens/matchlens/internal/domain/sourcing"
)

// TelemetryService keeps in-memory counters describing how queries were
// served. Counters survive for the process lifetime unless Reset is called.
type TelemetryService struct {
	mu sync.Mutex

	queriesRouted      int64
	cacheHits          int64
	callsByProvider    map[sourcing.ProviderID]int64
	avoidedByProvider  map[sourcing.ProviderID]int64
	failuresByProvider map[sourcing.ProviderID]int64
	skipsByProvider    map[sourcing.ProviderID]int64
}

func NewTelemetryService() *TelemetryService {
	return &TelemetryService{
		callsByProvider:    make(map[sourcing.ProviderID]int64),
		avoidedByProvider:  make(map[sourcing.ProviderID]int64),
		failuresByProvider: make(map[sourcing.ProviderID]int64),
		skipsByProvider:    make(map[sourcing.ProviderID]int64),
	}
}

// RecordRouted counts one query that went through the source router.
func (t *TelemetryService) RecordRouted() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.queriesRouted++
}

// RecordCacheHit counts a lookup answered from cache. Every provider that
// would have been consulted on a miss is credited with an avoided call.
func (t *TelemetryService) RecordCacheHit(wouldCall []sourcing.ProviderID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cacheHits++
	for _, id := range wouldCall {
		t.avoidedByProvider[id]++
	}
}

// RecordProviderCall counts one upstream request against a provider.
func (t *TelemetryService) RecordProviderCall(id sourcing.ProviderID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.callsByProvider[id]++
}

// RecordProviderFailure counts a provider call that did not produce data.
func (t *TelemetryService) RecordProviderFailure(id sourcing.ProviderID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failuresByProvider[id]++
}

// RecordSkipped credits providers that were never reached because an
// earlier provider in the chain answered first.
func (t *TelemetryService) RecordSkipped(skipped []sourcing.ProviderID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range skipped {
		t.avoidedByProvider[id]++
	}
}

// RecordUnconfiguredSkip counts a provider passed over in its chain because
// it has no credentials configured.
func (t *TelemetryService) RecordUnconfiguredSkip(id sourcing.ProviderID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.skipsByProvider[id]++
}

// ProviderStat is one provider's row in a telemetry report.
type ProviderStat struct {
	Provider sourcing.ProviderID `json:"provider"`
	Calls    int64               `json:"calls"`
	Failures int64               `json:"failures"`
	Avoided  int64               `json:"avoided"`
	Skipped  int64               `json:"skipped"`
}

// Report is a point-in-time snapshot of the counters.
type Report struct {
	QueriesRouted       int64          `json:"queriesRouted"`
	CacheHits           int64          `json:"cacheHits"`
	Providers           []ProviderStat `json:"providers"`
	EstimatedUnitsSaved int64          `json:"estimatedUnitsSaved"`
}

// Snapshot builds a report. EstimatedUnitsSaved counts avoided calls to the
// model provider, the only one billed per request.
func (t *TelemetryService) Snapshot() Report {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make(map[sourcing.ProviderID]struct{})
	for id := range t.callsByProvider {
		ids[id] = struct{}{}
	}
	for id := range t.avoidedByProvider {
		ids[id] = struct{}{}
	}
	for id := range t.failuresByProvider {
		ids[id] = struct{}{}
	}
	for id := range t.skipsByProvider {
		ids[id] = struct{}{}
	}

	stats := make([]ProviderStat, 0, len(ids))
	for id := range ids {
		stats = append(stats, ProviderStat{
			Provider: id,
			Calls:    t.callsByProvider[id],
			Failures: t.failuresByProvider[id],
			Avoided:  t.avoidedByProvider[id],
			Skipped:  t.skipsByProvider[id],
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Provider < stats[j].Provider })

	return Report{
		QueriesRouted:       t.queriesRouted,
		CacheHits:           t.cacheHits,
		Providers:           stats,
		EstimatedUnitsSaved: t.avoidedByProvider[sourcing.ProviderAIModel],
	}
}

// Reset zeroes all counters and reports how many rows were cleared.
func (t *TelemetryService) Reset() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	cleared := len(t.callsByProvider) + len(t.avoidedByProvider) +
		len(t.failuresByProvider) + len(t.skipsByProvider)
	t.queriesRouted = 0
	t.cacheHits = 0
	t.callsByProvider = make(map[sourcing.ProviderID]int64)
	t.avoidedByProvider = make(map[sourcing.ProviderID]int64)
	t.failuresByProvider = make(map[sourcing.ProviderID]int64)
	t.skipsByProvider = make(map[sourcing.ProviderID]int64)
	return cleared
}
