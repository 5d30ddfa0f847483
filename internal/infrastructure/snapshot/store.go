// Package snapshot persists the in-memory cache across restarts. The cache
// stays authoritative at runtime; Postgres only holds a periodic copy so a
// fresh process does not start cold.
package snapshot

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/matchlens/matchlens/internal/domain/sourcing"
	"github.com/matchlens/matchlens/internal/platform/cache"
	"github.com/matchlens/matchlens/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	_ "github.com/lib/pq"
)

// Open connects to Postgres with tracing instrumentation attached.
func Open(dbURL, dbName string) (*sqlx.DB, error) {
	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithDBName(dbName),
	)
	if err != nil {
		return nil, fmt.Errorf("connect snapshot database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// Store reads and writes cache snapshots.
type Store struct {
	db     *sqlx.DB
	logger *logging.Logger
}

func NewStore(db *sqlx.DB, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{db: db, logger: logger}
}

type snapshotRow struct {
	Key        string    `db:"key"`
	Payload    string    `db:"payload"`
	Source     string    `db:"source"`
	Confidence string    `db:"confidence"`
	CreatedAt  time.Time `db:"created_at"`
	TTLSecs    int64     `db:"ttl_seconds"`
}

// Save replaces the stored snapshot with the given entries in one
// transaction. Entries that fail to encode are skipped, not fatal.
func (s *Store) Save(ctx context.Context, entries []cache.Entry) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cache_snapshot`); err != nil {
		return fmt.Errorf("clear previous snapshot: %w", err)
	}

	const insert = `INSERT INTO cache_snapshot (key, payload, source, confidence, created_at, ttl_seconds, saved_at)
VALUES (:key, :payload, :source, :confidence, :created_at, :ttl_seconds, NOW())`

	for _, entry := range entries {
		encoded, encErr := sonic.Marshal(entry.Payload)
		if encErr != nil {
			s.logger.WarnContext(ctx, "skip snapshot entry, payload not encodable",
				"key", entry.Key,
				"error", encErr,
			)
			continue
		}
		row := snapshotRow{
			Key:        entry.Key,
			Payload:    string(encoded),
			Source:     entry.Source,
			Confidence: entry.Confidence,
			CreatedAt:  entry.CreatedAt.UTC(),
			TTLSecs:    int64(entry.TTL / time.Second),
		}
		if _, err := tx.NamedExecContext(ctx, insert, row); err != nil {
			return fmt.Errorf("insert snapshot entry key=%s: %w", entry.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot tx: %w", err)
	}
	return nil
}

// Load reads the stored snapshot back into cache entries. Rows whose
// payload no longer decodes are dropped with a warning, never an error:
// a partial snapshot beats a cold cache.
func (s *Store) Load(ctx context.Context) ([]cache.Entry, error) {
	var rows []snapshotRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT key, payload, source, confidence, created_at, ttl_seconds FROM cache_snapshot`)
	if err != nil {
		return nil, fmt.Errorf("load snapshot rows: %w", err)
	}

	out := make([]cache.Entry, 0, len(rows))
	for _, row := range rows {
		payload, decErr := decodePayload(row.Key, []byte(row.Payload))
		if decErr != nil {
			s.logger.WarnContext(ctx, "drop snapshot entry, payload not decodable",
				"key", row.Key,
				"error", decErr,
			)
			continue
		}
		out = append(out, cache.Entry{
			Key:        row.Key,
			Payload:    payload,
			Source:     row.Source,
			Confidence: row.Confidence,
			CreatedAt:  row.CreatedAt.UTC(),
			TTL:        time.Duration(row.TTLSecs) * time.Second,
		})
	}
	return out, nil
}

// decodePayload restores the typed payload for a key so cached answers look
// the same whether they came from a provider or from a restart.
func decodePayload(key string, raw []byte) (any, error) {
	var target any
	switch keyDomain(key) {
	case cache.DomainTeam:
		target = &sourcing.TeamProfile{}
	case cache.DomainPlayer:
		target = &sourcing.PlayerProfile{}
	case cache.DomainMatches:
		target = &sourcing.MatchList{}
	case cache.DomainTranslation:
		target = &sourcing.Translation{}
	case cache.DomainFunFact:
		target = &sourcing.FunFact{}
	case cache.DomainKeyword:
		target = &sourcing.KeywordAnswer{}
	default:
		var generic map[string]any
		if err := sonic.Unmarshal(raw, &generic); err != nil {
			return nil, err
		}
		return generic, nil
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, err
	}

	switch typed := target.(type) {
	case *sourcing.TeamProfile:
		return *typed, nil
	case *sourcing.PlayerProfile:
		return *typed, nil
	case *sourcing.MatchList:
		return *typed, nil
	case *sourcing.Translation:
		return *typed, nil
	case *sourcing.FunFact:
		return *typed, nil
	case *sourcing.KeywordAnswer:
		return *typed, nil
	default:
		return nil, fmt.Errorf("unexpected decode target %T", target)
	}
}

func keyDomain(key string) string {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
