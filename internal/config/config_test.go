package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.ServiceName != "matchlens-api" {
		t.Fatalf("unexpected ServiceName: %q", cfg.ServiceName)
	}
	if cfg.FootballDataBaseURL != "https://api.football-data.org/v4" {
		t.Fatalf("unexpected FootballDataBaseURL: %q", cfg.FootballDataBaseURL)
	}
	if cfg.FootballDataMinInterval != 6*time.Second {
		t.Fatalf("unexpected FootballDataMinInterval: %s", cfg.FootballDataMinInterval)
	}
	if cfg.WarmupWorkers != 4 {
		t.Fatalf("unexpected WarmupWorkers: %d", cfg.WarmupWorkers)
	}
	if cfg.SnapshotEnabled() {
		t.Fatalf("expected snapshot store disabled without SNAPSHOT_DB_URL")
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected CORSAllowedOrigins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_FootballDataRequiresTokenWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("FOOTBALL_DATA_ENABLED", "true")
	t.Setenv("FOOTBALL_DATA_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when FOOTBALL_DATA_ENABLED=true without FOOTBALL_DATA_TOKEN")
	}
}

func TestLoad_FootballDataConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("FOOTBALL_DATA_ENABLED", "true")
	t.Setenv("FOOTBALL_DATA_TOKEN", "token-123")
	t.Setenv("FOOTBALL_DATA_TIMEOUT", "5s")
	t.Setenv("FOOTBALL_DATA_MAX_RETRIES", "3")
	t.Setenv("FOOTBALL_DATA_MIN_INTERVAL", "2s")
	t.Setenv("FOOTBALL_DATA_CIRCUIT_FAILURE_COUNT", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.FootballDataEnabled {
		t.Fatalf("expected FootballDataEnabled=true")
	}
	if cfg.FootballDataToken != "token-123" {
		t.Fatalf("unexpected FootballDataToken")
	}
	if cfg.FootballDataTimeout != 5*time.Second {
		t.Fatalf("unexpected FootballDataTimeout: %s", cfg.FootballDataTimeout)
	}
	if cfg.FootballDataMaxRetries != 3 {
		t.Fatalf("unexpected FootballDataMaxRetries: %d", cfg.FootballDataMaxRetries)
	}
	if cfg.FootballDataMinInterval != 2*time.Second {
		t.Fatalf("unexpected FootballDataMinInterval: %s", cfg.FootballDataMinInterval)
	}
	if cfg.FootballDataCircuitFailureCount != 7 {
		t.Fatalf("unexpected FootballDataCircuitFailureCount: %d", cfg.FootballDataCircuitFailureCount)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_WarmupSeedQueriesCSV(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("WARMUP_SEED_QUERIES", "brazil, mbappe ,, real madrid")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	want := []string{"brazil", "mbappe", "real madrid"}
	if len(cfg.WarmupSeedQueries) != len(want) {
		t.Fatalf("unexpected WarmupSeedQueries: %v", cfg.WarmupSeedQueries)
	}
	for i, q := range want {
		if cfg.WarmupSeedQueries[i] != q {
			t.Fatalf("unexpected WarmupSeedQueries[%d]: %q", i, cfg.WarmupSeedQueries[i])
		}
	}
}

func TestLoad_InvalidDurationRejected(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("SNAPSHOT_INTERVAL", "soon")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unparsable SNAPSHOT_INTERVAL")
	}
}
