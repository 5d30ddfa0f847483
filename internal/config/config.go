package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/matchlens/matchlens/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                            string
	ServiceName                       string
	ServiceVersion                    string
	HTTPAddr                          string
	ReadTimeout                       time.Duration
	WriteTimeout                      time.Duration
	CORSAllowedOrigins                []string
	LogLevel                          logging.Level
	PprofEnabled                      bool
	PprofAddr                         string
	UptraceEnabled                    bool
	UptraceDSN                        string
	UptraceLogsEnabled                bool
	PyroscopeEnabled                  bool
	PyroscopeServerAddress            string
	PyroscopeAppName                  string
	PyroscopeAuthToken                string
	PyroscopeBasicAuthUser            string
	PyroscopeBasicAuthPassword        string
	PyroscopeUploadRate               time.Duration
	FootballDataEnabled               bool
	FootballDataBaseURL               string
	FootballDataToken                 string
	FootballDataTimeout               time.Duration
	FootballDataMaxRetries            int
	FootballDataCircuitEnabled        bool
	FootballDataCircuitFailureCount   int
	FootballDataCircuitOpenTimeout    time.Duration
	FootballDataCircuitHalfOpenMaxReq int
	FootballDataMinInterval           time.Duration
	AIModelAPIKey                     string
	AIModelModel                      string
	AIModelBaseURL                    string
	AIModelTimeout                    time.Duration
	AIModelCircuitEnabled             bool
	AIModelCircuitFailureCount        int
	AIModelCircuitOpenTimeout         time.Duration
	AIModelCircuitHalfOpenMaxReq      int
	AIModelMinInterval                time.Duration
	WikiBaseURL                       string
	WikiUserAgent                     string
	WikiTimeout                       time.Duration
	WikiMinInterval                   time.Duration
	VideoSearchBaseURL                string
	VideoSearchAPIKey                 string
	VideoSearchTimeout                time.Duration
	PacerDefaultInterval              time.Duration
	SnapshotDBURL                     string
	SnapshotInterval                  time.Duration
	WarmupWorkers                     int
	WarmupSeedQueries                 []string
	InternalJobToken                  string
}

// SnapshotEnabled reports whether the durable cache snapshot store is
// configured.
func (c Config) SnapshotEnabled() bool {
	return strings.TrimSpace(c.SnapshotDBURL) != ""
}

// Load reads configuration from environment variables, applying defaults
// and validating cross-field requirements.
func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	footballDataEnabled, err := strconv.ParseBool(getEnv("FOOTBALL_DATA_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_ENABLED: %w", err)
	}
	footballDataTimeout, err := time.ParseDuration(getEnv("FOOTBALL_DATA_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_TIMEOUT: %w", err)
	}
	if footballDataTimeout <= 0 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_TIMEOUT must be > 0")
	}
	footballDataMaxRetries, err := getEnvAsInt("FOOTBALL_DATA_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_MAX_RETRIES: %w", err)
	}
	if footballDataMaxRetries < 0 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_MAX_RETRIES must be >= 0")
	}
	footballDataCircuitEnabled, err := strconv.ParseBool(getEnv("FOOTBALL_DATA_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_CIRCUIT_ENABLED: %w", err)
	}
	footballDataCircuitFailureCount, err := getEnvAsInt("FOOTBALL_DATA_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if footballDataCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	footballDataCircuitOpenTimeout, err := time.ParseDuration(getEnv("FOOTBALL_DATA_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if footballDataCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	footballDataCircuitHalfOpenMaxReq, err := getEnvAsInt("FOOTBALL_DATA_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if footballDataCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	footballDataMinInterval, err := time.ParseDuration(getEnv("FOOTBALL_DATA_MIN_INTERVAL", "6s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTBALL_DATA_MIN_INTERVAL: %w", err)
	}
	if footballDataMinInterval < 0 {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_MIN_INTERVAL must be >= 0")
	}
	footballDataBaseURL := strings.TrimSpace(getEnv("FOOTBALL_DATA_BASE_URL", "https://api.football-data.org/v4"))
	footballDataToken := strings.TrimSpace(getEnv("FOOTBALL_DATA_TOKEN", ""))
	if footballDataEnabled && footballDataToken == "" {
		return Config{}, fmt.Errorf("FOOTBALL_DATA_TOKEN is required when FOOTBALL_DATA_ENABLED=true")
	}

	aiModelTimeout, err := time.ParseDuration(getEnv("AI_MODEL_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AI_MODEL_TIMEOUT: %w", err)
	}
	if aiModelTimeout <= 0 {
		return Config{}, fmt.Errorf("AI_MODEL_TIMEOUT must be > 0")
	}
	aiModelCircuitEnabled, err := strconv.ParseBool(getEnv("AI_MODEL_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AI_MODEL_CIRCUIT_ENABLED: %w", err)
	}
	aiModelCircuitFailureCount, err := getEnvAsInt("AI_MODEL_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse AI_MODEL_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if aiModelCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("AI_MODEL_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	aiModelCircuitOpenTimeout, err := time.ParseDuration(getEnv("AI_MODEL_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AI_MODEL_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if aiModelCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("AI_MODEL_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	aiModelCircuitHalfOpenMaxReq, err := getEnvAsInt("AI_MODEL_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse AI_MODEL_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if aiModelCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("AI_MODEL_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	aiModelMinInterval, err := time.ParseDuration(getEnv("AI_MODEL_MIN_INTERVAL", "1s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AI_MODEL_MIN_INTERVAL: %w", err)
	}
	if aiModelMinInterval < 0 {
		return Config{}, fmt.Errorf("AI_MODEL_MIN_INTERVAL must be >= 0")
	}

	wikiTimeout, err := time.ParseDuration(getEnv("WIKI_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WIKI_TIMEOUT: %w", err)
	}
	if wikiTimeout <= 0 {
		return Config{}, fmt.Errorf("WIKI_TIMEOUT must be > 0")
	}
	wikiMinInterval, err := time.ParseDuration(getEnv("WIKI_MIN_INTERVAL", "200ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WIKI_MIN_INTERVAL: %w", err)
	}
	if wikiMinInterval < 0 {
		return Config{}, fmt.Errorf("WIKI_MIN_INTERVAL must be >= 0")
	}

	videoSearchTimeout, err := time.ParseDuration(getEnv("VIDEO_SEARCH_TIMEOUT", "8s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse VIDEO_SEARCH_TIMEOUT: %w", err)
	}
	if videoSearchTimeout <= 0 {
		return Config{}, fmt.Errorf("VIDEO_SEARCH_TIMEOUT must be > 0")
	}

	pacerDefaultInterval, err := time.ParseDuration(getEnv("PACER_DEFAULT_INTERVAL", "0s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PACER_DEFAULT_INTERVAL: %w", err)
	}
	if pacerDefaultInterval < 0 {
		return Config{}, fmt.Errorf("PACER_DEFAULT_INTERVAL must be >= 0")
	}

	snapshotInterval, err := time.ParseDuration(getEnv("SNAPSHOT_INTERVAL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SNAPSHOT_INTERVAL: %w", err)
	}
	if snapshotInterval <= 0 {
		return Config{}, fmt.Errorf("SNAPSHOT_INTERVAL must be > 0")
	}

	warmupWorkers, err := getEnvAsInt("WARMUP_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse WARMUP_WORKERS: %w", err)
	}
	if warmupWorkers < 1 {
		return Config{}, fmt.Errorf("WARMUP_WORKERS must be >= 1")
	}

	logLevel := parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	cfg := Config{
		AppEnv:                            appEnv,
		ServiceName:                       getEnv("APP_SERVICE_NAME", "matchlens-api"),
		ServiceVersion:                    getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                          getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:                       readTimeout,
		WriteTimeout:                      writeTimeout,
		CORSAllowedOrigins:                splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:                          logLevel,
		PprofEnabled:                      pprofEnabled,
		PprofAddr:                         pprofAddr,
		UptraceEnabled:                    uptraceEnabled,
		UptraceDSN:                        uptraceDSN,
		UptraceLogsEnabled:                uptraceLogsEnabled,
		PyroscopeEnabled:                  pyroscopeEnabled,
		PyroscopeServerAddress:            pyroscopeServerAddress,
		PyroscopeAuthToken:                strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:            strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:        strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:               pyroscopeUploadRate,
		FootballDataEnabled:               footballDataEnabled,
		FootballDataBaseURL:               footballDataBaseURL,
		FootballDataToken:                 footballDataToken,
		FootballDataTimeout:               footballDataTimeout,
		FootballDataMaxRetries:            footballDataMaxRetries,
		FootballDataCircuitEnabled:        footballDataCircuitEnabled,
		FootballDataCircuitFailureCount:   footballDataCircuitFailureCount,
		FootballDataCircuitOpenTimeout:    footballDataCircuitOpenTimeout,
		FootballDataCircuitHalfOpenMaxReq: footballDataCircuitHalfOpenMaxReq,
		FootballDataMinInterval:           footballDataMinInterval,
		AIModelAPIKey:                     strings.TrimSpace(getEnv("AI_MODEL_API_KEY", "")),
		AIModelModel:                      strings.TrimSpace(getEnv("AI_MODEL_MODEL", "")),
		AIModelBaseURL:                    strings.TrimSpace(getEnv("AI_MODEL_BASE_URL", "")),
		AIModelTimeout:                    aiModelTimeout,
		AIModelCircuitEnabled:             aiModelCircuitEnabled,
		AIModelCircuitFailureCount:        aiModelCircuitFailureCount,
		AIModelCircuitOpenTimeout:         aiModelCircuitOpenTimeout,
		AIModelCircuitHalfOpenMaxReq:      aiModelCircuitHalfOpenMaxReq,
		AIModelMinInterval:                aiModelMinInterval,
		WikiBaseURL:                       strings.TrimSpace(getEnv("WIKI_BASE_URL", "")),
		WikiUserAgent:                     strings.TrimSpace(getEnv("WIKI_USER_AGENT", "")),
		WikiTimeout:                       wikiTimeout,
		WikiMinInterval:                   wikiMinInterval,
		VideoSearchBaseURL:                strings.TrimSpace(getEnv("VIDEO_SEARCH_BASE_URL", "")),
		VideoSearchAPIKey:                 strings.TrimSpace(getEnv("VIDEO_SEARCH_API_KEY", "")),
		VideoSearchTimeout:                videoSearchTimeout,
		PacerDefaultInterval:              pacerDefaultInterval,
		SnapshotDBURL:                     strings.TrimSpace(getEnv("SNAPSHOT_DB_URL", "")),
		SnapshotInterval:                  snapshotInterval,
		WarmupWorkers:                     warmupWorkers,
		WarmupSeedQueries:                 splitCSV(getEnv("WARMUP_SEED_QUERIES", "")),
		InternalJobToken:                  strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
