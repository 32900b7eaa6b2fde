package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gridrivals/gridrivals/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                        string
	ServiceName                   string
	ServiceVersion                string
	HTTPAddr                      string
	DBURL                         string
	DBDisablePreparedBinary       bool
	CacheEnabled                  bool
	CacheTTL                      time.Duration
	CORSAllowedOrigins            []string
	ReadTimeout                   time.Duration
	WriteTimeout                  time.Duration
	PprofEnabled                  bool
	PprofAddr                     string
	GatekeeperBaseURL             string
	GatekeeperIntrospectPath      string
	GatekeeperTimeout             time.Duration
	GatekeeperCacheTTL            time.Duration
	GatekeeperCircuitEnabled      bool
	GatekeeperCircuitFailureCount int
	GatekeeperCircuitOpenTimeout  time.Duration
	GatekeeperCircuitHalfOpenMax  int
	MailerEnabled                 bool
	MailerBaseURL                 string
	MailerToken                   string
	MailerFromAddress             string
	MailerTimeout                 time.Duration
	MailerCircuitEnabled          bool
	MailerCircuitFailureCount     int
	MailerCircuitOpenTimeout      time.Duration
	MailerCircuitHalfOpenMax      int
	InviteRateLimit               int
	InviteRateWindow              time.Duration
	AuthCodeRateLimit             int
	AuthCodeRateWindow            time.Duration
	RollupMaxWorkers              int
	UptraceEnabled                bool
	UptraceDSN                    string
	UptraceLogsEnabled            bool
	PyroscopeEnabled              bool
	PyroscopeServerAddress        string
	PyroscopeAppName              string
	PyroscopeAuthToken            string
	PyroscopeBasicAuthUser        string
	PyroscopeBasicAuthPassword    string
	PyroscopeUploadRate           time.Duration
	LogLevel                      logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}

	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
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

	mailerEnabled, err := strconv.ParseBool(getEnv("MAILER_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MAILER_ENABLED: %w", err)
	}
	mailerBaseURL := strings.TrimSpace(getEnv("MAILER_BASE_URL", ""))
	mailerFromAddress := strings.TrimSpace(getEnv("MAILER_FROM_ADDRESS", ""))
	if mailerEnabled {
		if mailerBaseURL == "" {
			return Config{}, fmt.Errorf("MAILER_BASE_URL is required when MAILER_ENABLED=true")
		}
		if mailerFromAddress == "" {
			return Config{}, fmt.Errorf("MAILER_FROM_ADDRESS is required when MAILER_ENABLED=true")
		}
	}
	mailerTimeout, err := time.ParseDuration(getEnv("MAILER_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MAILER_TIMEOUT: %w", err)
	}
	if mailerTimeout <= 0 {
		return Config{}, fmt.Errorf("MAILER_TIMEOUT must be > 0")
	}
	mailerCircuitEnabled, err := strconv.ParseBool(getEnv("MAILER_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MAILER_CIRCUIT_ENABLED: %w", err)
	}
	mailerCircuitFailureCount, err := getEnvAsInt("MAILER_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse MAILER_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if mailerCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("MAILER_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	mailerCircuitOpenTimeout, err := time.ParseDuration(getEnv("MAILER_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MAILER_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if mailerCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("MAILER_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	mailerCircuitHalfOpenMax, err := getEnvAsInt("MAILER_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse MAILER_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if mailerCircuitHalfOpenMax < 1 {
		return Config{}, fmt.Errorf("MAILER_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	inviteRateLimit, err := getEnvAsInt("INVITE_RATE_LIMIT", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse INVITE_RATE_LIMIT: %w", err)
	}
	if inviteRateLimit < 1 {
		return Config{}, fmt.Errorf("INVITE_RATE_LIMIT must be >= 1")
	}
	inviteRateWindow, err := time.ParseDuration(getEnv("INVITE_RATE_WINDOW", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse INVITE_RATE_WINDOW: %w", err)
	}
	if inviteRateWindow <= 0 {
		return Config{}, fmt.Errorf("INVITE_RATE_WINDOW must be > 0")
	}

	authCodeRateLimit, err := getEnvAsInt("AUTH_CODE_RATE_LIMIT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTH_CODE_RATE_LIMIT: %w", err)
	}
	if authCodeRateLimit < 1 {
		return Config{}, fmt.Errorf("AUTH_CODE_RATE_LIMIT must be >= 1")
	}
	authCodeRateWindow, err := time.ParseDuration(getEnv("AUTH_CODE_RATE_WINDOW", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTH_CODE_RATE_WINDOW: %w", err)
	}
	if authCodeRateWindow <= 0 {
		return Config{}, fmt.Errorf("AUTH_CODE_RATE_WINDOW must be > 0")
	}

	rollupMaxWorkers, err := getEnvAsInt("ROLLUP_MAX_WORKERS", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse ROLLUP_MAX_WORKERS: %w", err)
	}
	if rollupMaxWorkers < 1 {
		return Config{}, fmt.Errorf("ROLLUP_MAX_WORKERS must be >= 1")
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "gridrivals-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                      strings.TrimSpace(getEnv("DB_URL", "")),
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		GatekeeperBaseURL:          getEnv("GATEKEEPER_BASE_URL", "http://localhost:8081"),
		GatekeeperIntrospectPath:   getEnv("GATEKEEPER_INTROSPECT_PATH", "/v1/introspect"),
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		UptraceLogsEnabled:         uptraceLogsEnabled,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
		MailerEnabled:              mailerEnabled,
		MailerBaseURL:              mailerBaseURL,
		MailerToken:                strings.TrimSpace(getEnv("MAILER_TOKEN", "")),
		MailerFromAddress:          mailerFromAddress,
		MailerTimeout:              mailerTimeout,
		MailerCircuitEnabled:       mailerCircuitEnabled,
		MailerCircuitFailureCount:  mailerCircuitFailureCount,
		MailerCircuitOpenTimeout:   mailerCircuitOpenTimeout,
		MailerCircuitHalfOpenMax:   mailerCircuitHalfOpenMax,
		InviteRateLimit:            inviteRateLimit,
		InviteRateWindow:           inviteRateWindow,
		AuthCodeRateLimit:          authCodeRateLimit,
		AuthCodeRateWindow:         authCodeRateWindow,
		RollupMaxWorkers:           rollupMaxWorkers,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	cfg.DBDisablePreparedBinary = dbDisablePreparedBinary

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}
	cfg.CacheEnabled = cacheEnabled
	cfg.CacheTTL = cacheTTL

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	gatekeeperTimeout, err := time.ParseDuration(getEnv("GATEKEEPER_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GATEKEEPER_TIMEOUT: %w", err)
	}

	gatekeeperCacheTTL, err := time.ParseDuration(getEnv("GATEKEEPER_CACHE_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GATEKEEPER_CACHE_TTL: %w", err)
	}
	if gatekeeperCacheTTL <= 0 {
		return Config{}, fmt.Errorf("GATEKEEPER_CACHE_TTL must be > 0")
	}

	gatekeeperCircuitEnabled, err := strconv.ParseBool(getEnv("GATEKEEPER_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GATEKEEPER_CIRCUIT_ENABLED: %w", err)
	}

	gatekeeperCircuitFailureCount, err := getEnvAsInt("GATEKEEPER_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse GATEKEEPER_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if gatekeeperCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("GATEKEEPER_CIRCUIT_FAILURE_COUNT must be >= 1")
	}

	gatekeeperCircuitOpenTimeout, err := time.ParseDuration(getEnv("GATEKEEPER_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GATEKEEPER_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if gatekeeperCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("GATEKEEPER_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}

	gatekeeperCircuitHalfOpenMax, err := getEnvAsInt("GATEKEEPER_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse GATEKEEPER_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if gatekeeperCircuitHalfOpenMax < 1 {
		return Config{}, fmt.Errorf("GATEKEEPER_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	logLevel := parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout
	cfg.GatekeeperTimeout = gatekeeperTimeout
	cfg.GatekeeperCacheTTL = gatekeeperCacheTTL
	cfg.GatekeeperCircuitEnabled = gatekeeperCircuitEnabled
	cfg.GatekeeperCircuitFailureCount = gatekeeperCircuitFailureCount
	cfg.GatekeeperCircuitOpenTimeout = gatekeeperCircuitOpenTimeout
	cfg.GatekeeperCircuitHalfOpenMax = gatekeeperCircuitHalfOpenMax
	cfg.LogLevel = logLevel

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

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
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
