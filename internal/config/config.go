package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Session store drivers.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Structured-answer providers.
const (
	ProviderLinkup = "linkup"
	ProviderGemini = "gemini"
)

const maxTargetCount = 5

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	Port              string
	JWTSecret         string
	TokenTTL          time.Duration
	RateLimitDiscover RateLimitConfig

	AnswerProvider string
	LinkupAPIKey   string
	LinkupBaseURL  string
	GeminiAPIKey   string
	GeminiModel    string

	ScrapeSearchURL string
	ScrapeDelay     time.Duration
	ScrapeBrowser   bool
	ChromeBin       string
	DirectoryURL    string

	RequestTimeout time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	TargetCount    int
	Offline        bool

	ReportDir   string
	StoreDriver string
	DatabaseURL string
	SQLitePath  string

	VocabularyPath string
	LogLevel       string
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		JWTSecret: getEnv("JWT_SECRET", "dev-secret"),
		TokenTTL:  parseDuration(getEnv("JWT_TTL", "24h"), 24*time.Hour),

		AnswerProvider: strings.ToLower(getEnv("ANSWER_PROVIDER", ProviderLinkup)),
		LinkupAPIKey:   os.Getenv("LINKUP_API_KEY"),
		LinkupBaseURL:  getEnv("LINKUP_BASE_URL", "https://api.linkup.so"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		ScrapeSearchURL: getEnv("SCRAPE_SEARCH_URL", "https://html.duckduckgo.com/html/"),
		ScrapeDelay:     parseDuration(getEnv("SCRAPE_DELAY", "1s"), time.Second),
		ScrapeBrowser:   parseBool(getEnv("SCRAPE_BROWSER", "false")),
		ChromeBin:       os.Getenv("CHROME_BIN"),
		DirectoryURL:    directoryURL(getEnv("DIRECTORY_URL", "https://www.yellowpages.com/{city}-ny/movers")),

		RequestTimeout: parseDuration(getEnv("REQUEST_TIMEOUT", "10s"), 10*time.Second),
		RetryBackoff:   parseDuration(getEnv("RETRY_BACKOFF", "500ms"), 500*time.Millisecond),
		Offline:        parseBool(getEnv("OFFLINE", "false")),

		ReportDir:   getEnv("REPORT_DIR", "./reports"),
		StoreDriver: strings.ToLower(getEnv("SESSION_STORE", StoreMemory)),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getEnv("SQLITE_PATH", "./movescout.db"),

		VocabularyPath: os.Getenv("VOCABULARY_PATH"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_DISCOVER", "5/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_DISCOVER value: %w", err)
	}
	cfg.RateLimitDiscover = rl

	retries, err := strconv.Atoi(getEnv("MAX_RETRIES", "1"))
	if err != nil || retries < 0 {
		return nil, fmt.Errorf("invalid MAX_RETRIES value: %q", os.Getenv("MAX_RETRIES"))
	}
	cfg.MaxRetries = retries

	target, err := strconv.Atoi(getEnv("TARGET_COUNT", strconv.Itoa(maxTargetCount)))
	if err != nil {
		return nil, fmt.Errorf("invalid TARGET_COUNT value: %w", err)
	}
	cfg.TargetCount = clampTarget(target)

	switch cfg.StoreDriver {
	case StoreMemory, StoreSQLite, StorePostgres:
	default:
		return nil, fmt.Errorf("unsupported SESSION_STORE %q", cfg.StoreDriver)
	}
	if cfg.StoreDriver == StorePostgres && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when SESSION_STORE=postgres")
	}

	switch cfg.AnswerProvider {
	case ProviderLinkup, ProviderGemini:
	default:
		return nil, fmt.Errorf("unsupported ANSWER_PROVIDER %q", cfg.AnswerProvider)
	}

	return cfg, nil
}

func clampTarget(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxTargetCount {
		return maxTargetCount
	}
	return n
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

// directoryURL maps "off" to an empty template, which drops the directory
// source from the chain.
func directoryURL(v string) string {
	if strings.EqualFold(strings.TrimSpace(v), "off") {
		return ""
	}
	return v
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func parseBool(input string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(input))
	return err == nil && v
}
