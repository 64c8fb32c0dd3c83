// Package config holds service configuration loaded from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Completion provider identifiers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderBedrock   = "bedrock"
)

// Config holds all configuration values.
type Config struct {
	// HTTP server
	Port string

	// Completion provider
	Provider          string
	Model             string
	OllamaHost        string
	CompletionTimeout time.Duration
	Seed              int

	// Credential syntax: "sk-" followed by KeySuffixLen alphanumerics.
	// The suffix length varies by deployment, so it is configuration.
	KeySuffixLen int

	// Worker pool
	MaxConcurrentJobs int

	// Participant roster overrides (optional YAML file)
	RosterFile string

	// Logging
	LogFile  string
	LogLevel slog.Level

	// Optional SurrealDB job persistence. Disabled when DBURL is empty.
	DBURL       string
	DBNamespace string
	DBDatabase  string
	DBUser      string
	DBPass      string
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		Port: getEnv("SCRIPTROOM_PORT", "5001"),

		Provider:          getEnv("SCRIPTROOM_PROVIDER", ProviderOpenAI),
		Model:             getEnv("SCRIPTROOM_MODEL", "gpt-4"),
		OllamaHost:        getEnv("OLLAMA_HOST", "http://localhost:11434"),
		CompletionTimeout: getEnvDuration("SCRIPTROOM_COMPLETION_TIMEOUT", 600*time.Second),
		Seed:              getEnvInt("SCRIPTROOM_SEED", 42),

		KeySuffixLen: getEnvInt("SCRIPTROOM_KEY_SUFFIX_LEN", 48),

		MaxConcurrentJobs: getEnvInt("SCRIPTROOM_MAX_CONCURRENT_JOBS", 4),

		RosterFile: getEnv("SCRIPTROOM_ROSTER_FILE", ""),

		LogFile:  getEnv("SCRIPTROOM_LOG_FILE", "/tmp/scriptroom.log"),
		LogLevel: parseLogLevel(getEnv("SCRIPTROOM_LOG_LEVEL", "INFO")),

		DBURL:       getEnv("SCRIPTROOM_DB_URL", ""),
		DBNamespace: getEnv("SCRIPTROOM_DB_NAMESPACE", "scriptroom"),
		DBDatabase:  getEnv("SCRIPTROOM_DB_DATABASE", "jobs"),
		DBUser:      getEnv("SCRIPTROOM_DB_USER", "root"),
		DBPass:      getEnv("SCRIPTROOM_DB_PASS", "root"),
	}
}

// PersistenceEnabled reports whether job records should be mirrored to SurrealDB.
func (c Config) PersistenceEnabled() bool {
	return c.DBURL != ""
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
