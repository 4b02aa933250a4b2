package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config collects every external setting the importer reads from the
// environment. Optional integrations (object storage, redis, kafka) stay
// disabled when their settings are absent.
type Config struct {
	Port string

	// Source document store (required)
	SourceBaseURL    string
	SourceToken      string
	SourceCollection string
	MappingFile      string

	// Destination datastore (required for live imports)
	DestURL        string
	DestServiceKey string

	// Object storage for rehosted images (optional; dev-stub mode without it)
	S3Bucket        string
	S3Region        string
	S3Profile       string
	S3Prefix        string
	S3UsePathStyle  bool
	S3PublicBaseURL string

	// Cursor checkpoints (optional)
	RedisAddr string
	RedisPass string
	RedisDB   int

	// Import events (optional)
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads the configuration from the environment. It does not validate;
// call ValidateSource / ValidateDestination at the invocation boundary so a
// dry-run doesn't demand destination credentials.
func Load() *Config {
	cfg := &Config{
		Port: GetEnvOrDefault("PORT", "8080"),

		SourceBaseURL:    GetEnvOrDefault("SOURCE_BASE_URL", "https://api.notion.com"),
		SourceToken:      strings.TrimSpace(os.Getenv("SOURCE_TOKEN")),
		SourceCollection: strings.TrimSpace(os.Getenv("SOURCE_COLLECTION_ID")),
		MappingFile:      strings.TrimSpace(os.Getenv("MAPPING_FILE")),

		DestURL:        strings.TrimSpace(os.Getenv("DEST_URL")),
		DestServiceKey: strings.TrimSpace(os.Getenv("DEST_SERVICE_KEY")),

		S3Bucket:        strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3Region:        strings.TrimSpace(os.Getenv("S3_REGION")),
		S3Profile:       strings.TrimSpace(os.Getenv("S3_PROFILE")),
		S3Prefix:        strings.TrimSpace(os.Getenv("S3_PREFIX")),
		S3UsePathStyle:  strings.EqualFold(strings.TrimSpace(os.Getenv("S3_USE_PATH_STYLE")), "true"),
		S3PublicBaseURL: strings.TrimSpace(os.Getenv("S3_PUBLIC_BASE_URL")),

		RedisAddr: strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPass: os.Getenv("REDIS_PASS"),
		RedisDB:   GetEnvIntOrDefault("REDIS_DB", 0),

		KafkaTopic: strings.TrimSpace(os.Getenv("KAFKA_TOPIC")),
	}

	if brokers := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	return cfg
}

// ValidateSource checks the settings every run needs. A failure here is
// fatal to the whole run and must surface before any record is processed.
func (c *Config) ValidateSource() error {
	var missing []string
	if c.SourceToken == "" {
		missing = append(missing, "SOURCE_TOKEN")
	}
	if c.SourceCollection == "" {
		missing = append(missing, "SOURCE_COLLECTION_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ValidateDestination checks the settings a live (non-dry-run) import needs.
func (c *Config) ValidateDestination() error {
	var missing []string
	if c.DestURL == "" {
		missing = append(missing, "DEST_URL")
	}
	if c.DestServiceKey == "" {
		missing = append(missing, "DEST_SERVICE_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// GetEnvOrDefault returns the value of an environment variable or a default value.
func GetEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// GetEnvIntOrDefault returns an integer environment variable or a default value.
func GetEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
