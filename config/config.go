package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"sjsage522/mpcontacts/helpers"
)

// Config represents the application configuration
type Config struct {
	// Redis configuration
	RedisEnabled         bool
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration; empty keeps rate-limit blocks in process memory
	MemcacheAddr string
	BlockTime    time.Duration

	// Crawler configuration
	CrawlInterval    time.Duration
	Parallelism      int
	RandomDelay      time.Duration
	RequestTimeout   time.Duration
	RespectRobotsTxt bool
	UserAgent        string
	ProxyURLs        []string

	// Profiles
	Jurisdictions []string
	ProfilesFile  string

	// Output file (.jsonl, .json or .csv); empty disables the file publisher
	OutputPath string

	// Logging
	LogLevel    string
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	return Config{
		RedisEnabled:         getEnvBool("REDIS_ENABLED", false),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		RedisStream:          getEnv("REDIS_STREAM", "contacts"),
		RedisStreamCount:     getEnvInt("REDIS_STREAM_COUNT", 1),
		RedisStreamMaxLength: getEnvInt("REDIS_STREAM_MAX_LENGTH", 10000),
		MemcacheAddr:         os.Getenv("MEMCACHE_ADDR"),
		BlockTime:            time.Duration(getEnvInt("BLOCK_SECONDS", 500)) * time.Second,
		CrawlInterval:        time.Duration(getEnvInt("CRAWL_INTERVAL_SECONDS", 0)) * time.Second,
		Parallelism:          getEnvInt("PARALLELISM", 2),
		RandomDelay:          time.Duration(getEnvInt("RANDOM_DELAY_MS", 1000)) * time.Millisecond,
		RequestTimeout:       time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second,
		RespectRobotsTxt:     getEnvBool("RESPECT_ROBOTS_TXT", true),
		UserAgent:            os.Getenv("USER_AGENT"),
		ProxyURLs:            helpers.SplitList(os.Getenv("PROXY_URLS")),
		Jurisdictions:        helpers.SplitList(os.Getenv("JURISDICTIONS")),
		ProfilesFile:         os.Getenv("PROFILES_FILE"),
		OutputPath:           getEnv("OUTPUT_PATH", "contacts.jsonl"),
		LogLevel:             os.Getenv("LOG_LEVEL"),
		Environment:          getEnv("MPCONTACTS_ENVIRONMENT", "development"),
	}
}

// Validate rejects configurations the worker cannot run with
func (c Config) Validate() error {
	if c.RedisEnabled {
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when REDIS_ENABLED is set")
		}
		if c.RedisStreamCount < 1 {
			return fmt.Errorf("REDIS_STREAM_COUNT must be at least 1, got %d", c.RedisStreamCount)
		}
		if c.RedisStreamMaxLength < 1 {
			return fmt.Errorf("REDIS_STREAM_MAX_LENGTH must be at least 1, got %d", c.RedisStreamMaxLength)
		}
	}
	if !c.RedisEnabled && c.OutputPath == "" {
		return fmt.Errorf("no record publisher configured: set OUTPUT_PATH or REDIS_ENABLED")
	}
	if c.OutputPath != "" {
		switch ext := strings.ToLower(fileExt(c.OutputPath)); ext {
		case ".jsonl", ".json", ".csv":
		default:
			return fmt.Errorf("OUTPUT_PATH must end in .jsonl, .json or .csv, got %q", c.OutputPath)
		}
	}
	if c.Parallelism < 1 {
		return fmt.Errorf("PARALLELISM must be at least 1, got %d", c.Parallelism)
	}
	if c.CrawlInterval < 0 || c.RandomDelay < 0 || c.BlockTime < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

func fileExt(path string) string {
	i := strings.LastIndex(path, ".")
	if i < 0 || strings.ContainsAny(path[i:], `/\`) {
		return ""
	}
	return path[i:]
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return b
}
