package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	// ScraperAPI structured Amazon endpoints
	ScraperAPIKey   string
	AmazonDomain    string
	SearchEndpoint  string
	ProductEndpoint string

	// RSS deal feeds (comma-separated in the environment)
	FeedURLs []string

	// HTML deals page
	DealsPageURL string

	// Per-source fetch deadline
	SourceTimeout time.Duration

	// Memcache configuration
	MemcacheAddr string

	// Redis configuration (optional deal stream)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Background refresh configuration
	RefreshInterval time.Duration

	// HTTP listen port
	Port string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	sourceTimeout, _ := strconv.Atoi(getEnv("SOURCE_TIMEOUT_SECONDS", "30"))
	refreshInterval, _ := strconv.Atoi(getEnv("REFRESH_INTERVAL_SECONDS", "300"))

	return Config{
		ScraperAPIKey:        os.Getenv("SCRAPER_API_KEY"),
		AmazonDomain:         getEnv("AMAZON_DOMAIN", "amazon.in"),
		SearchEndpoint:       getEnv("SEARCH_ENDPOINT", "https://api.scraperapi.com/structured/amazon/search"),
		ProductEndpoint:      getEnv("PRODUCT_ENDPOINT", "https://api.scraperapi.com/structured/amazon/product"),
		FeedURLs:             splitList(os.Getenv("RSS_FEED_URLS")),
		DealsPageURL:         os.Getenv("DEALS_PAGE_URL"),
		SourceTimeout:        time.Duration(sourceTimeout) * time.Second,
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", "localhost:11211"),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "deals"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLen,
		RefreshInterval:      time.Duration(refreshInterval) * time.Second,
		Port:                 getEnv("PORT", "3000"),
		Environment:          getEnv("DEALRADAR_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.SourceTimeout <= 0 {
		return fmt.Errorf("source timeout must be positive, got %v", c.SourceTimeout)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %v", c.RefreshInterval)
	}
	for _, endpoint := range []string{c.SearchEndpoint, c.ProductEndpoint} {
		u, err := url.Parse(endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid endpoint URL: %q", endpoint)
		}
	}
	for _, feed := range c.FeedURLs {
		u, err := url.Parse(feed)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid feed URL: %q", feed)
		}
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// splitList splits a comma-separated environment value into trimmed entries
func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
