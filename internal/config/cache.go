package config

import (
	"strconv"
	"strings"
	"time"
)

// CacheConfig defines settings for the response cache middleware wrapped
// around the public browse endpoints. When Enabled is false or no redis
// client is available, caching is disabled. Methods lists the HTTP
// methods to cache; KeyStrategy determines which parts of the request
// contribute to the cache key.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	KeyStrategy  string
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig,
// with defaults tuned for the movie/showtime browse lists.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      strOr("CACHE_ENABLED", "true") == "true",
		Methods:      parseMethods(strOr("CACHE_METHODS", "GET")),
		TTL:          durOr("CACHE_TTL", 60*time.Second),
		KeyStrategy:  strOr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       strOr("CACHE_PREFIX", "cineghar:cache"),
		MaxBodyBytes: atoiOr("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}

func atoiOr(key string, def int) int {
	if n, err := strconv.Atoi(strOr(key, "")); err == nil {
		return n
	}
	return def
}

func durOr(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(strOr(key, "")); err == nil {
		return d
	}
	return def
}
