// Package config provides 12-factor configuration management for webschema.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables.
//
// Configuration Sections:
//   - Fetch: document retrieval (timeout, retries, rate limit, size cap)
//   - Logging: Log level and output format
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("fetch timeout %s\n", cfg.Fetch.Timeout)
//
// Environment Variables:
//   - FETCH_TIMEOUT, FETCH_RETRIES, FETCH_RETRY_WAIT_MIN, FETCH_RETRY_WAIT_MAX
//   - FETCH_RATE_LIMIT, FETCH_USER_AGENT, FETCH_MAX_BYTES
//   - LOG_LEVEL, LOG_DEV
package config
