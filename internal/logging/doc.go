// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Components log through named children of one root logger ("scraper", "fetch", ...).
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.For("scraper").Info("Resolved records", zap.Int("count", 3))
package logging
