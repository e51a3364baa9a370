// Package main is the webschema command line tool.
//
// It loads a schema file, resolves it against the declared resource and prints the
// records as JSON on stdout. Logs go to stderr.
//
// Configuration:
//   - Environment variables (FETCH_*, LOG_LEVEL, LOG_DEV)
//   - CLI flags (override env vars)
//
// Usage:
//
//	# Print every record
//	./webschema -schema articles.yaml
//
//	# Print the record whose key is "Cloud Costs"
//	./webschema -schema articles.yaml -find "Cloud Costs"
//
//	# Print the record count and the resolution metrics
//	./webschema -schema articles.toml -count -metrics
//
// Node-typed properties are printed as sanitized HTML.
package main
