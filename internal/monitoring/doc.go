// Package monitoring exposes Prometheus metrics for document resolution.
//
// Metrics are registered on a caller-supplied registerer so that several scrapers,
// or tests, can each own a registry.
//
// Metric Types:
//   - webschema_fetch_total: fetches by schema and outcome
//   - webschema_fetch_duration_seconds: fetch plus parse latency
//   - webschema_records: records currently cached per schema
//   - webschema_resets_total: cache resets per schema
package monitoring
