// Package fetch retrieves raw documents by location.
//
// Locations are routed by scheme:
//   - http, https: HTTPFetcher (resty over go-retryablehttp, rate limited, circuit breaker)
//   - file or a bare path: FileFetcher (.gz and .zst are decompressed)
//
// Retries, timeouts and rate limits live here; callers see either the document bytes or
// an error describing why the location could not be read.
//
// Example Usage:
//
//	f := fetch.NewRouter(fetch.NewHTTPFetcher(fetch.DefaultOptions(), logger), fetch.NewFileFetcher(0))
//	data, err := f.Fetch(ctx, "https://example.com/topics.html")
package fetch
