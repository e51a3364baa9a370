// Package scraper resolves a schema into records.
//
// A Scraper owns one schema builder and a cache of records. The first call to All
// validates and seals the schema, fetches the resource, parses it, partitions it with
// the base selector and wraps every item node in a Record. The records are memoized
// until Reset; concurrent callers share a single fetch.
//
// Records resolve properties on demand: the property's selector is evaluated against
// the record's node and the result is coerced to the declared type.
//
// Example Usage:
//
//	articles := scraper.New("articles", b, scraper.WithLogger(logger))
//	n, err := articles.Count(ctx)
//	a, err := articles.Find(ctx, "Tech Investment the Wise Way")
//	desc, err := a.GetString("description")
package scraper
