package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrUnsupportedScheme = errors.New("unsupported location scheme")
	ErrTooLarge          = errors.New("document exceeds maximum size")
)

// Fetcher retrieves the raw bytes at a location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, location string) ([]byte, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, location string) ([]byte, error) {
	return f(ctx, location)
}

// StatusError reports a non-success HTTP response.
type StatusError struct {
	Location   string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %s", e.Location, e.Status)
}

// Router dispatches a location to the fetcher for its scheme.
type Router struct {
	HTTP Fetcher
	File Fetcher
}

// NewRouter creates a router. A nil fetcher disables its schemes.
func NewRouter(httpFetcher, fileFetcher Fetcher) *Router {
	return &Router{HTTP: httpFetcher, File: fileFetcher}
}

// Fetch routes location by scheme.
func (r *Router) Fetch(ctx context.Context, location string) ([]byte, error) {
	var target Fetcher
	switch scheme := schemeOf(location); scheme {
	case "http", "https":
		target = r.HTTP
	case "file", "":
		target = r.File
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}

	if target == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, location)
	}
	return target.Fetch(ctx, location)
}

func schemeOf(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Scheme)
}
