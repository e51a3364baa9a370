package scraper

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/GriffinCanCode/webschema/internal/document"
	"github.com/GriffinCanCode/webschema/internal/fetch"
	"github.com/GriffinCanCode/webschema/internal/monitoring"
	"github.com/GriffinCanCode/webschema/internal/schema"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// ErrNotFound is returned by Find when no record has the requested key.
var ErrNotFound = errors.New("record not found")

// Parser turns fetched bytes into a document.
type Parser interface {
	Parse(data []byte) (*document.Document, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(data []byte) (*document.Document, error)

// Parse calls f.
func (f ParserFunc) Parse(data []byte) (*document.Document, error) {
	return f(data)
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithFetcher sets the document fetcher.
func WithFetcher(f fetch.Fetcher) Option {
	return func(s *Scraper) { s.fetcher = f }
}

// WithParser sets the document parser.
func WithParser(p Parser) Option {
	return func(s *Scraper) { s.parser = p }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scraper) { s.logger = l }
}

// WithMetrics enables metrics.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(s *Scraper) { s.metrics = m }
}

// Scraper resolves one schema into a cached list of records.
type Scraper struct {
	name    string
	builder *schema.Builder
	fetcher fetch.Fetcher
	parser  Parser
	logger  *zap.Logger
	metrics *monitoring.Metrics

	mu      sync.Mutex
	def     *schema.Definition
	doc     *document.Document
	records []*Record
	loaded  bool
}

// New creates a scraper for the schema declared on b. The name labels logs and metrics.
//
// Without WithFetcher, locations are fetched over HTTP(S) or read from disk.
func New(name string, b *schema.Builder, opts ...Option) *Scraper {
	s := &Scraper{
		name:    name,
		builder: b,
		parser:  document.NewParser(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.fetcher == nil {
		s.fetcher = fetch.NewRouter(
			fetch.NewHTTPFetcher(fetch.DefaultOptions(), s.logger.Named("fetch")),
			fetch.NewFileFetcher(document.DefaultMaxBytes),
		)
	}
	return s
}

// Name returns the schema name.
func (s *Scraper) Name() string {
	return s.name
}

// All returns the records of the document in document order.
//
// The first call validates the schema (schema.ErrConfiguration if resource, base or key
// is missing) and seals the builder. The result is cached: later calls return the same
// slice until Reset. Fetch and parse errors are returned unchanged and nothing is cached.
func (s *Scraper) All(ctx context.Context) ([]*Record, error) {
	records, _, err := s.resolve(ctx)
	return records, err
}

// Count returns the number of records.
func (s *Scraper) Count(ctx context.Context) (int, error) {
	records, err := s.All(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// Reset drops the cached document and records. The schema is unaffected.
func (s *Scraper) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = nil
	s.records = nil
	s.loaded = false

	s.metrics.RecordReset(s.name)
	s.logger.Debug("Reset record cache", zap.String("schema", s.name))
}

// Find returns the first record whose key property equals key. The key is compared
// using the key property's type: a string for string keys, any Go integer or float for
// numeric keys, a *document.Result or *html.Node for node keys.
func (s *Scraper) Find(ctx context.Context, key any) (*Record, error) {
	records, def, err := s.resolve(ctx)
	if err != nil {
		return nil, err
	}

	prop := def.KeyProperty()
	for _, r := range records {
		v, err := r.Get(prop.Name)
		if err != nil {
			return nil, err
		}
		if keyEqual(prop.Type, v, key) {
			return r, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Scraper) resolve(ctx context.Context) ([]*Record, *schema.Definition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.records, s.def, nil
	}

	if s.def == nil {
		def, err := s.builder.Build()
		if err != nil {
			return nil, nil, err
		}
		s.builder.Seal()
		s.def = def
	}

	cycle := uuid.NewString()
	start := time.Now()
	logger := s.logger.With(
		zap.String("schema", s.name),
		zap.String("cycle", cycle),
		zap.String("resource", s.def.Resource()))

	data, err := s.fetcher.Fetch(ctx, s.def.Resource())
	if err != nil {
		s.metrics.RecordResolution(s.name, monitoring.OutcomeFetchError, time.Since(start), 0)
		logger.Warn("Fetch failed", zap.Error(err))
		return nil, nil, err
	}

	doc, err := s.parser.Parse(data)
	if err != nil {
		s.metrics.RecordResolution(s.name, monitoring.OutcomeParseError, time.Since(start), 0)
		logger.Warn("Parse failed", zap.Error(err))
		return nil, nil, err
	}

	items, err := query(doc.Root(), s.def.Base())
	if err != nil {
		s.metrics.RecordResolution(s.name, monitoring.OutcomeQueryError, time.Since(start), 0)
		logger.Warn("Base selector failed", zap.Error(err))
		return nil, nil, err
	}

	records := make([]*Record, 0, items.Len())
	for _, n := range items.Nodes() {
		records = append(records, newRecord(s.def, n))
	}

	s.doc = doc
	s.records = records
	s.loaded = true

	s.metrics.RecordResolution(s.name, monitoring.OutcomeSuccess, time.Since(start), len(records))
	logger.Info("Resolved records",
		zap.Int("count", len(records)),
		zap.Int("bytes", len(data)),
		zap.String("charset", doc.Charset()),
		zap.Duration("duration", time.Since(start)))

	return records, s.def, nil
}

func keyEqual(t schema.Type, got, want any) bool {
	switch t {
	case schema.TypeString:
		w, ok := want.(string)
		return ok && got.(string) == w
	case schema.TypeInteger:
		w, ok := toInt64(want)
		return ok && got.(int64) == w
	case schema.TypeFloat:
		w, ok := toFloat64(want)
		return ok && got.(float64) == w
	case schema.TypeNode:
		res := got.(*document.Result)
		switch w := want.(type) {
		case *document.Result:
			return res.Equal(w)
		case *html.Node:
			return res.Len() == 1 && res.First() == w
		}
	}
	return false
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), n <= math.MaxInt64
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), n <= math.MaxInt64
	case float32:
		return toInt64(float64(n))
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	if i, ok := toInt64(v); ok {
		return float64(i), true
	}
	return 0, false
}
