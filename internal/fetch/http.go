package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Options configures an HTTPFetcher.
type Options struct {
	Timeout      time.Duration
	Retries      int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// RateLimit is requests per second; zero or less disables limiting
	RateLimit float64
	UserAgent string
	// MaxBytes caps the response body; zero disables the cap
	MaxBytes int64
	Breaker  BreakerSettings
}

// DefaultOptions returns conservative fetch settings.
func DefaultOptions() Options {
	return Options{
		Timeout:      30 * time.Second,
		Retries:      3,
		RetryWaitMin: 1 * time.Second,
		RetryWaitMax: 30 * time.Second,
		UserAgent:    "webschema/1.0",
		MaxBytes:     10 * 1024 * 1024,
		Breaker: BreakerSettings{
			Failures: 10,
			Cooldown: 30 * time.Second,
		},
	}
}

// HTTPFetcher fetches documents over HTTP(S).
type HTTPFetcher struct {
	client  *resty.Client
	limiter *rate.Limiter
	breaker *Breaker
	logger  *zap.Logger
}

// NewHTTPFetcher creates an HTTP fetcher. Retries are performed by go-retryablehttp
// underneath resty, so one Fetch call is one logical request.
func NewHTTPFetcher(opts Options, logger *zap.Logger) *HTTPFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.Retries
	retryClient.RetryWaitMin = opts.RetryWaitMin
	retryClient.RetryWaitMax = opts.RetryWaitMax
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = retryLogger{logger.Named("retry").Sugar()}

	client := resty.NewWithClient(retryClient.StandardClient()).
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if opts.MaxBytes > 0 {
		// resty stops reading once the limit is crossed
		client.SetResponseBodyLimit(int(opts.MaxBytes))
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	breakerLogger := logger.Named("breaker")
	settings := opts.Breaker
	settings.OnStateChange = func(from, to State) {
		breakerLogger.Warn("Circuit breaker state changed",
			zap.Stringer("from", from),
			zap.Stringer("to", to))
	}

	return &HTTPFetcher{
		client:  client,
		limiter: limiter,
		breaker: NewBreaker(settings),
		logger:  logger,
	}
}

// Breaker exposes the fetcher's circuit breaker.
func (f *HTTPFetcher) Breaker() *Breaker {
	return f.breaker
}

// Fetch performs a GET request and returns the response body. Responses outside the
// 2xx range are reported as *StatusError.
func (f *HTTPFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}
	if err := f.breaker.Allow(); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", location, err)
	}

	start := time.Now()
	resp, err := f.client.R().SetContext(ctx).Get(location)
	if errors.Is(err, resty.ErrResponseBodyTooLarge) {
		f.breaker.Success()
		return nil, fmt.Errorf("fetch %s: %w", location, ErrTooLarge)
	}
	if err != nil {
		f.breaker.Failure()
		return nil, fmt.Errorf("fetch %s: %w", location, err)
	}

	f.logger.Debug("Fetched document",
		zap.String("location", location),
		zap.Int("status", resp.StatusCode()),
		zap.Int("bytes", len(resp.Body())),
		zap.Duration("duration", time.Since(start)))

	if resp.IsError() {
		if resp.StatusCode() >= http.StatusInternalServerError {
			f.breaker.Failure()
		} else {
			f.breaker.Success()
		}
		return nil, &StatusError{
			Location:   location,
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
		}
	}
	f.breaker.Success()
	return resp.Body(), nil
}

// retryLogger routes go-retryablehttp logging through zap.
type retryLogger struct {
	s *zap.SugaredLogger
}

func (l retryLogger) Error(msg string, keysAndValues ...interface{}) { l.s.Errorw(msg, keysAndValues...) }
func (l retryLogger) Info(msg string, keysAndValues ...interface{}) { l.s.Infow(msg, keysAndValues...) }
func (l retryLogger) Debug(msg string, keysAndValues ...interface{}) { l.s.Debugw(msg, keysAndValues...) }
func (l retryLogger) Warn(msg string, keysAndValues ...interface{}) { l.s.Warnw(msg, keysAndValues...) }
