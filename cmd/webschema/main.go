package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/GriffinCanCode/webschema/internal/config"
	"github.com/GriffinCanCode/webschema/internal/document"
	"github.com/GriffinCanCode/webschema/internal/fetch"
	"github.com/GriffinCanCode/webschema/internal/logging"
	"github.com/GriffinCanCode/webschema/internal/monitoring"
	"github.com/GriffinCanCode/webschema/internal/schema"
	"github.com/GriffinCanCode/webschema/internal/schemafile"
	"github.com/GriffinCanCode/webschema/internal/scraper"
	"github.com/bytedance/sonic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "webschema: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("webschema", flag.ContinueOnError)
	flags.SetOutput(stderr)
	schemaPath := flags.String("schema", "", "Schema file (.yaml, .yml or .toml)")
	findKey := flags.String("find", "", "Print only the record with this key")
	count := flags.Bool("count", false, "Print the record count")
	logLevel := flags.String("log-level", "", "Log level (overrides LOG_LEVEL)")
	dumpMetrics := flags.Bool("metrics", false, "Write resolution metrics to stderr on exit")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *schemaPath == "" {
		flags.Usage()
		return errors.New("-schema is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Development = cfg.Logging.Development
	logger, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	file, err := schemafile.Load(*schemaPath)
	if err != nil {
		return err
	}
	builder, err := file.Builder()
	if err != nil {
		return fmt.Errorf("%s: %w", *schemaPath, err)
	}

	registry := prometheus.NewRegistry()
	s := scraper.New(file.Name, builder,
		scraper.WithFetcher(newFetcher(cfg.Fetch, logger)),
		scraper.WithParser(&document.Parser{MaxBytes: int(cfg.Fetch.MaxBytes)}),
		scraper.WithLogger(logger.For("scraper")),
		scraper.WithMetrics(monitoring.NewMetrics(registry)),
	)
	if *dumpMetrics {
		defer writeMetrics(registry, stderr, logger.For("metrics"))
	}

	switch {
	case *count:
		n, err := s.Count(ctx)
		if err != nil {
			return err
		}
		return writeJSON(stdout, n)

	case *findKey != "":
		def, err := builder.Build()
		if err != nil {
			return err
		}
		key, err := parseKey(def.KeyProperty().Type, *findKey)
		if err != nil {
			return err
		}
		record, err := s.Find(ctx, key)
		if err != nil {
			return err
		}
		out, err := recordJSON(record)
		if err != nil {
			return err
		}
		return writeJSON(stdout, out)

	default:
		records, err := s.All(ctx)
		if err != nil {
			return err
		}
		out := make([]map[string]any, 0, len(records))
		for _, r := range records {
			m, err := recordJSON(r)
			if err != nil {
				return err
			}
			out = append(out, m)
		}
		return writeJSON(stdout, out)
	}
}

func newFetcher(cfg config.FetchConfig, logger *logging.Logger) fetch.Fetcher {
	opts := fetch.DefaultOptions()
	opts.Timeout = cfg.Timeout
	opts.Retries = cfg.Retries
	opts.RetryWaitMin = cfg.RetryWaitMin
	opts.RetryWaitMax = cfg.RetryWaitMax
	opts.RateLimit = cfg.RateLimit
	opts.UserAgent = cfg.UserAgent
	opts.MaxBytes = cfg.MaxBytes

	return fetch.NewRouter(
		fetch.NewHTTPFetcher(opts, logger.For("fetch")),
		fetch.NewFileFetcher(cfg.MaxBytes),
	)
}

// parseKey converts a -find argument to the key property's type.
func parseKey(t schema.Type, raw string) (any, error) {
	switch t {
	case schema.TypeInteger:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer key %q: %w", raw, err)
		}
		return v, nil
	case schema.TypeFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float key %q: %w", raw, err)
		}
		return v, nil
	case schema.TypeNode:
		return nil, errors.New("node-typed keys cannot be given on the command line")
	default:
		return raw, nil
	}
}

// recordJSON resolves every property into JSON-friendly values.
func recordJSON(r *scraper.Record) (map[string]any, error) {
	values, err := r.Values()
	if err != nil {
		return nil, err
	}

	for name, v := range values {
		switch val := v.(type) {
		case *document.Result:
			values[name] = val.SafeHTML()
		case float64:
			if math.IsInf(val, 0) || math.IsNaN(val) {
				values[name] = strconv.FormatFloat(val, 'g', -1, 64)
			}
		}
	}
	return values, nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func writeMetrics(g prometheus.Gatherer, w io.Writer, logger *zap.Logger) {
	families, err := g.Gather()
	if err != nil {
		logger.Warn("Failed to gather metrics", zap.Error(err))
		return
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			logger.Warn("Failed to write metrics", zap.Error(err))
			return
		}
	}
}
