package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Adda-Baaj/shifter-go/internal/config"
	"github.com/Adda-Baaj/shifter-go/internal/logger"
	"github.com/Adda-Baaj/shifter-go/internal/runner"
	"github.com/Adda-Baaj/shifter-go/pkg/jobs"
	"github.com/Adda-Baaj/shifter-go/pkg/publishers"
	"github.com/Adda-Baaj/shifter-go/pkg/scrapeapi"
)

// ErrMissingAPIKey is returned when no API key was configured.
var ErrMissingAPIKey = errors.New("api key is required (set SHIFTER_API_KEY or --api-key)")

// NewClient builds the scraping API client from config.
func NewClient(cfg *config.Config, log logger.Logger) (*scrapeapi.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	return scrapeapi.NewClient(cfg.APIKey,
		scrapeapi.WithBaseURL(cfg.BaseURL),
		scrapeapi.WithTimeout(cfg.RequestTimeout),
		scrapeapi.WithLogger(log),
	), nil
}

// Runner executes a jobs file against the API and publishes each result.
type Runner struct {
	cfg     *config.Config
	jobs    *jobs.Registry
	fanout  *publishers.Fanout
	service *runner.Service
	log     logger.Logger
}

// NewRunner builds a batch runtime from config files. Stdout sinks, including the
// default used when no sinks file is configured, write JSON lines to out.
func NewRunner(ctx context.Context, cfg *config.Config, log logger.Logger, out io.Writer) (*Runner, error) {
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := NewClient(cfg, log)
	if err != nil {
		return nil, err
	}

	jobReg, err := jobs.Load(cfg.JobsFile)
	if err != nil {
		return nil, fmt.Errorf("load jobs: %w", err)
	}
	jobList := jobReg.All()
	jobIDs := make([]string, 0, len(jobList))
	for _, j := range jobList {
		jobIDs = append(jobIDs, j.ID)
	}
	log.InfoObj("jobs loaded", "jobs_meta", map[string]any{
		"count": len(jobIDs),
		"ids":   jobIDs,
	})

	fanout, err := buildFanout(ctx, cfg, log, out)
	if err != nil {
		return nil, err
	}

	return &Runner{
		cfg:     cfg,
		jobs:    jobReg,
		fanout:  fanout,
		service: runner.NewService(client, fanout, log),
		log:     log,
	}, nil
}

func buildFanout(ctx context.Context, cfg *config.Config, log logger.Logger, out io.Writer) (*publishers.Fanout, error) {
	if cfg.SinksFile == "" {
		log.InfoObj("no sinks file configured; writing results to stdout", "sinks_meta", map[string]any{
			"type": publishers.TypeStdout,
		})
		return publishers.NewFanout([]publishers.Publisher{publishers.NewStdoutPublisher("stdout", out)}), nil
	}

	reg, err := publishers.LoadRegistry(cfg.SinksFile)
	if err != nil {
		return nil, fmt.Errorf("load sinks: %w", err)
	}
	enabled := reg.Enabled()
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no sinks enabled in %s", cfg.SinksFile)
	}

	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(publishers.WithStdoutWriter(out)), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build sinks: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, c := range enabled {
		summaries = append(summaries, map[string]string{"id": c.ID, "type": c.Type})
	}
	log.InfoObj("sinks loaded", "sinks_meta", map[string]any{
		"count": len(summaries),
		"sinks": summaries,
	})
	return publishers.NewFanout(pubs), nil
}

// Run executes every job once and releases the sinks.
func (r *Runner) Run(ctx context.Context) (runner.Summary, error) {
	if r == nil || r.service == nil {
		return runner.Summary{}, fmt.Errorf("runner is not initialized")
	}
	defer r.closeSinks()

	start := time.Now()
	sum, err := r.service.Run(ctx, r.jobs.All())
	r.log.InfoObj("run completed", "run_meta", map[string]any{
		"jobs":       sum.Total,
		"succeeded":  sum.Succeeded,
		"failed":     sum.Failed,
		"sinks":      r.fanout.Size(),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return sum, err
}

func (r *Runner) closeSinks() {
	if err := r.fanout.Close(); err != nil {
		r.log.ErrorObj("sinks close failed", "error", err)
	}
}
