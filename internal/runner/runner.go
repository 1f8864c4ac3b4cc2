package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/Adda-Baaj/shifter-go/internal/logger"
	"github.com/Adda-Baaj/shifter-go/pkg/jobs"
	"github.com/Adda-Baaj/shifter-go/pkg/publishers"
)

// Service executes scrape jobs one after another and publishes each raw response.
type Service struct {
	scraper   Scraper
	publisher ResultPublisher
	log       logger.Logger
}

// Summary reports the outcome of a run.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
}

// NewService wires a runner with the API client and the result publisher.
func NewService(scraper Scraper, pub ResultPublisher, log logger.Logger) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Service{scraper: scraper, publisher: pub, log: log}
}

// Run executes every job once. Failed jobs do not stop the run; their errors are joined.
// A cancelled context stops the run before the next job.
func (s *Service) Run(ctx context.Context, list []jobs.Job) (Summary, error) {
	if s == nil || s.scraper == nil {
		return Summary{}, fmt.Errorf("runner service is not initialized")
	}
	if len(list) == 0 {
		return Summary{}, fmt.Errorf("no jobs configured")
	}

	sum := Summary{Total: len(list)}
	var errs []error
	for _, job := range list {
		select {
		case <-ctx.Done():
			errs = append(errs, ctx.Err())
			return sum, errors.Join(errs...)
		default:
		}

		if err := s.runJob(ctx, job); err != nil {
			sum.Failed++
			errs = append(errs, err)
			s.log.ErrorObj("scrape job failed", "job_error", map[string]any{
				"job_id": job.ID,
				"error":  err.Error(),
			})
			continue
		}
		sum.Succeeded++
	}

	return sum, errors.Join(errs...)
}

func (s *Service) runJob(ctx context.Context, job jobs.Job) error {
	if unknown := job.UnknownParams(); len(unknown) > 0 {
		s.log.WarnObj("job uses undocumented parameters", "job_params", map[string]any{
			"job_id": job.ID,
			"params": unknown,
		})
	}

	resp, err := s.scraper.Do(ctx, job.Method, job.Builder())
	if err != nil {
		return fmt.Errorf("job %s: %w", job.ID, err)
	}

	s.log.InfoObj("scrape job completed", "job_result", map[string]any{
		"job_id":     job.ID,
		"method":     job.Method,
		"status":     resp.StatusCode(),
		"body_bytes": len(resp.Body()),
	})

	if s.publisher == nil {
		return nil
	}
	res := publishers.NewResult(job.ID, job.Method, resp.StatusCode(), resp.Header(), resp.Body())
	if _, err := s.publisher.Publish(ctx, res); err != nil {
		return fmt.Errorf("job %s publish: %w", job.ID, err)
	}
	return nil
}
