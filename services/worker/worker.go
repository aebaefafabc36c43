package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"sjsage522/mpcontacts/internal/contact"
	"sjsage522/mpcontacts/internal/crawler"
	"sjsage522/mpcontacts/logger"
	apperrors "sjsage522/mpcontacts/pkg/errors"
	"sjsage522/mpcontacts/services/publisher"

	"github.com/google/uuid"
)

// Result is the outcome of one jurisdiction in one round
type Result struct {
	Round        string        `json:"round"`
	Jurisdiction string        `json:"jurisdiction"`
	Stats        crawler.Stats `json:"stats"`
	Duration     time.Duration `json:"duration"`
	Err          error         `json:"-"`

	// Retryable marks failures expected to clear by the next round.
	Retryable bool `json:"retryable"`
}

// Worker handles the crawling and publishing process
type Worker struct {
	crawlers      []crawler.Crawler
	publisher     publisher.Publisher
	crawlInterval time.Duration
	environment   string
	log           *logger.Logger
}

// NewWorker creates a new worker. A zero crawlInterval makes Start run a
// single round.
func NewWorker(
	crawlers []crawler.Crawler,
	pub publisher.Publisher,
	crawlInterval time.Duration,
	environment string,
) *Worker {
	return &Worker{
		crawlers:      crawlers,
		publisher:     pub,
		crawlInterval: crawlInterval,
		environment:   environment,
		log:           logger.ForWorker(),
	}
}

// Start runs rounds until ctx is cancelled, sleeping crawlInterval between
// them. It returns the results of the last completed round.
func (w *Worker) Start(ctx context.Context) []Result {
	var last []Result
	for {
		last = w.RunOnce(ctx)
		if w.crawlInterval <= 0 {
			return last
		}

		timer := time.NewTimer(w.crawlInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return last
		case <-timer.C:
		}
	}
}

// RunOnce runs all the crawlers in parallel and then trims the streams.
// Results follow the crawler order and share a fresh round ID.
func (w *Worker) RunOnce(ctx context.Context) []Result {
	round := uuid.NewString()
	start := time.Now()
	results := make([]Result, len(w.crawlers))
	w.log.Debug().Str("round", round).Int("crawlers", len(w.crawlers)).Msg("Crawl round started")

	var wg sync.WaitGroup
	for i, c := range w.crawlers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = w.crawlAndPublish(ctx, round, c)
		}()
	}
	wg.Wait()

	if t, ok := w.publisher.(publisher.Trimmer); ok && ctx.Err() == nil {
		if err := t.TrimStreams(ctx); err != nil {
			w.log.Error().Err(err).Msg("Stream trimming failed")
		}
	}

	total, failed := Summarize(results)
	w.log.Info().
		Str("round", round).
		Dur("elapsed", time.Since(start)).
		Int("records", total.Records).
		Int("fetch_errors", total.FetchErrors).
		Strs("failed", failed).
		Msg("Crawl round finished")

	return results
}

// crawlAndPublish crawls one jurisdiction and publishes its records
func (w *Worker) crawlAndPublish(ctx context.Context, round string, c crawler.Crawler) Result {
	jurisdiction := c.GetJurisdiction()
	log := logger.ForJurisdiction(jurisdiction).WithField("round", round)

	var first sync.Once
	emit := func(ctx context.Context, rec contact.Record) error {
		if w.environment != "production" {
			first.Do(func() {
				log.Info().Interface("record", rec).Msg("First record")
			})
		}
		return w.publisher.Publish(ctx, jurisdiction, rec)
	}

	start := time.Now()
	stats, err := c.Crawl(ctx, emit)
	res := Result{
		Round:        round,
		Jurisdiction: jurisdiction,
		Stats:        stats,
		Duration:     time.Since(start),
		Err:          err,
	}

	var crawlErr *apperrors.CrawlerError
	res.Retryable = errors.As(err, &crawlErr) && crawlErr.IsRetryable()

	switch {
	case err == nil:
	case res.Retryable:
		log.Warn().Err(err).Dur("retry_in", w.crawlInterval).Msg("Crawl failed, retrying next round")
	case errors.Is(err, apperrors.ErrRateLimit):
		log.Warn().Err(err).Msg("Jurisdiction skipped")
	case errors.Is(err, context.Canceled):
		log.Info().Msg("Crawl cancelled")
	default:
		log.Error().Err(err).Str("crawler", c.GetName()).Msg("Crawl failed")
	}
	return res
}

// Summarize totals the stats of a round and lists the jurisdictions whose
// crawl failed
func Summarize(results []Result) (crawler.Stats, []string) {
	var (
		total  crawler.Stats
		failed []string
	)
	for _, r := range results {
		total.Add(r.Stats)
		if r.Err != nil {
			failed = append(failed, r.Jurisdiction)
		}
	}
	return total, failed
}
