package tasks

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/hoopwire/hoopwire/app/scraper"
)

// ScrapeTask runs one complete fetch-and-persist cycle. The shared inFlight
// guard serializes runs: a tick firing while the previous run is still active
// is skipped rather than queued.
type ScrapeTask struct {
	Task
	fetcher   scraper.Fetcher
	persister *scraper.Persister
	inFlight  *atomic.Bool
}

func NewScrapeTask(fetcher scraper.Fetcher, persister *scraper.Persister, inFlight *atomic.Bool) *ScrapeTask {
	return &ScrapeTask{
		Task:      NewTask(TaskTypeScrape),
		fetcher:   fetcher,
		persister: persister,
		inFlight:  inFlight,
	}
}

func (t *ScrapeTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if t.inFlight != nil {
		if !t.inFlight.CompareAndSwap(false, true) {
			slog.Info("Previous scraping run still active, skipping", "id", t.ID)
			return nil
		}
		defer t.inFlight.Store(false)
	}

	result, err := scraper.RunScrapingJob(ctx, t.fetcher, t.persister)
	if err != nil {
		return err
	}

	slog.Info("Task completed",
		"type", "Scrape",
		"id", t.ID,
		"duration", t.GetDuration(),
		"saved", result.SavedCount,
		"skipped", result.SkippedCount,
		"errors", len(result.Errors))

	return nil
}
