package scraper

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hoopwire/hoopwire/app/news"
)

// Fetcher is the read side of a scraping run. Satisfied by *Scraper.
type Fetcher interface {
	FetchAll(ctx context.Context) []news.Item
}

var _ Fetcher = (*Scraper)(nil)

// RunScrapingJob performs one complete run: fetch every registered feed,
// persist the merged batch, log the outcome. Per-feed and per-item failures
// are absorbed into the result; the returned error is catastrophic only.
func RunScrapingJob(ctx context.Context, fetcher Fetcher, persister *Persister) (SaveResult, error) {
	runID := uuid.New().String()

	slog.Info("Starting scraping job", "run_id", runID)

	items := fetcher.FetchAll(ctx)
	slog.Info("Fetched news items", "run_id", runID, "count", len(items))

	result, err := persister.SaveBatch(ctx, items)
	if err != nil {
		slog.Error("Scraping job failed", "run_id", runID, "error", err)
		return result, err
	}

	slog.Info("Scraping job completed",
		"run_id", runID,
		"saved", result.SavedCount,
		"skipped", result.SkippedCount,
		"errors", len(result.Errors))

	for _, itemErr := range result.Errors {
		slog.Error("Failed to save item", "run_id", runID, "id", itemErr.ID, "error", itemErr.Message)
	}

	return result, nil
}
