package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hoopwire/hoopwire/app/database"
	"github.com/hoopwire/hoopwire/app/news"
)

// ItemError records a single item that failed to persist.
type ItemError struct {
	ID      string
	Message string
}

// SaveResult is the outcome of one batch persistence call. For every
// well-formed batch SavedCount + SkippedCount + len(Errors) equals the
// batch length.
type SaveResult struct {
	SavedCount   int
	SkippedCount int
	Errors       []ItemError
}

// Persister writes normalized news items to storage, skipping items whose
// external id is already present.
type Persister struct {
	repo database.NewsRepository
	now  func() time.Time
}

func NewPersister(repo database.NewsRepository) *Persister {
	return &Persister{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// SaveBatch persists a batch item by item. A storage failure on one item is
// recorded and the batch continues; the returned error is non-nil only for
// catastrophic preconditions (missing repository, cancelled context).
//
// The existence check and the insert are two statements, not an atomic
// upsert. Concurrent batches can both pass the check for a new id; the
// unique constraint on external_id turns the losing insert into a per-item
// error rather than a duplicate row.
func (p *Persister) SaveBatch(ctx context.Context, items []news.Item) (SaveResult, error) {
	var result SaveResult

	if p.repo == nil {
		return result, fmt.Errorf("no repository configured")
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		exists, err := p.repo.ExistsByExternalID(item.ID)
		if err != nil {
			result.Errors = append(result.Errors, ItemError{ID: item.ID, Message: err.Error()})
			continue
		}

		if exists {
			result.SkippedCount++
			continue
		}

		record := database.NewItem{
			ExternalID:  item.ID,
			Title:       item.Title,
			Description: item.Description,
			SourceName:  item.Source.String(),
			SourceURL:   item.Link,
			Category:    string(item.Category),
			PublishedAt: item.PublishedAt,
			ScrapedAt:   p.now(),
		}

		if err := p.repo.Insert(record); err != nil {
			result.Errors = append(result.Errors, ItemError{ID: item.ID, Message: err.Error()})
			continue
		}

		slog.Debug("Saved news item", "id", item.ID, "category", item.Category, "title", item.Title)
		result.SavedCount++
	}

	return result, nil
}
