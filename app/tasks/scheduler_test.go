package tasks

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hoopwire/hoopwire/app/cfg"
	"github.com/hoopwire/hoopwire/app/database"
	"github.com/hoopwire/hoopwire/app/news"
	"github.com/hoopwire/hoopwire/app/scraper"
)

type stubFetcher struct {
	items []news.Item
	calls atomic.Int32
}

func (s *stubFetcher) FetchAll(ctx context.Context) []news.Item {
	s.calls.Add(1)
	return s.items
}

func testConfig() *cfg.Cfg {
	return &cfg.Cfg{
		SchedulerInterval: 1,
		WorkerCount:       1,
		TranslationTarget: "ja",
	}
}

func sampleItems() []news.Item {
	return []news.Item{
		{
			ID:          "guid-1",
			Title:       "Lakers trade Russell Westbrook to Jazz",
			Link:        "https://x/1",
			Source:      news.SourceESPN,
			Category:    news.CategoryTrade,
			PublishedAt: time.Date(2024, 7, 22, 10, 0, 0, 0, time.UTC),
		},
	}
}

func TestScrapeTask_Execute(t *testing.T) {
	repo := database.NewMemoryRepository()
	fetcher := &stubFetcher{items: sampleItems()}
	task := NewScrapeTask(fetcher, scraper.NewPersister(repo), &atomic.Bool{})
	task.Start()

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	count, err := repo.GetItemCount()
	if err != nil {
		t.Fatalf("GetItemCount failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 stored item, got %d", count)
	}
}

func TestScrapeTask_SkipsWhenRunInFlight(t *testing.T) {
	repo := database.NewMemoryRepository()
	fetcher := &stubFetcher{items: sampleItems()}
	var inFlight atomic.Bool
	inFlight.Store(true)

	task := NewScrapeTask(fetcher, scraper.NewPersister(repo), &inFlight)
	task.Start()

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if fetcher.calls.Load() != 0 {
		t.Error("Expected the run to be skipped while another is active")
	}
	if !inFlight.Load() {
		t.Error("Skipped run must not release the guard it does not hold")
	}
}

func TestScrapeTask_ReleasesGuard(t *testing.T) {
	repo := database.NewMemoryRepository()
	fetcher := &stubFetcher{items: nil}
	var inFlight atomic.Bool

	task := NewScrapeTask(fetcher, scraper.NewPersister(repo), &inFlight)
	task.Start()

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if inFlight.Load() {
		t.Error("Guard should be released after the run completes")
	}
}

func TestScrapeTask_CancelledContext(t *testing.T) {
	repo := database.NewMemoryRepository()
	fetcher := &stubFetcher{items: sampleItems()}
	task := NewScrapeTask(fetcher, scraper.NewPersister(repo), &atomic.Bool{})
	task.Start()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := task.Execute(ctx); err == nil {
		t.Error("Expected error for cancelled context")
	}
}

type fakeTranslator struct {
	fail bool
}

func (f fakeTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if f.fail {
		return "", fmt.Errorf("translation service unavailable")
	}
	if text == "" {
		return "", nil
	}
	return "[" + targetLang + "] " + text, nil
}

func TestTranslateTask_Execute(t *testing.T) {
	repo := database.NewMemoryRepository()
	repo.AddExisting(database.StoredItem{
		ExternalID:        "guid-1",
		Title:             "Lakers trade Russell Westbrook to Jazz",
		TranslationStatus: "pending",
		PublishedAt:       time.Now().UTC(),
	})

	task := NewTranslateTask(repo, fakeTranslator{}, "ja")
	task.Start()

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	pending, err := repo.GetPendingTranslation(10)
	if err != nil {
		t.Fatalf("GetPendingTranslation failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("Expected no pending items after translation, got %d", len(pending))
	}

	items, err := repo.GetRecent(10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if items[0].TitleJA != "[ja] Lakers trade Russell Westbrook to Jazz" {
		t.Errorf("Unexpected translated title: %q", items[0].TitleJA)
	}
	if items[0].TranslationStatus != "completed" {
		t.Errorf("Expected completed status, got %q", items[0].TranslationStatus)
	}
}

func TestTranslateTask_FailureMarksItemFailed(t *testing.T) {
	repo := database.NewMemoryRepository()
	repo.AddExisting(database.StoredItem{
		ExternalID:        "guid-1",
		Title:             "Suns complete buyout with Chris Paul",
		TranslationStatus: "pending",
		PublishedAt:       time.Now().UTC(),
	})

	task := NewTranslateTask(repo, fakeTranslator{fail: true}, "ja")
	task.Start()

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Execute should absorb per-item failures, got %v", err)
	}

	items, err := repo.GetRecent(10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if items[0].TranslationStatus != "failed" {
		t.Errorf("Expected failed status, got %q", items[0].TranslationStatus)
	}
}

func TestScheduler_StartStop(t *testing.T) {
	cfg.Set(testConfig())

	repo := database.NewMemoryRepository()
	fetcher := &stubFetcher{items: sampleItems()}
	s := NewScheduler(fetcher, scraper.NewPersister(repo), repo, nil)

	s.Start()

	// The startup cycle enqueues one immediate scrape.
	deadline := time.After(3 * time.Second)
	for {
		count, err := repo.GetItemCount()
		if err != nil {
			t.Fatalf("GetItemCount failed: %v", err)
		}
		if count == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("Startup scrape never completed")
		case <-time.After(10 * time.Millisecond):
		}
	}

	s.Stop()

	if fetcher.calls.Load() == 0 {
		t.Error("Expected at least one fetch from the startup scrape")
	}
}

func TestScheduler_EnqueueAfterStopFails(t *testing.T) {
	cfg.Set(testConfig())

	repo := database.NewMemoryRepository()
	s := NewScheduler(&stubFetcher{}, scraper.NewPersister(repo), repo, nil)

	s.Start()
	s.Stop()

	if err := s.EnqueueTask(s.NewScrapeTask()); err == nil {
		t.Error("Expected error when enqueueing after Stop")
	}
}

func TestTask_RetryBookkeeping(t *testing.T) {
	task := NewTask(TaskTypeScrape)

	if task.ID == "" {
		t.Error("Expected a generated task id")
	}
	if !task.CanRetry() {
		t.Error("Fresh task should be retryable")
	}

	for i := 0; i < DefaultMaxRetries; i++ {
		task.IncrementRetryCount()
	}
	if task.CanRetry() {
		t.Error("Task should not retry past max retries")
	}
}
