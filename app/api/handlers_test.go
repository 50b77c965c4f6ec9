package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hoopwire/hoopwire/app/database"
	"github.com/hoopwire/hoopwire/app/news"
	"github.com/hoopwire/hoopwire/app/scraper"
)

type stubFetcher struct {
	items []news.Item
}

func (f *stubFetcher) FetchAll(ctx context.Context) []news.Item {
	return f.items
}

func seededRepo(t *testing.T) *database.MemoryRepository {
	t.Helper()

	repo := database.NewMemoryRepository()
	base := time.Date(2024, 7, 22, 10, 0, 0, 0, time.UTC)

	records := []database.NewItem{
		{
			ExternalID:  "espn-1",
			Title:       "Lakers trade for veteran guard",
			Description: "A three-team deal",
			SourceName:  "ESPN",
			SourceURL:   "https://example.com/espn-1",
			Category:    "Trade",
			PublishedAt: base.Add(2 * time.Hour),
			ScrapedAt:   base.Add(3 * time.Hour),
		},
		{
			ExternalID:  "realgm-1",
			Title:       "Celtics sign forward to extension",
			SourceName:  "RealGM",
			SourceURL:   "https://example.com/realgm-1",
			Category:    "Signing",
			PublishedAt: base.Add(time.Hour),
			ScrapedAt:   base.Add(3 * time.Hour),
		},
		{
			ExternalID:  "espn-2",
			Title:       "Season schedule released",
			SourceName:  "ESPN",
			SourceURL:   "https://example.com/espn-2",
			Category:    "Other",
			PublishedAt: base,
			ScrapedAt:   base.Add(3 * time.Hour),
		},
	}

	for _, record := range records {
		if err := repo.Insert(record); err != nil {
			t.Fatalf("seed insert failed: %v", err)
		}
	}

	return repo
}

func newTestServer(repo database.NewsRepository, fetcher scraper.Fetcher, apiAccessKey string) *gin.Engine {
	persister := scraper.NewPersister(repo)
	handler := NewHandler(repo, nil, fetcher, persister)
	return NewServer(handler, apiAccessKey)
}

func doRequest(t *testing.T, server *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

func TestGetNews(t *testing.T) {
	server := newTestServer(seededRepo(t), &stubFetcher{}, "")

	w := doRequest(t, server, "GET", "/api/news", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["total"].(float64) != 3 {
		t.Errorf("expected total 3, got %v", body["total"])
	}

	items := body["news"].([]interface{})
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	// Newest first.
	first := items[0].(map[string]interface{})
	if first["id"] != "espn-1" {
		t.Errorf("expected newest item first, got %v", first["id"])
	}
	if first["category"] != "Trade" {
		t.Errorf("expected category Trade, got %v", first["category"])
	}
	if first["published_at"] != "2024-07-22T12:00:00Z" {
		t.Errorf("unexpected published_at: %v", first["published_at"])
	}
}

func TestGetNewsLimit(t *testing.T) {
	server := newTestServer(seededRepo(t), &stubFetcher{}, "")

	w := doRequest(t, server, "GET", "/api/news?limit=2", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["total"].(float64) != 2 {
		t.Errorf("expected total 2, got %v", body["total"])
	}
}

func TestGetNewsInvalidLimit(t *testing.T) {
	server := newTestServer(seededRepo(t), &stubFetcher{}, "")

	for _, raw := range []string{"abc", "0", "-5"} {
		w := doRequest(t, server, "GET", "/api/news?limit="+raw, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: expected status 400, got %d", raw, w.Code)
		}
	}
}

func TestGetNewsStorageError(t *testing.T) {
	repo := database.NewMemoryRepository()
	repo.FailAll = true
	server := newTestServer(repo, &stubFetcher{}, "")

	w := doRequest(t, server, "GET", "/api/news", nil)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
}

func TestGetNewsByCategory(t *testing.T) {
	server := newTestServer(seededRepo(t), &stubFetcher{}, "")

	w := doRequest(t, server, "GET", "/api/news/category/Trade", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["category"] != "Trade" {
		t.Errorf("expected category Trade, got %v", body["category"])
	}
	if body["total"].(float64) != 1 {
		t.Errorf("expected total 1, got %v", body["total"])
	}
}

func TestGetNewsByCategoryNoMatches(t *testing.T) {
	server := newTestServer(seededRepo(t), &stubFetcher{}, "")

	// Category matching is exact, so a lowercase name matches nothing.
	w := doRequest(t, server, "GET", "/api/news/category/trade", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["total"].(float64) != 0 {
		t.Errorf("expected total 0, got %v", body["total"])
	}
}

func TestGetNewsBySource(t *testing.T) {
	server := newTestServer(seededRepo(t), &stubFetcher{}, "")

	w := doRequest(t, server, "GET", "/api/news/source/ESPN", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["source"] != "ESPN" {
		t.Errorf("expected source ESPN, got %v", body["source"])
	}
	if body["total"].(float64) != 2 {
		t.Errorf("expected total 2, got %v", body["total"])
	}
}

func TestTriggerScrape(t *testing.T) {
	repo := database.NewMemoryRepository()
	fetcher := &stubFetcher{
		items: []news.Item{
			{
				ID:          "new-1",
				Title:       "Suns trade draft picks",
				Link:        "https://example.com/new-1",
				Source:      news.SourceESPN,
				Category:    news.CategoryTrade,
				PublishedAt: time.Now().UTC(),
			},
			{
				ID:          "new-2",
				Title:       "Heat sign center",
				Link:        "https://example.com/new-2",
				Source:      news.SourceRealGM,
				Category:    news.CategorySigning,
				PublishedAt: time.Now().UTC(),
			},
		},
	}
	server := newTestServer(repo, fetcher, "")

	w := doRequest(t, server, "POST", "/api/scrape", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var outcome SaveOutcomeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("failed to decode outcome: %v", err)
	}

	if outcome.SavedCount != 2 {
		t.Errorf("expected 2 saved, got %d", outcome.SavedCount)
	}
	if outcome.SkippedCount != 0 || outcome.ErrorCount != 0 {
		t.Errorf("expected clean run, got skipped=%d errors=%d", outcome.SkippedCount, outcome.ErrorCount)
	}

	// A second trigger skips everything.
	w = doRequest(t, server, "POST", "/api/scrape", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("failed to decode outcome: %v", err)
	}
	if outcome.SavedCount != 0 || outcome.SkippedCount != 2 {
		t.Errorf("expected 0 saved and 2 skipped on rerun, got saved=%d skipped=%d",
			outcome.SavedCount, outcome.SkippedCount)
	}
}

func TestTriggerScrapeReportsItemErrors(t *testing.T) {
	repo := database.NewMemoryRepository()
	repo.FailOnIDs["bad-1"] = true
	fetcher := &stubFetcher{
		items: []news.Item{
			{ID: "good-1", Title: "a", Link: "https://example.com/a", Source: news.SourceESPN, Category: news.CategoryOther, PublishedAt: time.Now().UTC()},
			{ID: "bad-1", Title: "b", Link: "https://example.com/b", Source: news.SourceESPN, Category: news.CategoryOther, PublishedAt: time.Now().UTC()},
		},
	}
	server := newTestServer(repo, fetcher, "")

	w := doRequest(t, server, "POST", "/api/scrape", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200 despite item errors, got %d", w.Code)
	}

	var outcome SaveOutcomeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("failed to decode outcome: %v", err)
	}

	if outcome.SavedCount != 1 || outcome.ErrorCount != 1 {
		t.Errorf("expected saved=1 errors=1, got saved=%d errors=%d", outcome.SavedCount, outcome.ErrorCount)
	}
	if len(outcome.Errors) != 1 {
		t.Fatalf("expected 1 error message, got %d", len(outcome.Errors))
	}
}

func TestTriggerScrapeAuth(t *testing.T) {
	server := newTestServer(database.NewMemoryRepository(), &stubFetcher{}, "secret-key")

	w := doRequest(t, server, "POST", "/api/scrape", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 without key, got %d", w.Code)
	}

	w = doRequest(t, server, "POST", "/api/scrape", map[string]string{"X-API-Key": "wrong"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401 with wrong key, got %d", w.Code)
	}

	w = doRequest(t, server, "POST", "/api/scrape", map[string]string{"X-API-Key": "secret-key"})
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200 with valid key, got %d", w.Code)
	}

	w = doRequest(t, server, "POST", "/api/scrape", map[string]string{"Authorization": "Bearer secret-key"})
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200 with bearer token, got %d", w.Code)
	}
}

func TestGetHealth(t *testing.T) {
	server := newTestServer(seededRepo(t), &stubFetcher{}, "")

	w := doRequest(t, server, "GET", "/health", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["items"].(float64) != 3 {
		t.Errorf("expected 3 items, got %v", body["items"])
	}
	if body["feeds"].(float64) != float64(len(news.Feeds)) {
		t.Errorf("expected %d feeds, got %v", len(news.Feeds), body["feeds"])
	}
}

func TestGetStats(t *testing.T) {
	server := newTestServer(seededRepo(t), &stubFetcher{}, "")

	w := doRequest(t, server, "GET", "/stats", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	counts := body["categories"].(map[string]interface{})
	if counts["Trade"].(float64) != 1 || counts["Signing"].(float64) != 1 || counts["Other"].(float64) != 1 {
		t.Errorf("unexpected category counts: %v", counts)
	}
}

func TestCORSHeaders(t *testing.T) {
	server := newTestServer(seededRepo(t), &stubFetcher{}, "")

	w := doRequest(t, server, "GET", "/api/news", nil)
	if origin := w.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("expected wildcard CORS origin, got %q", origin)
	}

	w = doRequest(t, server, "OPTIONS", "/api/news", nil)
	if w.Code != 204 {
		t.Errorf("expected 204 for preflight, got %d", w.Code)
	}
}
