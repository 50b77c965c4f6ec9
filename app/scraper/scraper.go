package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/hoopwire/hoopwire/app/news"
)

// Scraper fetches the registered RSS feeds and normalizes their entries
// into news items.
type Scraper struct {
	httpClient   *http.Client
	gofeedParser *gofeed.Parser
	feeds        []news.Feed
	userAgent    string
	now          func() time.Time
}

func NewScraper(httpClient *http.Client, feeds []news.Feed, userAgent string) *Scraper {
	return &Scraper{
		httpClient:   httpClient,
		gofeedParser: gofeed.NewParser(),
		feeds:        feeds,
		userAgent:    userAgent,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// FetchAll fetches every registered feed sequentially and returns the merged
// item list sorted by published time, most recent first. A failing feed is
// logged and skipped; it never aborts the run. When every feed fails the
// result is an empty list, not an error.
func (s *Scraper) FetchAll(ctx context.Context) []news.Item {
	var allItems []news.Item

	for _, feed := range s.feeds {
		items, err := s.FetchOne(ctx, feed)
		if err != nil {
			slog.Error("Failed to fetch feed", "source", feed.Source.String(), "url", feed.URL, "error", err)
			continue
		}
		slog.Info("Fetched feed", "source", feed.Source.String(), "items", len(items))
		allItems = append(allItems, items...)
	}

	sort.SliceStable(allItems, func(i, j int) bool {
		return allItems[i].PublishedAt.After(allItems[j].PublishedAt)
	})

	return allItems
}

// FetchOne fetches and parses a single feed, returning its normalized items.
func (s *Scraper) FetchOne(ctx context.Context, feed news.Feed) ([]news.Item, error) {
	data, err := s.fetch(ctx, feed.URL)
	if err != nil {
		return nil, err
	}

	parsed, err := s.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]news.Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		if item, ok := s.normalizeEntry(entry, feed.Source); ok {
			items = append(items, item)
		}
	}

	return items, nil
}

func (s *Scraper) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// normalizeEntry turns a raw feed entry into a canonical item. Entries
// missing a title or link are unusable and dropped.
func (s *Scraper) normalizeEntry(entry *gofeed.Item, source news.Source) (news.Item, bool) {
	if entry.Title == "" || entry.Link == "" {
		return news.Item{}, false
	}

	publishedAt := s.now()
	if entry.PublishedParsed != nil {
		publishedAt = entry.PublishedParsed.UTC()
	}

	return news.Item{
		ID:          news.GenerateID(entry.GUID, entry.Link),
		Title:       entry.Title,
		Description: entry.Description,
		Link:        entry.Link,
		Source:      source,
		Category:    news.Classify(entry.Title, entry.Description),
		PublishedAt: publishedAt,
	}, true
}
