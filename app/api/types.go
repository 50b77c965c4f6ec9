package api

import (
	"github.com/hoopwire/hoopwire/app/database"
	"github.com/hoopwire/hoopwire/app/scraper"
)

type Handler struct {
	repo      database.NewsRepository
	teamRepo  database.TeamRepository
	fetcher   scraper.Fetcher
	persister *scraper.Persister
}

// NewsItemResponse is the JSON shape for a stored news item.
type NewsItemResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	TitleJA       string `json:"title_ja,omitempty"`
	DescriptionJA string `json:"description_ja,omitempty"`
	Source        string `json:"source"`
	Link          string `json:"link"`
	Category      string `json:"category"`
	PublishedAt   string `json:"published_at"`
	ScrapedAt     string `json:"scraped_at"`
}

// SaveOutcomeResponse is the JSON shape for a triggered scraping run.
type SaveOutcomeResponse struct {
	SavedCount   int      `json:"saved_count"`
	SkippedCount int      `json:"skipped_count"`
	ErrorCount   int      `json:"error_count"`
	Errors       []string `json:"errors"`
}
