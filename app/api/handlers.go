package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hoopwire/hoopwire/app/database"
	"github.com/hoopwire/hoopwire/app/news"
	"github.com/hoopwire/hoopwire/app/scraper"
)

const defaultNewsLimit = 50

func NewHandler(repo database.NewsRepository, teamRepo database.TeamRepository,
	fetcher scraper.Fetcher, persister *scraper.Persister) *Handler {
	return &Handler{
		repo:      repo,
		teamRepo:  teamRepo,
		fetcher:   fetcher,
		persister: persister,
	}
}

// GetNews returns the most recent stored items, bounded by the limit query
// parameter.
func (h *Handler) GetNews(c *gin.Context) {
	limit := defaultNewsLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	items, err := h.repo.GetRecent(limit)
	if err != nil {
		slog.Error("Database error", "operation", "get_recent", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"news":  toResponses(items),
		"total": len(items),
	})
}

// GetNewsByCategory returns stored items with an exact category match.
func (h *Handler) GetNewsByCategory(c *gin.Context) {
	category := c.Param("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing category parameter"})
		return
	}

	items, err := h.repo.GetByCategory(category)
	if err != nil {
		slog.Error("Database error", "operation", "get_by_category", "category", category, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"news":     toResponses(items),
		"category": category,
		"total":    len(items),
	})
}

// GetNewsBySource returns stored items with an exact source name match.
func (h *Handler) GetNewsBySource(c *gin.Context) {
	source := c.Param("source")
	if source == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing source parameter"})
		return
	}

	items, err := h.repo.GetBySource(source)
	if err != nil {
		slog.Error("Database error", "operation", "get_by_source", "source", source, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"news":   toResponses(items),
		"source": source,
		"total":  len(items),
	})
}

// TriggerScrape runs one fetch-and-persist cycle synchronously and returns
// its outcome. Partial failures are reported in the outcome, not as an HTTP
// error; only a catastrophic failure produces a 500.
func (h *Handler) TriggerScrape(c *gin.Context) {
	result, err := scraper.RunScrapingJob(c.Request.Context(), h.fetcher, h.persister)
	if err != nil {
		slog.Error("Scraping run failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Scraping run failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toOutcomeResponse(result))
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if itemCount, err := h.repo.GetItemCount(); err == nil {
		health["items"] = itemCount
	}

	health["feeds"] = len(news.Feeds)

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"feeds": len(news.Feeds),
	}

	if itemCount, err := h.repo.GetItemCount(); err == nil {
		stats["items"] = itemCount
	}

	if counts, err := h.repo.CountByCategory(); err == nil {
		stats["categories"] = counts
	}

	if h.teamRepo != nil {
		if teamCount, err := h.teamRepo.GetTeamCount(); err == nil {
			stats["teams"] = teamCount
		}
	}

	c.JSON(http.StatusOK, stats)
}

func toResponses(items []database.StoredItem) []NewsItemResponse {
	out := make([]NewsItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewsItemResponse{
			ID:            item.ExternalID,
			Title:         item.Title,
			Description:   item.Description,
			TitleJA:       item.TitleJA,
			DescriptionJA: item.DescriptionJA,
			Source:        item.SourceName,
			Link:          item.SourceURL,
			Category:      item.Category,
			PublishedAt:   item.PublishedAt.UTC().Format(time.RFC3339),
			ScrapedAt:     item.ScrapedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

func toOutcomeResponse(result scraper.SaveResult) SaveOutcomeResponse {
	errors := make([]string, 0, len(result.Errors))
	for _, itemErr := range result.Errors {
		errors = append(errors, fmt.Sprintf("%s: %s", itemErr.ID, itemErr.Message))
	}

	return SaveOutcomeResponse{
		SavedCount:   result.SavedCount,
		SkippedCount: result.SkippedCount,
		ErrorCount:   len(result.Errors),
		Errors:       errors,
	}
}
