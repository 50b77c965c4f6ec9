package database

import (
	"time"
)

// StoredItem represents a trade_news record in the database
type StoredItem struct {
	ID                string // Database UUID
	ExternalID        string // Deduplication key (GUID or link hash)
	Title             string
	Description       string
	TitleJA           string
	DescriptionJA     string
	TranslationStatus string // pending, completed, failed, skipped
	TranslatedAt      *time.Time
	SourceName        string
	SourceURL         string
	Category          string
	PublishedAt       time.Time
	ScrapedAt         time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewItem carries the fields written on insert; the database fills in
// the UUID and the bookkeeping timestamps.
type NewItem struct {
	ExternalID  string
	Title       string
	Description string
	SourceName  string
	SourceURL   string
	Category    string
	PublishedAt time.Time
	ScrapedAt   time.Time
}

// Team is an NBA team glossary record, seeded from the embedded YAML file.
type Team struct {
	ID         int
	Code       string
	Name       string
	NameJA     string
	Conference string
	Division   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
