package database

import (
	"database/sql"
	"fmt"
)

// NewsRepositoryImpl handles database operations for trade news items
type NewsRepositoryImpl struct {
	db *DB
}

var _ NewsRepository = (*NewsRepositoryImpl)(nil)

// NewNewsRepository creates a new news repository
func NewNewsRepository(db *DB) *NewsRepositoryImpl {
	return &NewsRepositoryImpl{db: db}
}

// ExistsByExternalID checks if an item with the given external id already exists
func (r *NewsRepositoryImpl) ExistsByExternalID(externalID string) (bool, error) {
	var id string
	err := r.db.QueryRow(`SELECT id FROM trade_news WHERE external_id = $1 LIMIT 1`, externalID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return true, nil
}

// Insert stores a new trade news item. The unique constraint on external_id is
// the backstop against concurrent duplicate inserts; a violation surfaces as
// an error the caller records per item.
func (r *NewsRepositoryImpl) Insert(item NewItem) error {
	_, err := r.db.Exec(`
		INSERT INTO trade_news (
			external_id, title, description, source_name, source_url,
			category, published_at, scraped_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, item.ExternalID, item.Title, nullable(item.Description), item.SourceName,
		item.SourceURL, item.Category, item.PublishedAt, item.ScrapedAt)

	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	return nil
}

// GetRecent returns the most recent items ordered by published_at descending
func (r *NewsRepositoryImpl) GetRecent(limit int) ([]StoredItem, error) {
	rows, err := r.db.Query(selectItems+`
		ORDER BY published_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// GetByCategory returns all items with an exact category match
func (r *NewsRepositoryImpl) GetByCategory(category string) ([]StoredItem, error) {
	rows, err := r.db.Query(selectItems+`
		WHERE category = $1
		ORDER BY published_at DESC
	`, category)
	if err != nil {
		return nil, fmt.Errorf("failed to get items by category: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// GetBySource returns all items with an exact source name match
func (r *NewsRepositoryImpl) GetBySource(source string) ([]StoredItem, error) {
	rows, err := r.db.Query(selectItems+`
		WHERE source_name = $1
		ORDER BY published_at DESC
	`, source)
	if err != nil {
		return nil, fmt.Errorf("failed to get items by source: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// GetItemCount returns the total number of stored items
func (r *NewsRepositoryImpl) GetItemCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM trade_news").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get item count: %w", err)
	}
	return count, nil
}

// CountByCategory returns item counts keyed by category
func (r *NewsRepositoryImpl) CountByCategory() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT category, COUNT(*) FROM trade_news GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to count by category: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts[category] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category counts: %w", err)
	}

	return counts, nil
}

// GetPendingTranslation returns items still waiting for translation
func (r *NewsRepositoryImpl) GetPendingTranslation(limit int) ([]StoredItem, error) {
	rows, err := r.db.Query(selectItems+`
		WHERE translation_status = 'pending'
		ORDER BY published_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending translations: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// UpdateTranslation stores translated fields and the final status for an item
func (r *NewsRepositoryImpl) UpdateTranslation(externalID, titleJA, descriptionJA, status string) error {
	_, err := r.db.Exec(`
		UPDATE trade_news
		SET title_ja = $2, description_ja = $3, translation_status = $4,
		    translated_at = NOW(), updated_at = NOW()
		WHERE external_id = $1
	`, externalID, nullable(titleJA), nullable(descriptionJA), status)

	if err != nil {
		return fmt.Errorf("failed to update translation: %w", err)
	}

	return nil
}

const selectItems = `
	SELECT id, external_id, title, COALESCE(description, ''),
	       COALESCE(title_ja, ''), COALESCE(description_ja, ''),
	       translation_status, translated_at,
	       source_name, source_url, category,
	       published_at, scraped_at, created_at, updated_at
	FROM trade_news
`

func scanItems(rows *sql.Rows) ([]StoredItem, error) {
	var items []StoredItem
	for rows.Next() {
		var item StoredItem
		err := rows.Scan(
			&item.ID, &item.ExternalID, &item.Title, &item.Description,
			&item.TitleJA, &item.DescriptionJA,
			&item.TranslationStatus, &item.TranslatedAt,
			&item.SourceName, &item.SourceURL, &item.Category,
			&item.PublishedAt, &item.ScrapedAt, &item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows: %w", err)
	}

	return items, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
