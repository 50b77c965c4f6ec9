package database

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryRepository is an in-memory NewsRepository used in tests and as a
// storage stand-in when no database is available. The FailAll and FailOnIDs
// switches simulate storage errors.
type MemoryRepository struct {
	mu        sync.Mutex
	items     map[string]StoredItem
	FailAll   bool
	FailOnIDs map[string]bool
}

var _ NewsRepository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items:     make(map[string]StoredItem),
		FailOnIDs: make(map[string]bool),
	}
}

// AddExisting seeds the repository with an already-stored item.
func (r *MemoryRepository) AddExisting(item StoredItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ExternalID] = item
}

func (r *MemoryRepository) ExistsByExternalID(externalID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailAll {
		return false, fmt.Errorf("storage unavailable")
	}
	if r.FailOnIDs[externalID] {
		return false, fmt.Errorf("simulated failure for %s", externalID)
	}

	_, ok := r.items[externalID]
	return ok, nil
}

func (r *MemoryRepository) Insert(item NewItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailAll {
		return fmt.Errorf("storage unavailable")
	}
	if r.FailOnIDs[item.ExternalID] {
		return fmt.Errorf("simulated failure for %s", item.ExternalID)
	}
	if _, ok := r.items[item.ExternalID]; ok {
		return fmt.Errorf("duplicate key value violates unique constraint: %s", item.ExternalID)
	}

	now := time.Now().UTC()
	r.items[item.ExternalID] = StoredItem{
		ID:                fmt.Sprintf("mem-%d", len(r.items)+1),
		ExternalID:        item.ExternalID,
		Title:             item.Title,
		Description:       item.Description,
		TranslationStatus: "pending",
		SourceName:        item.SourceName,
		SourceURL:         item.SourceURL,
		Category:          item.Category,
		PublishedAt:       item.PublishedAt,
		ScrapedAt:         item.ScrapedAt,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	return nil
}

func (r *MemoryRepository) GetRecent(limit int) ([]StoredItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailAll {
		return nil, fmt.Errorf("storage unavailable")
	}

	items := r.sortedItems()
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (r *MemoryRepository) GetByCategory(category string) ([]StoredItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailAll {
		return nil, fmt.Errorf("storage unavailable")
	}

	var items []StoredItem
	for _, item := range r.sortedItems() {
		if item.Category == category {
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *MemoryRepository) GetBySource(source string) ([]StoredItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailAll {
		return nil, fmt.Errorf("storage unavailable")
	}

	var items []StoredItem
	for _, item := range r.sortedItems() {
		if item.SourceName == source {
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *MemoryRepository) GetItemCount() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailAll {
		return 0, fmt.Errorf("storage unavailable")
	}
	return len(r.items), nil
}

func (r *MemoryRepository) CountByCategory() (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailAll {
		return nil, fmt.Errorf("storage unavailable")
	}

	counts := make(map[string]int)
	for _, item := range r.items {
		counts[item.Category]++
	}
	return counts, nil
}

func (r *MemoryRepository) GetPendingTranslation(limit int) ([]StoredItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailAll {
		return nil, fmt.Errorf("storage unavailable")
	}

	var items []StoredItem
	for _, item := range r.sortedItems() {
		if item.TranslationStatus == "pending" {
			items = append(items, item)
		}
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (r *MemoryRepository) UpdateTranslation(externalID, titleJA, descriptionJA, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailAll {
		return fmt.Errorf("storage unavailable")
	}

	item, ok := r.items[externalID]
	if !ok {
		return fmt.Errorf("item not found: %s", externalID)
	}

	now := time.Now().UTC()
	item.TitleJA = titleJA
	item.DescriptionJA = descriptionJA
	item.TranslationStatus = status
	item.TranslatedAt = &now
	item.UpdatedAt = now
	r.items[externalID] = item

	return nil
}

// sortedItems returns items ordered by published_at descending. Callers must
// hold the lock.
func (r *MemoryRepository) sortedItems() []StoredItem {
	items := make([]StoredItem, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
	return items
}
