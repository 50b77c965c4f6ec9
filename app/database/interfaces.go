package database

type NewsRepository interface {
	ExistsByExternalID(externalID string) (bool, error)
	Insert(item NewItem) error

	GetRecent(limit int) ([]StoredItem, error)
	GetByCategory(category string) ([]StoredItem, error)
	GetBySource(source string) ([]StoredItem, error)
	GetItemCount() (int, error)
	CountByCategory() (map[string]int, error)

	GetPendingTranslation(limit int) ([]StoredItem, error)
	UpdateTranslation(externalID, titleJA, descriptionJA, status string) error
}

type TeamRepository interface {
	UpsertTeam(team Team) error
	GetTeamCount() (int, error)
}
