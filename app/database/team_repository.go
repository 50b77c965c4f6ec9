package database

import (
	"fmt"
)

// TeamRepositoryImpl handles database operations for the team glossary
type TeamRepositoryImpl struct {
	db *DB
}

var _ TeamRepository = (*TeamRepositoryImpl)(nil)

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *DB) *TeamRepositoryImpl {
	return &TeamRepositoryImpl{db: db}
}

// UpsertTeam inserts a team or refreshes its names if the code already exists
func (r *TeamRepositoryImpl) UpsertTeam(team Team) error {
	_, err := r.db.Exec(`
		INSERT INTO teams (code, name, name_ja, conference, division)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			name_ja = EXCLUDED.name_ja,
			conference = EXCLUDED.conference,
			division = EXCLUDED.division,
			updated_at = NOW()
	`, team.Code, team.Name, nullable(team.NameJA), team.Conference, team.Division)

	if err != nil {
		return fmt.Errorf("failed to upsert team %s: %w", team.Code, err)
	}

	return nil
}

// GetTeamCount returns the number of glossary teams
func (r *TeamRepositoryImpl) GetTeamCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM teams").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get team count: %w", err)
	}
	return count, nil
}
