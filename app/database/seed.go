package database

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed/teams.yml
var seedFS embed.FS

type seedTeam struct {
	Code       string `yaml:"code"`
	Name       string `yaml:"name"`
	NameJA     string `yaml:"name_ja"`
	Conference string `yaml:"conference"`
	Division   string `yaml:"division"`
}

type teamSeed struct {
	Teams []seedTeam `yaml:"teams"`
}

// LoadSeedTeams parses the embedded team glossary.
func LoadSeedTeams() ([]Team, error) {
	data, err := seedFS.ReadFile("seed/teams.yml")
	if err != nil {
		return nil, fmt.Errorf("failed to read team seed: %w", err)
	}

	var seed teamSeed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse team seed: %w", err)
	}

	teams := make([]Team, 0, len(seed.Teams))
	for _, t := range seed.Teams {
		if t.Code == "" || t.Name == "" {
			return nil, fmt.Errorf("team seed entry missing code or name: %+v", t)
		}
		teams = append(teams, Team{
			Code:       t.Code,
			Name:       t.Name,
			NameJA:     t.NameJA,
			Conference: t.Conference,
			Division:   t.Division,
		})
	}

	return teams, nil
}

// SeedTeams loads the embedded glossary and upserts every team.
func SeedTeams(repo TeamRepository) (int, error) {
	teams, err := LoadSeedTeams()
	if err != nil {
		return 0, err
	}

	seeded := 0
	for _, team := range teams {
		if err := repo.UpsertTeam(team); err != nil {
			return seeded, err
		}
		seeded++
	}

	return seeded, nil
}
