package db

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jakechorley/volunteer-profile/pkg/core/model"
)

// SeedToken grants a bearer token to a volunteer
type SeedToken struct {
	Token string `yaml:"token"`
	DNI   string `yaml:"dni"`
}

// Seed is fixture data for a fresh database
type Seed struct {
	Cycles     []model.Cycle               `yaml:"ciclos"`
	Categories map[CategoryKind][]Category `yaml:"categories"`
	Volunteers []VolunteerRecord           `yaml:"voluntarios"`
	Tokens     []SeedToken                 `yaml:"tokens"`
}

// LoadSeedFromPath parses a YAML seed file
func LoadSeedFromPath(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	for kind := range seed.Categories {
		if _, err := ParseCategoryKind(string(kind)); err != nil {
			return nil, fmt.Errorf("invalid seed file: %w", err)
		}
	}

	return &seed, nil
}

// ApplySeed inserts the seed's rows. Volunteers go in before the tokens that reference them.
func ApplySeed(ctx context.Context, store SeedStore, seed *Seed) error {
	for _, c := range seed.Cycles {
		if err := store.InsertCycle(ctx, c); err != nil {
			return err
		}
	}

	for _, kind := range CategoryKinds {
		for _, c := range seed.Categories[kind] {
			if err := store.InsertCategory(ctx, kind, c); err != nil {
				return err
			}
		}
	}

	for i := range seed.Volunteers {
		if err := store.InsertVolunteer(ctx, &seed.Volunteers[i]); err != nil {
			return fmt.Errorf("volunteer %s: %w", seed.Volunteers[i].DNI, err)
		}
	}

	for _, t := range seed.Tokens {
		if err := store.InsertToken(ctx, t.Token, t.DNI); err != nil {
			return err
		}
	}

	return nil
}
