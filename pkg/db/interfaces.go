package db

import (
	"context"

	"github.com/jakechorley/volunteer-profile/pkg/core/model"
)

// ReferenceStore defines the interface for read-only reference data
type ReferenceStore interface {
	GetCycles(ctx context.Context) ([]model.Cycle, error)
	GetCategories(ctx context.Context, kind CategoryKind) ([]Category, error)
}

// VolunteerStore defines the interface for volunteer profile operations
type VolunteerStore interface {
	GetVolunteerDNIByToken(ctx context.Context, token string) (string, error)
	GetVolunteer(ctx context.Context, dni string) (*VolunteerRecord, error)
	SaveVolunteer(ctx context.Context, v *VolunteerRecord) error
}

// SeedStore inserts fixture data
type SeedStore interface {
	InsertCycle(ctx context.Context, c model.Cycle) error
	InsertCategory(ctx context.Context, kind CategoryKind, c Category) error
	InsertVolunteer(ctx context.Context, v *VolunteerRecord) error
	InsertToken(ctx context.Context, token, dni string) error
}

// Database defines the interface for all database operations.
// Both postgres.DB and sqlite.DB implement this interface.
type Database interface {
	ReferenceStore
	VolunteerStore
	SeedStore
	RunMigrations(ctx context.Context) error
	Close()
}
