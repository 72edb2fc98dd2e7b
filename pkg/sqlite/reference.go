package sqlite

import (
	"context"
	"fmt"

	"github.com/jakechorley/volunteer-profile/pkg/core/model"
	"github.com/jakechorley/volunteer-profile/pkg/db"
)

// GetCycles retrieves every training cycle in insertion order
func (d *DB) GetCycles(ctx context.Context) ([]model.Cycle, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT nombre, curso FROM cycle ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cycles: %w", err)
	}
	defer rows.Close()

	cycles := []model.Cycle{}
	for rows.Next() {
		var c model.Cycle
		if err := rows.Scan(&c.Name, &c.Course); err != nil {
			return nil, fmt.Errorf("failed to scan cycle: %w", err)
		}
		cycles = append(cycles, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cycles: %w", err)
	}

	return cycles, nil
}

// GetCategories retrieves one category master list ordered by ID
func (d *DB) GetCategories(ctx context.Context, kind db.CategoryKind) ([]db.Category, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, nombre, descripcion, color
		FROM category
		WHERE kind = ?
		ORDER BY id
	`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", kind, err)
	}
	defer rows.Close()

	categories := []db.Category{}
	for rows.Next() {
		var c db.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Color); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", kind, err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", kind, err)
	}

	return categories, nil
}

// InsertCycle inserts a training cycle, ignoring duplicates
func (d *DB) InsertCycle(ctx context.Context, c model.Cycle) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO cycle (nombre, curso) VALUES (?, ?)
		ON CONFLICT (nombre, curso) DO NOTHING
	`, c.Name, c.Course)
	if err != nil {
		return fmt.Errorf("failed to insert cycle: %w", err)
	}
	return nil
}

// InsertCategory inserts or renames a category entry
func (d *DB) InsertCategory(ctx context.Context, kind db.CategoryKind, c db.Category) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO category (kind, id, nombre, descripcion, color)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (kind, id) DO UPDATE
		SET nombre = excluded.nombre, descripcion = excluded.descripcion, color = excluded.color
	`, string(kind), c.ID, c.Name, c.Description, c.Color)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}
