package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/volunteer-profile/pkg/core/model"
	"github.com/jakechorley/volunteer-profile/pkg/db"
)

// GetVolunteerDNIByToken resolves a bearer token to the owning volunteer
func (d *DB) GetVolunteerDNIByToken(ctx context.Context, token string) (string, error) {
	var dni string
	err := d.pool.QueryRow(ctx, `SELECT dni FROM volunteer_token WHERE token = $1`, token).Scan(&dni)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", db.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query token: %w", err)
	}
	return dni, nil
}

// GetVolunteer retrieves a volunteer profile by DNI
func (d *DB) GetVolunteer(ctx context.Context, dni string) (*db.VolunteerRecord, error) {
	var (
		v           db.VolunteerRecord
		cycleName   *string
		cycleCourse *int
		cols        db.ListColumns
	)

	err := d.pool.QueryRow(ctx, `
		SELECT dni, nombre, apellido1, apellido2, correo, fecha_nacimiento, zona, experiencia,
		       coche, ciclo_nombre, ciclo_curso, idiomas::text, disponibilidad::text,
		       habilidades::text, intereses::text, estado
		FROM volunteer
		WHERE dni = $1
	`, dni).Scan(
		&v.DNI, &v.FirstName, &v.Surname, &v.SecondSurname, &v.Email, &v.BirthDate, &v.Zone, &v.Experience,
		&v.HasCar, &cycleName, &cycleCourse, &cols.Languages, &cols.Availability,
		&cols.SkillIDs, &cols.InterestIDs, &v.VolunteerState,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query volunteer: %w", err)
	}

	if cycleName != nil && cycleCourse != nil {
		v.Cycle = &model.Cycle{Name: *cycleName, Course: *cycleCourse}
	}
	if err := v.DecodeLists(cols); err != nil {
		return nil, err
	}

	return &v, nil
}

// SaveVolunteer overwrites every editable column of an existing volunteer
func (d *DB) SaveVolunteer(ctx context.Context, v *db.VolunteerRecord) error {
	cols, err := v.EncodeLists()
	if err != nil {
		return err
	}
	cycleName, cycleCourse := cycleColumns(v.Cycle)

	tag, err := d.pool.Exec(ctx, `
		UPDATE volunteer
		SET nombre = $2, apellido1 = $3, apellido2 = $4, fecha_nacimiento = $5, zona = $6,
		    experiencia = $7, coche = $8, ciclo_nombre = $9, ciclo_curso = $10,
		    idiomas = $11::jsonb, disponibilidad = $12::jsonb, habilidades = $13::jsonb, intereses = $14::jsonb
		WHERE dni = $1
	`, v.DNI, v.FirstName, v.Surname, v.SecondSurname, v.BirthDate, v.Zone,
		v.Experience, v.HasCar, cycleName, cycleCourse,
		cols.Languages, cols.Availability, cols.SkillIDs, cols.InterestIDs)
	if err != nil {
		return fmt.Errorf("failed to update volunteer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// InsertVolunteer inserts a new volunteer profile
func (d *DB) InsertVolunteer(ctx context.Context, v *db.VolunteerRecord) error {
	cols, err := v.EncodeLists()
	if err != nil {
		return err
	}
	cycleName, cycleCourse := cycleColumns(v.Cycle)

	state := v.VolunteerState
	if state == "" {
		state = "ACTIVO"
	}

	_, err = d.pool.Exec(ctx, `
		INSERT INTO volunteer (dni, nombre, apellido1, apellido2, correo, fecha_nacimiento, zona,
		                       experiencia, coche, ciclo_nombre, ciclo_curso, idiomas, disponibilidad,
		                       habilidades, intereses, estado)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12::jsonb, $13::jsonb, $14::jsonb, $15::jsonb, $16)
	`, v.DNI, v.FirstName, v.Surname, v.SecondSurname, v.Email, v.BirthDate, v.Zone,
		v.Experience, v.HasCar, cycleName, cycleCourse, cols.Languages, cols.Availability,
		cols.SkillIDs, cols.InterestIDs, state)
	if err != nil {
		return fmt.Errorf("failed to insert volunteer: %w", err)
	}
	return nil
}

// InsertToken grants token access to the volunteer's profile
func (d *DB) InsertToken(ctx context.Context, token, dni string) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO volunteer_token (token, dni) VALUES ($1, $2)
		ON CONFLICT (token) DO UPDATE SET dni = EXCLUDED.dni
	`, token, dni)
	if err != nil {
		return fmt.Errorf("failed to insert token: %w", err)
	}
	return nil
}

func cycleColumns(c *model.Cycle) (*string, *int) {
	if c == nil {
		return nil, nil
	}
	name, course := c.Name, c.Course
	return &name, &course
}
