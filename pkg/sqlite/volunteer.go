package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jakechorley/volunteer-profile/pkg/core/model"
	"github.com/jakechorley/volunteer-profile/pkg/db"
)

// GetVolunteerDNIByToken resolves a bearer token to the owning volunteer
func (d *DB) GetVolunteerDNIByToken(ctx context.Context, token string) (string, error) {
	var dni string
	err := d.db.QueryRowContext(ctx, `SELECT dni FROM volunteer_token WHERE token = ?`, token).Scan(&dni)
	if errors.Is(err, sql.ErrNoRows) {
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
		v             db.VolunteerRecord
		secondSurname sql.NullString
		cycleName     sql.NullString
		cycleCourse   sql.NullInt64
		cols          db.ListColumns
	)

	err := d.db.QueryRowContext(ctx, `
		SELECT dni, nombre, apellido1, apellido2, correo, fecha_nacimiento, zona, experiencia,
		       coche, ciclo_nombre, ciclo_curso, idiomas, disponibilidad, habilidades, intereses, estado
		FROM volunteer
		WHERE dni = ?
	`, dni).Scan(
		&v.DNI, &v.FirstName, &v.Surname, &secondSurname, &v.Email, &v.BirthDate, &v.Zone, &v.Experience,
		&v.HasCar, &cycleName, &cycleCourse, &cols.Languages, &cols.Availability,
		&cols.SkillIDs, &cols.InterestIDs, &v.VolunteerState,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query volunteer: %w", err)
	}

	if secondSurname.Valid {
		v.SecondSurname = &secondSurname.String
	}
	if cycleName.Valid && cycleCourse.Valid {
		v.Cycle = &model.Cycle{Name: cycleName.String, Course: int(cycleCourse.Int64)}
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

	res, err := d.db.ExecContext(ctx, `
		UPDATE volunteer
		SET nombre = ?, apellido1 = ?, apellido2 = ?, fecha_nacimiento = ?, zona = ?,
		    experiencia = ?, coche = ?, ciclo_nombre = ?, ciclo_curso = ?,
		    idiomas = ?, disponibilidad = ?, habilidades = ?, intereses = ?
		WHERE dni = ?
	`, v.FirstName, v.Surname, nullString(v.SecondSurname), v.BirthDate, v.Zone,
		v.Experience, v.HasCar, cycleName, cycleCourse,
		cols.Languages, cols.Availability, cols.SkillIDs, cols.InterestIDs, v.DNI)
	if err != nil {
		return fmt.Errorf("failed to update volunteer: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
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

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO volunteer (dni, nombre, apellido1, apellido2, correo, fecha_nacimiento, zona,
		                       experiencia, coche, ciclo_nombre, ciclo_curso, idiomas, disponibilidad,
		                       habilidades, intereses, estado)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, v.DNI, v.FirstName, v.Surname, nullString(v.SecondSurname), v.Email, v.BirthDate, v.Zone,
		v.Experience, v.HasCar, cycleName, cycleCourse, cols.Languages, cols.Availability,
		cols.SkillIDs, cols.InterestIDs, state)
	if err != nil {
		return fmt.Errorf("failed to insert volunteer: %w", err)
	}
	return nil
}

// InsertToken grants token access to the volunteer's profile
func (d *DB) InsertToken(ctx context.Context, token, dni string) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO volunteer_token (token, dni) VALUES (?, ?)
		ON CONFLICT (token) DO UPDATE SET dni = excluded.dni
	`, token, dni)
	if err != nil {
		return fmt.Errorf("failed to insert token: %w", err)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func cycleColumns(c *model.Cycle) (sql.NullString, sql.NullInt64) {
	if c == nil {
		return sql.NullString{}, sql.NullInt64{}
	}
	return sql.NullString{String: c.Name, Valid: true}, sql.NullInt64{Int64: int64(c.Course), Valid: true}
}
