package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ProfileTypeVolunteer is the envelope tag the backend uses for volunteer profiles
const ProfileTypeVolunteer = "voluntario"

// ErrUnexpectedProfileType is returned when a profile envelope does not carry a volunteer
var ErrUnexpectedProfileType = errors.New("unexpected profile type")

// CategoryItem is an {id, name} pair embedded in a volunteer profile
type CategoryItem struct {
	ID   int    `json:"id"`
	Name string `json:"nombre"`
}

// Skill is a master-list skill
type Skill struct {
	ID   int    `json:"id"`
	Name string `json:"nombre"`
}

// Interest is a master-list interest
type Interest struct {
	ID   int    `json:"id"`
	Name string `json:"nombre"`
}

// Need is a master-list need. Fetched alongside the other categories but unused by the editor.
type Need struct {
	ID   int    `json:"id"`
	Name string `json:"nombre"`
}

// Ods is a sustainable development goal. Fetched alongside the other categories but unused by the editor.
type Ods struct {
	ID          int    `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion,omitempty"`
	Color       string `json:"color,omitempty"`
}

// Cycle is a training cycle identified by its name and course
type Cycle struct {
	Name   string `json:"nombre" yaml:"nombre"`
	Course int    `json:"curso" yaml:"curso"`
}

// FullCycle returns the composite "name (course)" label used for display and for matching back to the cycle
func (c Cycle) FullCycle() string {
	return fmt.Sprintf("%s (%d)", c.Name, c.Course)
}

// CycleLabel is the cycle as carried on a profile. The backend may send either
// a plain label or a {nombre, curso} object; both decode to the display label.
type CycleLabel string

// UnmarshalJSON accepts a string, an object or null
func (l *CycleLabel) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to decode cycle label: %w", err)
		}
		*l = CycleLabel(s)
		return nil
	}

	var c Cycle
	if err := json.Unmarshal(data, &c); err != nil {
		return fmt.Errorf("failed to decode cycle: %w", err)
	}
	if c.Name == "" {
		*l = ""
		return nil
	}
	*l = CycleLabel(c.FullCycle())
	return nil
}

// Volunteer is the remote volunteer profile record
type Volunteer struct {
	DNI            string         `json:"dni"`
	FirstName      string         `json:"nombre"`
	Surname        string         `json:"apellido1"`
	SecondSurname  *string        `json:"apellido2,omitempty"`
	Email          string         `json:"correo"`
	BirthDate      string         `json:"fechaNacimiento"`
	Zone           string         `json:"zona"`
	Experience     string         `json:"experiencia"`
	HasCar         bool           `json:"coche"`
	Cycle          *CycleLabel    `json:"ciclo,omitempty"`
	Languages      []string       `json:"idiomas"`
	Availability   []string       `json:"disponibilidad"`
	Skills         []CategoryItem `json:"habilidades"`
	Interests      []CategoryItem `json:"intereses"`
	VolunteerState string         `json:"estadoVoluntario,omitempty"`
}

// ProfileEnvelope is the tagged {tipo, datos} wrapper returned by the profile endpoint
type ProfileEnvelope struct {
	Tipo  string          `json:"tipo"`
	Datos json.RawMessage `json:"datos"`
}

// DecodeVolunteer decodes the payload as a volunteer, failing if the tag names another profile kind
func (e ProfileEnvelope) DecodeVolunteer() (*Volunteer, error) {
	if e.Tipo != ProfileTypeVolunteer {
		return nil, fmt.Errorf("%w: %q", ErrUnexpectedProfileType, e.Tipo)
	}
	if len(e.Datos) == 0 {
		return nil, fmt.Errorf("profile envelope has no data")
	}

	var v Volunteer
	if err := json.Unmarshal(e.Datos, &v); err != nil {
		return nil, fmt.Errorf("failed to decode volunteer profile: %w", err)
	}
	return &v, nil
}
