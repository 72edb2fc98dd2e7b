package db

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jakechorley/volunteer-profile/pkg/core/model"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// CategoryKind names one of the category master lists
type CategoryKind string

const (
	CategorySkills    CategoryKind = "habilidades"
	CategoryInterests CategoryKind = "intereses"
	CategoryNeeds     CategoryKind = "necesidades"
	CategoryOds       CategoryKind = "ods"
)

// CategoryKinds lists every kind in the order they are served
var CategoryKinds = []CategoryKind{CategorySkills, CategoryInterests, CategoryNeeds, CategoryOds}

// ParseCategoryKind validates a kind taken from a URL or flag
func ParseCategoryKind(s string) (CategoryKind, error) {
	for _, k := range CategoryKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown category kind %q", s)
}

// Category is a row of a category master list. Description and Color are only set for ODS.
type Category struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"nombre" yaml:"nombre"`
	Description string `json:"descripcion,omitempty" yaml:"descripcion,omitempty"`
	Color       string `json:"color,omitempty" yaml:"color,omitempty"`
}

// VolunteerRecord is a stored volunteer profile. Skills and interests are kept as ID lists.
type VolunteerRecord struct {
	DNI            string       `yaml:"dni"`
	FirstName      string       `yaml:"nombre"`
	Surname        string       `yaml:"apellido1"`
	SecondSurname  *string      `yaml:"apellido2,omitempty"`
	Email          string       `yaml:"correo"`
	BirthDate      string       `yaml:"fechaNacimiento"`
	Zone           string       `yaml:"zona"`
	Experience     string       `yaml:"experiencia"`
	HasCar         bool         `yaml:"coche"`
	Cycle          *model.Cycle `yaml:"ciclo,omitempty"`
	Languages      []string     `yaml:"idiomas"`
	Availability   []string     `yaml:"disponibilidad"`
	SkillIDs       []int        `yaml:"habilidades"`
	InterestIDs    []int        `yaml:"intereses"`
	VolunteerState string       `yaml:"estadoVoluntario"`
}

// CycleChange sets the volunteer's cycle. A nil Cycle clears it.
type CycleChange struct {
	Cycle *model.Cycle
}

// VolunteerUpdate lists the profile fields to change. Nil fields are left untouched.
type VolunteerUpdate struct {
	FirstName     *string
	Surname       *string
	SecondSurname *string
	BirthDate     *string
	Zone          *string
	Experience    *string
	HasCar        *bool
	Cycle         *CycleChange
	Languages     *[]string
	Availability  *[]string
	SkillIDs      *[]int
	InterestIDs   *[]int
}

// Apply copies every set field of u onto v. An empty second surname is stored as absent.
func (v *VolunteerRecord) Apply(u *VolunteerUpdate) {
	if u.FirstName != nil {
		v.FirstName = *u.FirstName
	}
	if u.Surname != nil {
		v.Surname = *u.Surname
	}
	if u.SecondSurname != nil {
		if *u.SecondSurname == "" {
			v.SecondSurname = nil
		} else {
			s := *u.SecondSurname
			v.SecondSurname = &s
		}
	}
	if u.BirthDate != nil {
		v.BirthDate = *u.BirthDate
	}
	if u.Zone != nil {
		v.Zone = *u.Zone
	}
	if u.Experience != nil {
		v.Experience = *u.Experience
	}
	if u.HasCar != nil {
		v.HasCar = *u.HasCar
	}
	if u.Cycle != nil {
		v.Cycle = u.Cycle.Cycle
	}
	if u.Languages != nil {
		v.Languages = append([]string{}, *u.Languages...)
	}
	if u.Availability != nil {
		v.Availability = append([]string{}, *u.Availability...)
	}
	if u.SkillIDs != nil {
		v.SkillIDs = append([]int{}, *u.SkillIDs...)
	}
	if u.InterestIDs != nil {
		v.InterestIDs = append([]int{}, *u.InterestIDs...)
	}
}

// ListColumns is the JSON encoding of the list fields, as stored in the volunteer row
type ListColumns struct {
	Languages    string
	Availability string
	SkillIDs     string
	InterestIDs  string
}

// EncodeLists serialises the list fields. Nil lists are stored as empty arrays.
func (v *VolunteerRecord) EncodeLists() (ListColumns, error) {
	var cols ListColumns
	for _, f := range []struct {
		dst *string
		val any
	}{
		{&cols.Languages, nonNil(v.Languages)},
		{&cols.Availability, nonNil(v.Availability)},
		{&cols.SkillIDs, nonNil(v.SkillIDs)},
		{&cols.InterestIDs, nonNil(v.InterestIDs)},
	} {
		data, err := json.Marshal(f.val)
		if err != nil {
			return ListColumns{}, fmt.Errorf("failed to encode volunteer lists: %w", err)
		}
		*f.dst = string(data)
	}
	return cols, nil
}

// DecodeLists fills the list fields from their stored encoding
func (v *VolunteerRecord) DecodeLists(cols ListColumns) error {
	if err := json.Unmarshal([]byte(cols.Languages), &v.Languages); err != nil {
		return fmt.Errorf("failed to decode languages: %w", err)
	}
	if err := json.Unmarshal([]byte(cols.Availability), &v.Availability); err != nil {
		return fmt.Errorf("failed to decode availability: %w", err)
	}
	if err := json.Unmarshal([]byte(cols.SkillIDs), &v.SkillIDs); err != nil {
		return fmt.Errorf("failed to decode skills: %w", err)
	}
	if err := json.Unmarshal([]byte(cols.InterestIDs), &v.InterestIDs); err != nil {
		return fmt.Errorf("failed to decode interests: %w", err)
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
