package reconciler

import (
	"errors"
	"strings"

	"github.com/jakechorley/volunteer-profile/pkg/core/model"
	"github.com/jakechorley/volunteer-profile/pkg/core/selection"
	"github.com/jakechorley/volunteer-profile/pkg/render"
)

// Car flag tokens, as shown on the form and sent to the backend
const (
	CarYes = "Si"
	CarNo  = "No"
)

// Update payload keys
const (
	KeyFirstName     = "nombre"
	KeySurname       = "apellido1"
	KeySecondSurname = "apellido2"
	KeyZone          = "zona"
	KeyExperience    = "experiencia"
	KeyBirthDate     = "fechaNacimiento"
	KeyCar           = "coche"
	KeyLanguages     = "idiomas"
	KeyAvailability  = "disponibilidad"
	KeySkills        = "habilidades"
	KeyInterests     = "intereses"
	KeyCycle         = "ciclo"
)

// ErrNameRequired is returned by Validate when the full name field is empty
var ErrNameRequired = errors.New("el nombre es obligatorio")

// Form holds the raw text fields of the profile form
type Form struct {
	FullName   string
	DNI        string
	Email      string
	BirthDate  string
	Zone       string
	Experience string
	Car        string
	Cycle      string
}

// UpdatePayload is the outbound field -> value mapping sent to the profile update endpoint
type UpdatePayload map[string]any

// CarToken renders the car flag as one of the two fixed tokens
func CarToken(hasCar bool) string {
	if hasCar {
		return CarYes
	}
	return CarNo
}

// JoinFullName assembles "first surname [second]" and trims the result.
// The second surname is only appended when present and non-empty.
func JoinFullName(firstName, surname string, secondSurname *string) string {
	full := firstName + " " + surname
	if secondSurname != nil && *secondSurname != "" {
		full += " " + *secondSurname
	}
	return strings.TrimSpace(full)
}

// Seed populates the form and resets the selection state from a fetched profile.
// Seeding twice from the same profile yields the same state.
func Seed(v *model.Volunteer, form *Form, state *selection.State) {
	form.FullName = JoinFullName(v.FirstName, v.Surname, v.SecondSurname)
	form.DNI = v.DNI
	form.Email = v.Email
	form.BirthDate = v.BirthDate
	form.Zone = v.Zone
	form.Experience = v.Experience
	form.Car = CarToken(v.HasCar)
	if v.Cycle != nil {
		form.Cycle = string(*v.Cycle)
	}

	state.Reset()
	state.Languages.Replace(v.Languages)
	state.Availability.Replace(v.Availability)

	// Names from the profile are dropped; chips resolve labels against the master lists
	state.SkillIDs.Replace(categoryIDs(v.Skills))
	state.InterestIDs.Replace(categoryIDs(v.Interests))
}

func categoryIDs(items []model.CategoryItem) []int {
	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

// Render projects the selection state onto an ordered chip list:
// languages, availability, then skills and interests in master-list order.
// Selected IDs missing from the master lists produce no chip.
func Render(state *selection.State, skills []model.Skill, interests []model.Interest) []render.Chip {
	var chips []render.Chip

	for _, lang := range state.Languages.Items() {
		chips = append(chips, render.Chip{Label: lang, Category: render.CategoryLanguage, Removable: true, Value: lang})
	}
	for _, slot := range state.Availability.Items() {
		chips = append(chips, render.Chip{Label: slot, Category: render.CategoryAvailability, Removable: true, Value: slot})
	}
	for _, s := range skills {
		if state.SkillIDs.Contains(s.ID) {
			chips = append(chips, render.Chip{Label: s.Name, Category: render.CategorySkill, Removable: true, ID: s.ID})
		}
	}
	for _, i := range interests {
		if state.InterestIDs.Contains(i.ID) {
			chips = append(chips, render.Chip{Label: i.Name, Category: render.CategoryInterest, Removable: true, ID: i.ID})
		}
	}

	return chips
}

// RemoveChip removes the chip's item from its owning collection
func RemoveChip(state *selection.State, chip render.Chip) bool {
	switch chip.Category {
	case render.CategoryLanguage:
		return state.Languages.Remove(chip.Value)
	case render.CategoryAvailability:
		return state.Availability.Remove(chip.Value)
	case render.CategorySkill:
		return state.SkillIDs.Remove(chip.ID)
	case render.CategoryInterest:
		return state.InterestIDs.Remove(chip.ID)
	}
	return false
}

// SplitFullName splits the trimmed name on single spaces into first name, surname
// and second surname. Missing parts are empty and anything past the third token is dropped.
func SplitFullName(fullName string) (firstName, surname, secondSurname string) {
	parts := strings.Split(strings.TrimSpace(fullName), " ")
	part := func(i int) string {
		if len(parts) > i {
			return parts[i]
		}
		return ""
	}
	return part(0), part(1), part(2)
}

// ResolveCycle finds the master cycle whose display label equals label
func ResolveCycle(label string, cycles []model.Cycle) (model.Cycle, bool) {
	for _, c := range cycles {
		if c.FullCycle() == label {
			return c, true
		}
	}
	return model.Cycle{}, false
}

// Validate checks the form before submission. Only the full name is required.
func Validate(form *Form) error {
	if form.FullName == "" {
		return ErrNameRequired
	}
	return nil
}

// BuildPayload assembles the update request from the form and selection state.
// The cycle is sent as the matched master cycle, or as the raw label when nothing matches.
func BuildPayload(form *Form, state *selection.State, cycles []model.Cycle) UpdatePayload {
	firstName, surname, secondSurname := SplitFullName(form.FullName)

	payload := UpdatePayload{
		KeyFirstName:     firstName,
		KeySurname:       surname,
		KeySecondSurname: secondSurname,
		KeyZone:          form.Zone,
		KeyExperience:    form.Experience,
		KeyBirthDate:     form.BirthDate,
		KeyCar:           form.Car,
		KeyLanguages:     state.Languages.Items(),
		KeyAvailability:  state.Availability.Items(),
		KeySkills:        state.SkillIDs.Items(),
		KeyInterests:     state.InterestIDs.Items(),
	}

	if cycle, ok := ResolveCycle(form.Cycle, cycles); ok {
		payload[KeyCycle] = cycle
	} else {
		payload[KeyCycle] = form.Cycle
	}

	return payload
}
