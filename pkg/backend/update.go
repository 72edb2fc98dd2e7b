package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-profile/pkg/core/model"
	"github.com/jakechorley/volunteer-profile/pkg/db"
)

// Car tokens accepted for the coche field
const (
	carYes = "Si"
	carNo  = "No"
)

var validate = validator.New()

// profileUpdateRequest is the body of PUT /api/auth/profile. Absent keys leave the stored value untouched,
// as does an empty fechaNacimiento.
type profileUpdateRequest struct {
	FirstName     *string         `json:"nombre" validate:"omitempty,max=100"`
	Surname       *string         `json:"apellido1" validate:"omitempty,max=100"`
	SecondSurname *string         `json:"apellido2" validate:"omitempty,max=100"`
	BirthDate     *string         `json:"fechaNacimiento" validate:"omitempty,datetime=2006-01-02"`
	Zone          *string         `json:"zona" validate:"omitempty,max=100"`
	Experience    *string         `json:"experiencia" validate:"omitempty,max=500"`
	Car           json.RawMessage `json:"coche"`
	Cycle         json.RawMessage `json:"ciclo"`
	Languages     *[]string       `json:"idiomas" validate:"omitempty,dive,required"`
	Availability  *[]string       `json:"disponibilidad" validate:"omitempty,dive,required"`
	SkillIDs      *[]int          `json:"habilidades"`
	InterestIDs   *[]int          `json:"intereses"`
}

// updateReferences are the master lists an update is checked against
type updateReferences struct {
	cycles    []model.Cycle
	skills    []db.Category
	interests []db.Category
}

// toUpdate validates the request and resolves it against the master lists.
// Unknown skill and interest IDs are dropped. An unknown cycle clears the stored one.
func (r *profileUpdateRequest) toUpdate(refs updateReferences, logger *zap.Logger) (*db.VolunteerUpdate, error) {
	// omitempty only skips nil pointers, so an empty date has to be dropped first
	if r.BirthDate != nil && *r.BirthDate == "" {
		r.BirthDate = nil
	}
	if err := validate.Struct(r); err != nil {
		return nil, err
	}

	u := &db.VolunteerUpdate{
		FirstName:     r.FirstName,
		Surname:       r.Surname,
		SecondSurname: r.SecondSurname,
		BirthDate:     r.BirthDate,
		Zone:          r.Zone,
		Experience:    r.Experience,
		Languages:     r.Languages,
		Availability:  r.Availability,
	}

	hasCar, err := parseCar(r.Car)
	if err != nil {
		return nil, err
	}
	u.HasCar = hasCar

	if len(r.Cycle) > 0 {
		cycle, known, err := resolveCycle(r.Cycle, refs.cycles)
		if err != nil {
			return nil, err
		}
		if !known {
			logger.Warn("Unknown cycle in profile update, clearing", zap.ByteString("ciclo", r.Cycle))
		}
		u.Cycle = &db.CycleChange{Cycle: cycle}
	}

	if r.SkillIDs != nil {
		ids := knownIDs(*r.SkillIDs, refs.skills)
		u.SkillIDs = &ids
	}
	if r.InterestIDs != nil {
		ids := knownIDs(*r.InterestIDs, refs.interests)
		u.InterestIDs = &ids
	}

	return u, nil
}

// parseCar accepts the "Si"/"No" tokens or a JSON boolean. An empty token leaves the flag unchanged.
func parseCar(raw json.RawMessage) (*bool, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return &b, nil
	}

	var token string
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, fmt.Errorf("coche must be a string or boolean")
	}

	switch token {
	case "":
		return nil, nil
	case carYes:
		b = true
	case carNo:
		b = false
	default:
		return nil, fmt.Errorf("coche must be %q or %q, got %q", carYes, carNo, token)
	}
	return &b, nil
}

// resolveCycle matches the ciclo value against the master cycles. It accepts null,
// a {nombre, curso} object, a "Nombre (Curso)" label or a bare name. The returned
// cycle is nil when the value is empty or unknown; known reports whether a
// non-empty value matched.
func resolveCycle(raw json.RawMessage, cycles []model.Cycle) (*model.Cycle, bool, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, true, nil
	}

	var label string
	if err := json.Unmarshal(raw, &label); err == nil {
		if label == "" {
			return nil, true, nil
		}
		for i := range cycles {
			if cycles[i].FullCycle() == label {
				return &cycles[i], true, nil
			}
		}
		for i := range cycles {
			if cycles[i].Name == label {
				return &cycles[i], true, nil
			}
		}
		return nil, false, nil
	}

	var c model.Cycle
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, false, fmt.Errorf("ciclo must be a string or an object with nombre and curso")
	}
	if c.Name == "" {
		return nil, true, nil
	}
	if i := slices.Index(cycles, c); i >= 0 {
		return &cycles[i], true, nil
	}
	return nil, false, nil
}

func knownIDs(ids []int, master []db.Category) []int {
	known := make([]int, 0, len(ids))
	for _, id := range ids {
		if slices.ContainsFunc(master, func(c db.Category) bool { return c.ID == id }) {
			known = append(known, id)
		}
	}
	return known
}
