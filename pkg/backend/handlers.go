package backend

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-profile/pkg/core/model"
	"github.com/jakechorley/volunteer-profile/pkg/db"
)

// volunteerResponse is the datos payload of the profile envelope.
// The cycle is sent as an object; skills and interests carry their names.
type volunteerResponse struct {
	DNI            string               `json:"dni"`
	FirstName      string               `json:"nombre"`
	Surname        string               `json:"apellido1"`
	SecondSurname  *string              `json:"apellido2"`
	Email          string               `json:"correo"`
	BirthDate      string               `json:"fechaNacimiento"`
	Zone           string               `json:"zona"`
	Experience     string               `json:"experiencia"`
	HasCar         bool                 `json:"coche"`
	Cycle          *model.Cycle         `json:"ciclo"`
	Languages      []string             `json:"idiomas"`
	Availability   []string             `json:"disponibilidad"`
	Skills         []model.CategoryItem `json:"habilidades"`
	Interests      []model.CategoryItem `json:"intereses"`
	VolunteerState string               `json:"estadoVoluntario"`
}

type profileEnvelope struct {
	Tipo  string            `json:"tipo"`
	Datos volunteerResponse `json:"datos"`
}

func (s *Server) handleGetCycles(w http.ResponseWriter, r *http.Request) {
	cycles, err := s.store.GetCycles(r.Context())
	if err != nil {
		s.internalError(w, r, "Failed to get cycles", err)
		return
	}
	writeJSON(w, http.StatusOK, cycles)
}

func (s *Server) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	kind, err := db.ParseCategoryKind(mux.Vars(r)["kind"])
	if err != nil {
		writeError(w, http.StatusNotFound, msgUnknownCategory, err.Error())
		return
	}

	categories, err := s.store.GetCategories(r.Context(), kind)
	if err != nil {
		s.internalError(w, r, "Failed to get categories", err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	v, err := s.store.GetVolunteer(ctx, volunteerDNI(ctx))
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgVolunteerNotFound, nil)
		return
	}
	if err != nil {
		s.internalError(w, r, "Failed to get volunteer", err)
		return
	}

	skills, err := s.store.GetCategories(ctx, db.CategorySkills)
	if err != nil {
		s.internalError(w, r, "Failed to get skills", err)
		return
	}
	interests, err := s.store.GetCategories(ctx, db.CategoryInterests)
	if err != nil {
		s.internalError(w, r, "Failed to get interests", err)
		return
	}

	writeJSON(w, http.StatusOK, profileEnvelope{
		Tipo:  model.ProfileTypeVolunteer,
		Datos: toVolunteerResponse(v, skills, interests),
	})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody, err.Error())
		return
	}

	v, err := s.store.GetVolunteer(ctx, volunteerDNI(ctx))
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, msgVolunteerNotFound, nil)
		return
	}
	if err != nil {
		s.internalError(w, r, "Failed to get volunteer", err)
		return
	}

	refs, err := s.updateReferences(r)
	if err != nil {
		s.internalError(w, r, "Failed to load reference data", err)
		return
	}

	update, err := req.toUpdate(refs, s.logger.With(zap.String("request_id", requestID(ctx))))
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidUpdate, validationDetails(err))
		return
	}

	v.Apply(update)
	if err := s.store.SaveVolunteer(ctx, v); err != nil {
		s.logger.Error("Failed to save volunteer", zap.String("dni", v.DNI), zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgUpdateFailed, err.Error())
		return
	}

	s.logger.Info("Profile updated", zap.String("dni", v.DNI), zap.String("request_id", requestID(ctx)))
	writeJSON(w, http.StatusOK, map[string]string{"message": msgProfileUpdated})
}

func (s *Server) updateReferences(r *http.Request) (updateReferences, error) {
	ctx := r.Context()
	var refs updateReferences
	var err error

	if refs.cycles, err = s.store.GetCycles(ctx); err != nil {
		return refs, err
	}
	if refs.skills, err = s.store.GetCategories(ctx, db.CategorySkills); err != nil {
		return refs, err
	}
	if refs.interests, err = s.store.GetCategories(ctx, db.CategoryInterests); err != nil {
		return refs, err
	}
	return refs, nil
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.logger.Error(msg, zap.String("request_id", requestID(r.Context())), zap.Error(err))
	writeError(w, http.StatusInternalServerError, msgInternal, nil)
}

// validationDetails lists the failing fields of a validator error, or the error text otherwise
func validationDetails(err error) any {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	return details
}

func toVolunteerResponse(v *db.VolunteerRecord, skills, interests []db.Category) volunteerResponse {
	return volunteerResponse{
		DNI:            v.DNI,
		FirstName:      v.FirstName,
		Surname:        v.Surname,
		SecondSurname:  v.SecondSurname,
		Email:          v.Email,
		BirthDate:      v.BirthDate,
		Zone:           v.Zone,
		Experience:     v.Experience,
		HasCar:         v.HasCar,
		Cycle:          v.Cycle,
		Languages:      nonNilStrings(v.Languages),
		Availability:   nonNilStrings(v.Availability),
		Skills:         namedItems(v.SkillIDs, skills),
		Interests:      namedItems(v.InterestIDs, interests),
		VolunteerState: v.VolunteerState,
	}
}

// namedItems pairs each ID with its master-list name, in the volunteer's order. IDs no longer in the list are skipped.
func namedItems(ids []int, master []db.Category) []model.CategoryItem {
	names := make(map[int]string, len(master))
	for _, c := range master {
		names[c.ID] = c.Name
	}

	items := make([]model.CategoryItem, 0, len(ids))
	for _, id := range ids {
		if name, ok := names[id]; ok {
			items = append(items, model.CategoryItem{ID: id, Name: name})
		}
	}
	return items
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
