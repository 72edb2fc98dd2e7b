package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-profile/pkg/clients/apiclient"
	"github.com/jakechorley/volunteer-profile/pkg/core/model"
	"github.com/jakechorley/volunteer-profile/pkg/core/reconciler"
	"github.com/jakechorley/volunteer-profile/pkg/core/selection"
	"github.com/jakechorley/volunteer-profile/pkg/render"
)

// mockProfileAPI implements ProfileAPI
type mockProfileAPI struct {
	cycles    []model.Cycle
	skills    []model.Skill
	interests []model.Interest
	needs     []model.Need
	ods       []model.Ods
	profile   *model.ProfileEnvelope

	cyclesErr    error
	skillsErr    error
	interestsErr error
	needsErr     error
	odsErr       error
	profileErr   error
	updateErr    error

	calls   []string
	updates []map[string]any

	// onProfile runs inside GetProfile, before it returns
	onProfile func()
}

func (m *mockProfileAPI) GetCycles(ctx context.Context) ([]model.Cycle, error) {
	m.calls = append(m.calls, "cycles")
	return m.cycles, m.cyclesErr
}

func (m *mockProfileAPI) GetOds(ctx context.Context) ([]model.Ods, error) {
	m.calls = append(m.calls, "ods")
	return m.ods, m.odsErr
}

func (m *mockProfileAPI) GetSkills(ctx context.Context) ([]model.Skill, error) {
	m.calls = append(m.calls, "skills")
	return m.skills, m.skillsErr
}

func (m *mockProfileAPI) GetNeeds(ctx context.Context) ([]model.Need, error) {
	m.calls = append(m.calls, "needs")
	return m.needs, m.needsErr
}

func (m *mockProfileAPI) GetInterests(ctx context.Context) ([]model.Interest, error) {
	m.calls = append(m.calls, "interests")
	return m.interests, m.interestsErr
}

func (m *mockProfileAPI) GetProfile(ctx context.Context) (*model.ProfileEnvelope, error) {
	m.calls = append(m.calls, "profile")
	if m.onProfile != nil {
		m.onProfile()
	}
	if m.profileErr != nil {
		return nil, m.profileErr
	}
	return m.profile, nil
}

func (m *mockProfileAPI) UpdateProfile(ctx context.Context, update map[string]any) error {
	m.calls = append(m.calls, "update")
	m.updates = append(m.updates, update)
	return m.updateErr
}

// mockView implements View
type mockView struct {
	shown       int
	hidden      int
	renders     int
	chips       []render.Chip
	onRemove    func(render.Chip)
	toasts      []string
	fieldErrors map[string]string
	dismissed   bool
}

func (v *mockView) ShowLoading() { v.shown++ }
func (v *mockView) HideLoading() { v.hidden++ }
func (v *mockView) Toast(message string) {
	v.toasts = append(v.toasts, message)
}
func (v *mockView) ShowFieldError(field, message string) {
	if v.fieldErrors == nil {
		v.fieldErrors = map[string]string{}
	}
	v.fieldErrors[field] = message
}
func (v *mockView) Dismiss() { v.dismissed = true }

func (v *mockView) Show(chips []render.Chip, onRemove func(render.Chip)) {
	v.renders++
	v.chips = chips
	v.onRemove = onRemove
}

// remove simulates the user tapping the close icon of the chip at index i
func (v *mockView) remove(i int) {
	chip := v.chips[i]
	v.chips = append(v.chips[:i:i], v.chips[i+1:]...)
	v.onRemove(chip)
}

func volunteerEnvelope(t *testing.T, v model.Volunteer) *model.ProfileEnvelope {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return &model.ProfileEnvelope{Tipo: model.ProfileTypeVolunteer, Datos: data}
}

func strPtr(s string) *string { return &s }

func cyclePtr(s string) *model.CycleLabel {
	l := model.CycleLabel(s)
	return &l
}

func sampleAPI(t *testing.T) *mockProfileAPI {
	return &mockProfileAPI{
		cycles: []model.Cycle{
			{Name: "DAM", Course: 2},
			{Name: "ASIR", Course: 1},
		},
		skills: []model.Skill{
			{ID: 1, Name: "Cocina"},
			{ID: 2, Name: "Conducción"},
			{ID: 3, Name: "Informática"},
		},
		interests: []model.Interest{
			{ID: 10, Name: "Medio ambiente"},
			{ID: 11, Name: "Infancia"},
		},
		profile: volunteerEnvelope(t, model.Volunteer{
			DNI:           "12345678A",
			FirstName:     "Ana",
			Surname:       "García",
			SecondSurname: strPtr("López"),
			Email:         "ana@example.com",
			BirthDate:     "2001-04-09",
			Zone:          "Pamplona",
			Experience:    "Comedor social",
			HasCar:        true,
			Cycle:         cyclePtr("DAM (2)"),
			Languages:     []string{"Inglés"},
			Availability:  []string{"Lunes Mañana"},
			Skills:        []model.CategoryItem{{ID: 3, Name: "Informática"}, {ID: 1, Name: "Cocina"}},
			Interests:     []model.CategoryItem{{ID: 11, Name: "Infancia"}, {ID: 99, Name: "Retirado"}},
		}),
	}
}

func loadedSession(t *testing.T) (*EditSession, *mockProfileAPI, *mockView) {
	t.Helper()
	api := sampleAPI(t)
	view := &mockView{}
	s := NewEditSession(api, view, zap.NewNop())
	_, err := s.Load(context.Background())
	require.NoError(t, err)
	return s, api, view
}

func chipLabels(chips []render.Chip) []string {
	labels := make([]string, 0, len(chips))
	for _, c := range chips {
		labels = append(labels, c.Label)
	}
	return labels
}

func TestEditSession_Load(t *testing.T) {
	s, api, view := loadedSession(t)

	assert.Equal(t, []string{"cycles", "ods", "skills", "needs", "interests", "profile"}, api.calls)
	assert.Equal(t, 1, view.shown)
	assert.Equal(t, 1, view.hidden)
	assert.True(t, s.Loaded())

	form := s.Form()
	assert.Equal(t, "Ana García López", form.FullName)
	assert.Equal(t, "12345678A", form.DNI)
	assert.Equal(t, "ana@example.com", form.Email)
	assert.Equal(t, reconciler.CarYes, form.Car)
	assert.Equal(t, "DAM (2)", form.Cycle)

	// Skills follow master order; the dangling interest ID renders nothing
	assert.Equal(t, []string{"Inglés", "Lunes Mañana", "Cocina", "Informática", "Infancia"}, chipLabels(view.chips))
	assert.Equal(t, []string{"DAM (2)", "ASIR (1)"}, s.CycleLabels())
}

func TestEditSession_LoadContinuesPastFailures(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(api *mockProfileAPI)
		wantFailed  []string
		wantLoaded  bool
		wantSkills  int
		wantCycles  int
		wantRenders int
	}{
		{
			name:        "cycles fail",
			mutate:      func(api *mockProfileAPI) { api.cyclesErr = errors.New("boom") },
			wantFailed:  []string{StageCycles},
			wantLoaded:  true,
			wantSkills:  3,
			wantCycles:  0,
			wantRenders: 1,
		},
		{
			name:        "skills fail",
			mutate:      func(api *mockProfileAPI) { api.skillsErr = errors.New("boom") },
			wantFailed:  []string{StageCategories},
			wantLoaded:  true,
			wantSkills:  0,
			wantCycles:  2,
			wantRenders: 1,
		},
		{
			name:        "profile fails",
			mutate:      func(api *mockProfileAPI) { api.profileErr = errors.New("boom") },
			wantFailed:  []string{StageProfile},
			wantLoaded:  false,
			wantSkills:  3,
			wantCycles:  2,
			wantRenders: 0,
		},
		{
			name: "profile of another kind",
			mutate: func(api *mockProfileAPI) {
				api.profile = &model.ProfileEnvelope{Tipo: "organizacion", Datos: json.RawMessage(`{}`)}
			},
			wantFailed:  []string{StageProfile},
			wantLoaded:  false,
			wantSkills:  3,
			wantCycles:  2,
			wantRenders: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := sampleAPI(t)
			tt.mutate(api)
			view := &mockView{}
			s := NewEditSession(api, view, zap.NewNop())

			report, err := s.Load(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.wantFailed, report.Failed())
			assert.Contains(t, api.calls, "profile")
			assert.Equal(t, tt.wantLoaded, s.Loaded())
			assert.Len(t, s.Skills(), tt.wantSkills)
			assert.Len(t, s.Cycles(), tt.wantCycles)
			assert.Equal(t, tt.wantRenders, view.renders)
			assert.Equal(t, 1, view.hidden)
			assert.Empty(t, view.toasts)
		})
	}
}

func TestEditSession_LoadWrapsDecodeError(t *testing.T) {
	api := sampleAPI(t)
	api.profile = &model.ProfileEnvelope{Tipo: "organizacion", Datos: json.RawMessage(`{}`)}
	s := NewEditSession(api, &mockView{}, zap.NewNop())

	report, err := s.Load(context.Background())
	require.NoError(t, err)

	var profileErr error
	for _, o := range report.Outcomes {
		if o.Stage == StageProfile {
			profileErr = o.Err
		}
	}
	require.Error(t, profileErr)
	assert.ErrorIs(t, profileErr, model.ErrUnexpectedProfileType)
	assert.Contains(t, profileErr.Error(), "failed to decode profile")
}

func TestEditSession_LoadAfterClose(t *testing.T) {
	api := sampleAPI(t)
	view := &mockView{}
	s := NewEditSession(api, view, zap.NewNop())

	api.onProfile = s.Close

	_, err := s.Load(context.Background())
	require.NoError(t, err)

	// The profile completion arrived after teardown and touched nothing
	assert.False(t, s.Loaded())
	assert.Equal(t, 0, view.renders)
	assert.Equal(t, 1, view.shown)
	assert.Equal(t, 0, view.hidden)

	_, err = s.Load(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestEditSession_AddLanguage(t *testing.T) {
	s, _, view := loadedSession(t)
	renders := view.renders

	s.SetLanguageInput("")
	assert.False(t, s.AddLanguage())

	s.SetLanguageInput("Inglés")
	assert.False(t, s.AddLanguage())
	assert.Equal(t, "Inglés", s.LanguageInput())
	assert.Equal(t, renders, view.renders)

	s.SetLanguageInput("Euskera")
	assert.True(t, s.AddLanguage())
	assert.Empty(t, s.LanguageInput())
	assert.Equal(t, renders+1, view.renders)
	assert.Equal(t, []string{"Inglés", "Euskera"}, s.Selection().Languages.Items())
}

func TestEditSession_AddAvailability(t *testing.T) {
	s, _, view := loadedSession(t)

	s.SetAvailabilityInput("Martes", "")
	assert.False(t, s.AddAvailability())

	s.SetAvailabilityInput("Lunes", "Mañana")
	assert.False(t, s.AddAvailability())

	s.SetAvailabilityInput("Martes", "Tarde")
	assert.True(t, s.AddAvailability())

	day, slot := s.AvailabilityInput()
	assert.Empty(t, day)
	assert.Empty(t, slot)
	assert.Equal(t, []string{"Lunes Mañana", "Martes Tarde"}, s.Selection().Availability.Items())
	assert.Contains(t, chipLabels(view.chips), "Martes Tarde")
}

func TestEditSession_RemoveChip(t *testing.T) {
	s, _, view := loadedSession(t)
	renders := view.renders

	// "Cocina" is the third chip
	view.remove(2)

	assert.False(t, s.Selection().SkillIDs.Contains(1))
	assert.True(t, s.Selection().SkillIDs.Contains(3))
	assert.Equal(t, renders, view.renders)
	assert.Equal(t, []string{"Inglés", "Lunes Mañana", "Informática", "Infancia"}, chipLabels(view.chips))
}

func TestEditSession_SelectionSheet(t *testing.T) {
	s, _, view := loadedSession(t)

	rows := s.SelectionSheet(SheetSkills)
	assert.Equal(t, []SheetRow{
		{ID: 1, Name: "Cocina", Checked: true},
		{ID: 2, Name: "Conducción", Checked: false},
		{ID: 3, Name: "Informática", Checked: true},
	}, rows)

	err := s.ApplySelection(SheetSkills, []selection.Toggle{
		{ID: 2, Checked: true},
		{ID: 3, Checked: false},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Inglés", "Lunes Mañana", "Cocina", "Conducción", "Infancia"}, chipLabels(view.chips))

	err = s.ApplySelection(SheetInterests, []selection.Toggle{{ID: 10, Checked: true}})
	require.NoError(t, err)
	assert.Equal(t, []SheetRow{
		{ID: 10, Name: "Medio ambiente", Checked: true},
		{ID: 11, Name: "Infancia", Checked: true},
	}, s.SelectionSheet(SheetInterests))

	assert.Error(t, s.ApplySelection(SheetKind("ods"), nil))
}

func TestEditSession_SetBirthDate(t *testing.T) {
	s := NewEditSession(sampleAPI(t), &mockView{}, zap.NewNop())
	s.SetBirthDate(1999, 3, 7)
	assert.Equal(t, "1999-03-07", s.Form().BirthDate)
}

func TestEditSession_Save(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s, api, view := loadedSession(t)
		s.SetZone("Tudela")

		require.NoError(t, s.Save(context.Background()))

		require.Len(t, api.updates, 1)
		update := api.updates[0]
		assert.Equal(t, "Ana", update[reconciler.KeyFirstName])
		assert.Equal(t, "García", update[reconciler.KeySurname])
		assert.Equal(t, "López", update[reconciler.KeySecondSurname])
		assert.Equal(t, "Tudela", update[reconciler.KeyZone])
		assert.Equal(t, model.Cycle{Name: "DAM", Course: 2}, update[reconciler.KeyCycle])
		assert.Equal(t, []int{3, 1}, update[reconciler.KeySkills])

		assert.Equal(t, []string{MsgProfileUpdated}, view.toasts)
		assert.True(t, view.dismissed)
		assert.Equal(t, SaveDone, s.SaveState())
		assert.False(t, s.Attached())
		assert.ErrorIs(t, s.Save(context.Background()), ErrSessionClosed)
	})

	t.Run("empty name", func(t *testing.T) {
		s, api, view := loadedSession(t)
		s.SetFullName("")

		err := s.Save(context.Background())
		assert.ErrorIs(t, err, reconciler.ErrNameRequired)
		assert.Equal(t, reconciler.ErrNameRequired.Error(), view.fieldErrors[FieldFullName])
		assert.Empty(t, api.updates)
		assert.Equal(t, SaveIdle, s.SaveState())
		assert.True(t, s.Attached())
	})

	t.Run("server rejection", func(t *testing.T) {
		s, api, view := loadedSession(t)
		api.updateErr = &apiclient.APIError{Message: "invalid", StatusCode: http.StatusBadRequest}

		err := s.Save(context.Background())
		require.Error(t, err)
		assert.True(t, apiclient.IsStatus(err, http.StatusBadRequest))
		assert.Equal(t, []string{MsgSaveFailed}, view.toasts)
		assert.False(t, view.dismissed)
		assert.Equal(t, SaveIdle, s.SaveState())
		assert.Equal(t, "Ana García López", s.Form().FullName)
	})

	t.Run("network failure then retry", func(t *testing.T) {
		s, api, view := loadedSession(t)
		api.updateErr = &apiclient.APIError{Message: "request failed", Cause: errors.New("connection refused")}

		require.Error(t, s.Save(context.Background()))
		assert.Equal(t, []string{MsgNetworkError}, view.toasts)

		api.updateErr = nil
		require.NoError(t, s.Save(context.Background()))
		assert.Len(t, api.updates, 2)
		assert.True(t, view.dismissed)
	})

	t.Run("unmatched cycle sent as text", func(t *testing.T) {
		s, api, _ := loadedSession(t)
		s.SetCycle("SMR (1)")

		require.NoError(t, s.Save(context.Background()))
		assert.Equal(t, "SMR (1)", api.updates[0][reconciler.KeyCycle])
	})
}
