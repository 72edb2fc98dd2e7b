package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-profile/pkg/clients/apiclient"
	"github.com/jakechorley/volunteer-profile/pkg/core/bootstrap"
	"github.com/jakechorley/volunteer-profile/pkg/core/model"
	"github.com/jakechorley/volunteer-profile/pkg/core/reconciler"
	"github.com/jakechorley/volunteer-profile/pkg/core/selection"
	"github.com/jakechorley/volunteer-profile/pkg/render"
)

// User-facing messages
const (
	MsgProfileUpdated = "Perfil actualizado"
	MsgSaveFailed     = "Error al guardar"
	MsgNetworkError   = "Error de red"
	FieldFullName     = "nombre"
)

// Stage names of the profile load
const (
	StageCycles     = "cycles"
	StageCategories = "categories"
	StageProfile    = "profile"
)

var (
	// ErrSessionClosed is returned by operations invoked after Close
	ErrSessionClosed = errors.New("edit session is closed")
	// ErrSaveInProgress is returned when Save is called while a save is running
	ErrSaveInProgress = errors.New("save already in progress")
)

// SaveState is the state of the save operation
type SaveState string

const (
	SaveIdle       SaveState = "idle"
	SaveValidating SaveState = "validating"
	SaveSaving     SaveState = "saving"
	SaveDone       SaveState = "done"
)

// SheetKind selects which master list a multi-select sheet shows
type SheetKind string

const (
	SheetSkills    SheetKind = "skills"
	SheetInterests SheetKind = "interests"
)

// ProfileAPI defines the backend calls the edit session needs
type ProfileAPI interface {
	CategoryClient
	GetCycles(ctx context.Context) ([]model.Cycle, error)
	GetProfile(ctx context.Context) (*model.ProfileEnvelope, error)
	UpdateProfile(ctx context.Context, update map[string]any) error
}

// View is the screen the session drives
type View interface {
	render.Sink
	ShowLoading()
	HideLoading()
	Toast(message string)
	ShowFieldError(field, message string)
	Dismiss()
}

// SheetRow is one entry of a multi-select sheet
type SheetRow struct {
	ID      int
	Name    string
	Checked bool
}

// EditSession holds the state of one profile edit, from load to save
type EditSession struct {
	api    ProfileAPI
	view   View
	logger *zap.Logger

	attached atomic.Bool

	cycles    []model.Cycle
	skills    []model.Skill
	interests []model.Interest
	volunteer *model.Volunteer

	form      reconciler.Form
	selection *selection.State

	languageInput string
	dayInput      string
	timeSlotInput string

	saveState SaveState
}

// NewEditSession creates a session attached to view
func NewEditSession(api ProfileAPI, view View, logger *zap.Logger) *EditSession {
	s := &EditSession{
		api:       api,
		view:      view,
		logger:    logger,
		selection: selection.New(),
		saveState: SaveIdle,
	}
	s.attached.Store(true)
	return s
}

// Close detaches the session from its view. Completions arriving afterwards are ignored.
func (s *EditSession) Close() {
	s.attached.Store(false)
}

// Attached reports whether the session is still bound to its view
func (s *EditSession) Attached() bool {
	return s.attached.Load()
}

// loadingIndicator forwards to the view only while the session is attached
type loadingIndicator struct {
	s *EditSession
}

func (i loadingIndicator) Show() {
	if i.s.Attached() {
		i.s.view.ShowLoading()
	}
}

func (i loadingIndicator) Hide() {
	if i.s.Attached() {
		i.s.view.HideLoading()
	}
}

// Load fetches cycles, then categories, then the profile. Reference data failures leave
// the affected lists empty and the chain carries on; a profile failure leaves the form
// unpopulated. The loading indicator is hidden once, when the profile fetch completes.
func (s *EditSession) Load(ctx context.Context) (*bootstrap.Report, error) {
	if !s.Attached() {
		return nil, ErrSessionClosed
	}

	runner := bootstrap.NewRunner(loadingIndicator{s}, s.logger)

	return runner.Run(ctx,
		bootstrap.Proceed(bootstrap.Stage{Name: StageCycles, Run: s.loadCycles}),
		bootstrap.Proceed(bootstrap.Stage{Name: StageCategories, Run: s.loadCategories}),
		bootstrap.Proceed(bootstrap.Stage{Name: StageProfile, Run: s.loadProfile}),
	)
}

func (s *EditSession) loadCycles(ctx context.Context) error {
	cycles, err := s.api.GetCycles(ctx)
	if !s.Attached() {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to fetch cycles: %w", err)
	}
	s.cycles = cycles
	return nil
}

func (s *EditSession) loadCategories(ctx context.Context) error {
	categories := FetchAllCategories(ctx, s.api, s.logger)
	if !s.Attached() {
		return nil
	}

	// Only a successful fetch replaces a master list
	if categories.Skills.Err == nil {
		s.skills = categories.Skills.Items
	}
	if categories.Interests.Err == nil {
		s.interests = categories.Interests.Items
	}

	if err := categories.Err(); err != nil {
		return fmt.Errorf("failed to fetch categories: %w", err)
	}
	return nil
}

func (s *EditSession) loadProfile(ctx context.Context) error {
	env, err := s.api.GetProfile(ctx)
	if !s.Attached() {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	volunteer, err := env.DecodeVolunteer()
	if err != nil {
		return fmt.Errorf("failed to decode profile: %w", err)
	}

	s.volunteer = volunteer
	reconciler.Seed(volunteer, &s.form, s.selection)
	s.render()

	s.logger.Debug("Profile loaded",
		zap.Int("languages", s.selection.Languages.Len()),
		zap.Int("availability", s.selection.Availability.Len()),
		zap.Int("skills", s.selection.SkillIDs.Len()),
		zap.Int("interests", s.selection.InterestIDs.Len()))
	return nil
}

// Loaded reports whether a profile has been fetched and seeded
func (s *EditSession) Loaded() bool {
	return s.volunteer != nil
}

// Volunteer returns the profile as last fetched, or nil
func (s *EditSession) Volunteer() *model.Volunteer {
	return s.volunteer
}

// Cycles returns the master cycle list
func (s *EditSession) Cycles() []model.Cycle {
	return s.cycles
}

// CycleLabels returns the display label of every master cycle, for the cycle dropdown
func (s *EditSession) CycleLabels() []string {
	labels := make([]string, 0, len(s.cycles))
	for _, c := range s.cycles {
		labels = append(labels, c.FullCycle())
	}
	return labels
}

// Skills returns the master skill list
func (s *EditSession) Skills() []model.Skill {
	return s.skills
}

// Interests returns the master interest list
func (s *EditSession) Interests() []model.Interest {
	return s.interests
}

// Form returns a copy of the text fields
func (s *EditSession) Form() reconciler.Form {
	return s.form
}

// Selection returns the live selection state
func (s *EditSession) Selection() *selection.State {
	return s.selection
}

// SaveState returns the current state of the save operation
func (s *EditSession) SaveState() SaveState {
	return s.saveState
}

func (s *EditSession) SetFullName(v string)   { s.form.FullName = v }
func (s *EditSession) SetZone(v string)       { s.form.Zone = v }
func (s *EditSession) SetExperience(v string) { s.form.Experience = v }
func (s *EditSession) SetCar(v string)        { s.form.Car = v }
func (s *EditSession) SetCycle(v string)      { s.form.Cycle = v }

// SetBirthDate stores a date picked as year, month (1-12) and day
func (s *EditSession) SetBirthDate(year, month, day int) {
	s.form.BirthDate = fmt.Sprintf("%d-%02d-%02d", year, month, day)
}

// SetLanguageInput sets the pending language text
func (s *EditSession) SetLanguageInput(v string) { s.languageInput = v }

// LanguageInput returns the pending language text
func (s *EditSession) LanguageInput() string { return s.languageInput }

// SetAvailabilityInput sets the pending day and timeslot
func (s *EditSession) SetAvailabilityInput(day, timeSlot string) {
	s.dayInput = day
	s.timeSlotInput = timeSlot
}

// AvailabilityInput returns the pending day and timeslot
func (s *EditSession) AvailabilityInput() (string, string) {
	return s.dayInput, s.timeSlotInput
}

// AddLanguage adds the pending language when it is non-empty and new, clears the input and re-renders
func (s *EditSession) AddLanguage() bool {
	if !s.selection.AddLanguage(s.languageInput) {
		return false
	}
	s.languageInput = ""
	s.render()
	return true
}

// AddAvailability adds the pending "day timeslot" when both parts are set and the entry is new
func (s *EditSession) AddAvailability() bool {
	if !s.selection.AddAvailability(s.dayInput, s.timeSlotInput) {
		return false
	}
	s.dayInput = ""
	s.timeSlotInput = ""
	s.render()
	return true
}

// SelectionSheet lists the master entries of kind with their current checked state
func (s *EditSession) SelectionSheet(kind SheetKind) []SheetRow {
	var rows []SheetRow
	switch kind {
	case SheetSkills:
		for _, sk := range s.skills {
			rows = append(rows, SheetRow{ID: sk.ID, Name: sk.Name, Checked: s.selection.SkillIDs.Contains(sk.ID)})
		}
	case SheetInterests:
		for _, in := range s.interests {
			rows = append(rows, SheetRow{ID: in.ID, Name: in.Name, Checked: s.selection.InterestIDs.Contains(in.ID)})
		}
	}
	return rows
}

// ApplySelection applies the toggles confirmed on a multi-select sheet and re-renders
func (s *EditSession) ApplySelection(kind SheetKind, toggles []selection.Toggle) error {
	switch kind {
	case SheetSkills:
		selection.ApplyToggles(&s.selection.SkillIDs, toggles)
	case SheetInterests:
		selection.ApplyToggles(&s.selection.InterestIDs, toggles)
	default:
		return fmt.Errorf("unknown selection sheet %q", kind)
	}
	s.render()
	return nil
}

// Chips returns the current chip projection of the selection state
func (s *EditSession) Chips() []render.Chip {
	return reconciler.Render(s.selection, s.skills, s.interests)
}

func (s *EditSession) render() {
	if !s.Attached() {
		return
	}
	s.view.Show(s.Chips(), s.removeChip)
}

// removeChip handles a dismissed chip. The view has already dropped it, so nothing is re-rendered.
func (s *EditSession) removeChip(chip render.Chip) {
	if !reconciler.RemoveChip(s.selection, chip) {
		s.logger.Debug("Removed chip had no backing selection", zap.String("label", chip.Label))
	}
}

// Payload builds the update request from the current state without sending it
func (s *EditSession) Payload() reconciler.UpdatePayload {
	return reconciler.BuildPayload(&s.form, s.selection, s.cycles)
}

// Save validates the form and submits the update. On success the view is dismissed
// and the session closes; on failure the form is kept and Save may be called again.
func (s *EditSession) Save(ctx context.Context) error {
	if !s.Attached() {
		return ErrSessionClosed
	}
	if s.saveState == SaveSaving {
		return ErrSaveInProgress
	}

	s.saveState = SaveValidating
	if err := reconciler.Validate(&s.form); err != nil {
		s.saveState = SaveIdle
		s.view.ShowFieldError(FieldFullName, err.Error())
		return err
	}

	s.saveState = SaveSaving
	s.view.ShowLoading()

	payload := s.Payload()
	s.logger.Info("Submitting profile update", zap.Int("fields", len(payload)))
	err := s.api.UpdateProfile(ctx, payload)

	if !s.Attached() {
		return ErrSessionClosed
	}
	s.view.HideLoading()

	if err != nil {
		s.saveState = SaveIdle
		if apiclient.IsTransport(err) {
			s.view.Toast(MsgNetworkError)
		} else {
			s.view.Toast(MsgSaveFailed)
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}

	s.saveState = SaveDone
	s.view.Toast(MsgProfileUpdated)
	s.view.Dismiss()
	s.Close()
	return nil
}
