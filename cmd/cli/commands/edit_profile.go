package commands

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-profile/pkg/core/reconciler"
	"github.com/jakechorley/volunteer-profile/pkg/core/selection"
	"github.com/jakechorley/volunteer-profile/pkg/core/services"
)

const editorHelp = `Editor commands:
  show                      Show the form and the current selections
  name <full name>          Set the full name (first name, surname, second surname)
  birth <YYYY-MM-DD>        Set the birth date
  zone [n|value]            Pick a zone (no argument lists the options)
  experience [n|value]      Pick an experience level
  car [Si|No]               Set whether you have a car
  cycle [n|label]           Pick a training cycle
  lang [n|value]            Add a language (free text allowed)
  avail [day] [slot]        Add an availability slot, e.g. "avail Lunes Mañana"
  skills                    Toggle skills
  interests                 Toggle interests
  remove <n>                Remove the selection chip at position n
  save                      Validate and save the profile
  cancel                    Leave without saving`

// errListed means the options were printed instead of a value being picked
var errListed = errors.New("options listed")

// EditProfileCmd creates the editProfile command
func EditProfileCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "editProfile",
		Short: "Edit your volunteer profile interactively",
		Long:  "Load your profile and edit it line by line.\n\n" + editorHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view := newTerminalView(app.Out)
			session := services.NewEditSession(app.Client, view, app.Logger)
			defer session.Close()

			app.Logger.Info("editProfile command")

			report, err := session.Load(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to load profile: %w", err)
			}
			for _, stage := range report.Failed() {
				fmt.Fprintf(app.Out, "⚠️  Could not load %s, the related options may be empty\n", stage)
			}
			if !session.Loaded() {
				return fmt.Errorf("profile could not be loaded")
			}

			editor := &profileEditor{app: app, session: session, view: view}
			return editor.run()
		},
	}
}

// profileEditor reads editor commands and applies them to an edit session
type profileEditor struct {
	app     *AppContext
	session *services.EditSession
	view    *terminalView
}

func (e *profileEditor) run() error {
	e.printForm()
	fmt.Fprintln(e.app.Out, "\nType 'help' for editor commands")

	for {
		fmt.Fprint(e.app.Out, "edit> ")
		if !e.app.In.Scan() {
			break
		}

		parts, err := parseCommandLine(strings.TrimSpace(e.app.In.Text()))
		if err != nil {
			fmt.Fprintf(e.app.Out, "❌ Error parsing command: %v\n", err)
			continue
		}
		if len(parts) == 0 {
			continue
		}

		done, err := e.handle(parts[0], parts[1:])
		if errors.Is(err, errListed) {
			continue
		}
		if err != nil {
			fmt.Fprintf(e.app.Out, "❌ Error: %v\n", err)
			continue
		}
		if done {
			return nil
		}
	}

	if err := e.app.In.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	fmt.Fprintln(e.app.Out, "\nEdit cancelled, nothing was saved")
	return nil
}

// handle runs one editor command and reports whether the editor should exit
func (e *profileEditor) handle(name string, args []string) (bool, error) {
	form := e.app.Cfg.Form

	switch name {
	case "help":
		fmt.Fprintln(e.app.Out, editorHelp)
	case "show":
		e.printForm()
	case "chips":
		e.view.Draw()
	case "name":
		e.session.SetFullName(strings.Join(args, " "))
	case "birth":
		return false, e.setBirthDate(args)
	case "zone":
		v, err := e.pick("Zones", form.Zones, args, false)
		if err != nil {
			return false, err
		}
		e.session.SetZone(v)
	case "experience":
		v, err := e.pick("Experience", form.ExperienceLevels, args, false)
		if err != nil {
			return false, err
		}
		e.session.SetExperience(v)
	case "car":
		v, err := e.pick("Car", []string{reconciler.CarYes, reconciler.CarNo}, args, false)
		if err != nil {
			return false, err
		}
		e.session.SetCar(v)
	case "cycle":
		v, err := e.pick("Cycles", e.session.CycleLabels(), args, false)
		if err != nil {
			return false, err
		}
		e.session.SetCycle(v)
	case "lang":
		v, err := e.pick("Languages", form.Languages, args, true)
		if err != nil {
			return false, err
		}
		e.session.SetLanguageInput(v)
		if !e.session.AddLanguage() {
			return false, fmt.Errorf("language %q is empty or already added", v)
		}
	case "avail":
		return false, e.addAvailability(args)
	case "skills":
		return false, e.toggleSheet(services.SheetSkills, "Skills")
	case "interests":
		return false, e.toggleSheet(services.SheetInterests, "Interests")
	case "remove":
		return false, e.removeChip(args)
	case "save":
		return e.save()
	case "cancel", "exit", "quit":
		fmt.Fprintln(e.app.Out, "Edit cancelled, nothing was saved")
		return true, nil
	default:
		return false, fmt.Errorf("unknown editor command %q (type 'help')", name)
	}
	return false, nil
}

func (e *profileEditor) setBirthDate(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: birth YYYY-MM-DD")
	}
	date, err := time.Parse("2006-01-02", args[0])
	if err != nil {
		return fmt.Errorf("birth date must be YYYY-MM-DD: %w", err)
	}
	e.session.SetBirthDate(date.Year(), int(date.Month()), date.Day())
	return nil
}

func (e *profileEditor) addAvailability(args []string) error {
	form := e.app.Cfg.Form
	if len(args) == 0 {
		e.printOptions("Days", form.Days)
		e.printOptions("Time slots", form.TimeSlots)
		return errListed
	}
	if len(args) != 2 {
		return fmt.Errorf("usage: avail <day> <slot>")
	}

	day, err := e.pick("Days", form.Days, args[:1], false)
	if err != nil {
		return err
	}
	slot, err := e.pick("Time slots", form.TimeSlots, args[1:], false)
	if err != nil {
		return err
	}

	e.session.SetAvailabilityInput(day, slot)
	if !e.session.AddAvailability() {
		return fmt.Errorf("%q is already in your availability", selection.AvailabilitySlot(day, slot))
	}
	return nil
}

// toggleSheet shows a multi-select sheet and applies the IDs the user toggles
func (e *profileEditor) toggleSheet(kind services.SheetKind, title string) error {
	rows := e.session.SelectionSheet(kind)
	if len(rows) == 0 {
		return fmt.Errorf("no %s available", strings.ToLower(title))
	}

	e.view.heading(title)
	for _, row := range rows {
		mark := " "
		if row.Checked {
			mark = "x"
		}
		fmt.Fprintf(e.app.Out, "  [%s] %3d  %s\n", mark, row.ID, row.Name)
	}
	fmt.Fprint(e.app.Out, "IDs to toggle (space separated, empty to keep): ")

	if !e.app.In.Scan() {
		return e.app.In.Err()
	}

	toggles, err := parseToggles(e.app.In.Text(), rows)
	if err != nil {
		return err
	}
	if len(toggles) == 0 {
		return nil
	}
	return e.session.ApplySelection(kind, toggles)
}

// parseToggles flips the checked state of every listed row
func parseToggles(line string, rows []services.SheetRow) ([]selection.Toggle, error) {
	checked := make(map[int]bool, len(rows))
	for _, row := range rows {
		checked[row.ID] = row.Checked
	}

	var toggles []selection.Toggle
	for _, field := range strings.Fields(line) {
		id, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("%q is not an ID", field)
		}
		current, ok := checked[id]
		if !ok {
			return nil, fmt.Errorf("no entry with ID %d", id)
		}
		checked[id] = !current
		toggles = append(toggles, selection.Toggle{ID: id, Checked: !current})
	}
	return toggles, nil
}

func (e *profileEditor) removeChip(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: remove <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("chip position must be a number, got: %s", args[0])
	}

	chip, err := e.view.TerminalSink.Dismiss(n)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.app.Out, "Removed %s\n", chip.Label)
	e.view.Draw()
	return nil
}

func (e *profileEditor) save() (bool, error) {
	err := e.session.Save(e.app.Ctx)
	if err != nil {
		// The view has already shown the toast or field error
		e.app.Logger.Debug("Save did not complete", zap.Error(err))
		return false, nil
	}
	return e.view.dismissed, nil
}

// pick resolves args to one of options, either by 1-based position or by value.
// With no args the options are printed and errListed is returned.
func (e *profileEditor) pick(title string, options, args []string, allowFree bool) (string, error) {
	if len(args) == 0 {
		e.printOptions(title, options)
		return "", errListed
	}

	value := strings.Join(args, " ")
	if n, err := strconv.Atoi(value); err == nil {
		if n < 1 || n > len(options) {
			return "", fmt.Errorf("%s: no option %d", strings.ToLower(title), n)
		}
		return options[n-1], nil
	}
	if slices.Contains(options, value) || allowFree {
		return value, nil
	}
	return "", fmt.Errorf("%q is not one of %s", value, strings.Join(options, ", "))
}

func (e *profileEditor) printOptions(title string, options []string) {
	e.view.heading(title)
	if len(options) == 0 {
		fmt.Fprintln(e.app.Out, "  (none)")
		return
	}
	for i, opt := range options {
		fmt.Fprintf(e.app.Out, "  %2d. %s\n", i+1, opt)
	}
}

func (e *profileEditor) printForm() {
	form := e.session.Form()

	e.view.heading("Profile")
	fields := []struct{ label, value string }{
		{"Name", form.FullName},
		{"DNI", form.DNI},
		{"Email", form.Email},
		{"Birth date", form.BirthDate},
		{"Zone", form.Zone},
		{"Experience", form.Experience},
		{"Car", form.Car},
		{"Cycle", form.Cycle},
	}
	for _, f := range fields {
		value := f.value
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(e.app.Out, "  %-12s %s\n", f.label+":", value)
	}

	e.view.heading("Selections")
	e.view.Draw()
}
