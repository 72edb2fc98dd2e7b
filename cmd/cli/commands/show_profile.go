package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakechorley/volunteer-profile/pkg/core/model"
	"github.com/jakechorley/volunteer-profile/pkg/core/reconciler"
)

// ShowProfileCmd creates the showProfile command
func ShowProfileCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "showProfile",
		Short: "Show the profile of the authenticated volunteer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := app.Client.GetVolunteerProfile(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to get profile: %w", err)
			}

			printProfile(app, v)
			return nil
		},
	}
}

func printProfile(app *AppContext, v *model.Volunteer) {
	cycle := ""
	if v.Cycle != nil {
		cycle = string(*v.Cycle)
	}

	fmt.Fprintf(app.Out, "\n%s\n\n", reconciler.JoinFullName(v.FirstName, v.Surname, v.SecondSurname))
	fields := []struct{ label, value string }{
		{"DNI", v.DNI},
		{"Email", v.Email},
		{"Birth date", v.BirthDate},
		{"Zone", v.Zone},
		{"Experience", v.Experience},
		{"Car", reconciler.CarToken(v.HasCar)},
		{"Cycle", cycle},
		{"Status", v.VolunteerState},
		{"Languages", strings.Join(v.Languages, ", ")},
		{"Availability", strings.Join(v.Availability, ", ")},
		{"Skills", itemNames(v.Skills)},
		{"Interests", itemNames(v.Interests)},
	}
	for _, f := range fields {
		value := f.value
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(app.Out, "  %-13s %s\n", f.label+":", value)
	}
	fmt.Fprintln(app.Out)
}

func itemNames(items []model.CategoryItem) string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return strings.Join(names, ", ")
}
