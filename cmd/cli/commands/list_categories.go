package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-profile/pkg/core/services"
	"github.com/jakechorley/volunteer-profile/pkg/db"
)

// categoryLine is one printable master-list entry
type categoryLine struct {
	id   int
	name string
}

// ListCategoriesCmd creates the listCategories command
func ListCategoriesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listCategories [kind]",
		Short: "List skills, interests, needs and ODS (optionally only one kind)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var only db.CategoryKind
			if len(args) > 0 {
				kind, err := db.ParseCategoryKind(args[0])
				if err != nil {
					return err
				}
				only = kind
			}

			app.Logger.Debug("listCategories command", zap.String("kind", string(only)))

			categories := services.FetchAllCategories(app.Ctx, app.Client, app.Logger)
			sections := []struct {
				kind  db.CategoryKind
				title string
				lines []categoryLine
				err   error
			}{
				{db.CategorySkills, "Skills", skillLines(categories), categories.Skills.Err},
				{db.CategoryInterests, "Interests", interestLines(categories), categories.Interests.Err},
				{db.CategoryNeeds, "Needs", needLines(categories), categories.Needs.Err},
				{db.CategoryOds, "ODS", odsLines(categories), categories.Ods.Err},
			}

			for _, s := range sections {
				if only != "" && s.kind != only {
					continue
				}

				fmt.Fprintf(app.Out, "\n%s (%s):\n", s.title, s.kind)
				if s.err != nil {
					fmt.Fprintf(app.Out, "  ✗ failed to load: %v\n", s.err)
					continue
				}
				if len(s.lines) == 0 {
					fmt.Fprintln(app.Out, "  (none)")
					continue
				}
				for _, l := range s.lines {
					fmt.Fprintf(app.Out, "  %3d  %s\n", l.id, l.name)
				}
			}
			fmt.Fprintln(app.Out)

			return nil
		},
	}
}

func skillLines(c *services.Categories) []categoryLine {
	lines := make([]categoryLine, 0, len(c.Skills.Items))
	for _, s := range c.Skills.Items {
		lines = append(lines, categoryLine{s.ID, s.Name})
	}
	return lines
}

func interestLines(c *services.Categories) []categoryLine {
	lines := make([]categoryLine, 0, len(c.Interests.Items))
	for _, i := range c.Interests.Items {
		lines = append(lines, categoryLine{i.ID, i.Name})
	}
	return lines
}

func needLines(c *services.Categories) []categoryLine {
	lines := make([]categoryLine, 0, len(c.Needs.Items))
	for _, n := range c.Needs.Items {
		lines = append(lines, categoryLine{n.ID, n.Name})
	}
	return lines
}

func odsLines(c *services.Categories) []categoryLine {
	lines := make([]categoryLine, 0, len(c.Ods.Items))
	for _, o := range c.Ods.Items {
		lines = append(lines, categoryLine{o.ID, o.Name})
	}
	return lines
}
