package commands

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// InteractiveCmd creates the interactive command
func InteractiveCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (load config and token once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands against the same backend.
The session will keep running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(app.Out, "\n🚀 Starting interactive session...")
			fmt.Fprintln(app.Out, "Type 'help' for available commands, 'exit' or 'quit' to leave")

			commands := siblingCommands(cmd)

			for {
				fmt.Fprint(app.Out, "> ")

				if !app.In.Scan() {
					break
				}

				parts, err := parseCommandLine(strings.TrimSpace(app.In.Text()))
				if err != nil {
					fmt.Fprintf(app.Out, "❌ Error parsing command: %v\n\n", err)
					continue
				}
				if len(parts) == 0 {
					continue
				}
				cmdName := parts[0]

				switch cmdName {
				case "exit", "quit":
					fmt.Fprintln(app.Out, "👋 Goodbye!")
					return nil
				case "help":
					printInteractiveHelp(app.Out, commands)
					continue
				}

				targetCmd, exists := commands[cmdName]
				if !exists {
					fmt.Fprintf(app.Out, "❌ Unknown command: %s (type 'help' for available commands)\n\n", cmdName)
					continue
				}

				if err := runInSession(targetCmd, parts[1:]); err != nil {
					fmt.Fprintf(app.Out, "❌ Error: %v\n\n", err)
				}
			}

			if err := app.In.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}

			return nil
		},
	}
}

// siblingCommands returns the commands runnable from inside the session
func siblingCommands(cmd *cobra.Command) map[string]*cobra.Command {
	commands := make(map[string]*cobra.Command)
	for _, subCmd := range cmd.Parent().Commands() {
		switch subCmd.Name() {
		case "interactive", "completion", "help":
			continue
		}
		commands[subCmd.Name()] = subCmd
	}
	return commands
}

// runInSession executes a command's RunE directly, bypassing Execute so the
// root PersistentPreRunE does not initialise the app a second time
func runInSession(targetCmd *cobra.Command, args []string) error {
	targetCmd.Flags().VisitAll(func(flag *pflag.Flag) {
		flag.Changed = false
		flag.Value.Set(flag.DefValue)
	})

	if err := targetCmd.ParseFlags(args); err != nil {
		return fmt.Errorf("error parsing flags: %w", err)
	}

	args = targetCmd.Flags().Args()
	if targetCmd.Args != nil {
		if err := targetCmd.Args(targetCmd, args); err != nil {
			return err
		}
	}

	if targetCmd.RunE != nil {
		return targetCmd.RunE(targetCmd, args)
	}
	if targetCmd.Run != nil {
		targetCmd.Run(targetCmd, args)
	}
	return nil
}

// printInteractiveHelp lists the session commands by name, followed by the session builtins
func printInteractiveHelp(out io.Writer, commands map[string]*cobra.Command) {
	entries := make([][2]string, 0, len(commands)+2)
	for _, name := range slices.Sorted(maps.Keys(commands)) {
		entries = append(entries, [2]string{commands[name].Use, commands[name].Short})
	}
	entries = append(entries,
		[2]string{"help", "List the commands available in this session"},
		[2]string{"exit, quit", "Leave the session"},
	)

	width := 0
	for _, e := range entries {
		width = max(width, len(e[0]))
	}

	fmt.Fprintf(out, "\n%s\n", headingStyle.Render("Session commands"))
	for _, e := range entries {
		fmt.Fprintf(out, "  %-*s  %s\n", width, e[0], e[1])
	}
}

// parseCommandLine splits a line into words. Single or double quotes group a
// phrase into one word, and an empty pair of quotes yields an empty word.
func parseCommandLine(line string) ([]string, error) {
	var (
		words []string
		word  strings.Builder
		quote rune
		open  bool
	)
	flush := func() {
		if open {
			words = append(words, word.String())
			word.Reset()
			open = false
		}
	}

	for _, r := range line {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
			word.WriteRune(r)
		case r == '"' || r == '\'':
			quote, open = r, true
		case unicode.IsSpace(r):
			flush()
		default:
			word.WriteRune(r)
			open = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unclosed quote %c in %q", quote, line)
	}
	flush()

	return words, nil
}
