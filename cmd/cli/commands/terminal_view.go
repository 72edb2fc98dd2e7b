package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/jakechorley/volunteer-profile/pkg/core/services"
	"github.com/jakechorley/volunteer-profile/pkg/render"
)

var (
	toastStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#323232")).
			Padding(0, 1)
	fieldErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D32F2F"))
	headingStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
)

var _ services.View = (*terminalView)(nil)

// terminalView is the edit screen drawn on a terminal. Chips are delegated
// to a TerminalSink; toasts and field errors are printed inline.
type terminalView struct {
	*render.TerminalSink
	out       io.Writer
	loading   bool
	dismissed bool
}

func newTerminalView(out io.Writer) *terminalView {
	return &terminalView{
		TerminalSink: render.NewTerminalSink(out),
		out:          out,
	}
}

func (v *terminalView) ShowLoading() {
	if !v.loading {
		fmt.Fprintln(v.out, "⏳ Loading...")
	}
	v.loading = true
}

func (v *terminalView) HideLoading() {
	v.loading = false
}

func (v *terminalView) Toast(message string) {
	fmt.Fprintln(v.out, toastStyle.Render(message))
}

func (v *terminalView) ShowFieldError(field, message string) {
	fmt.Fprintln(v.out, fieldErrorStyle.Render(fmt.Sprintf("✗ %s: %s", field, message)))
}

func (v *terminalView) Dismiss() {
	v.dismissed = true
}

func (v *terminalView) heading(title string) {
	fmt.Fprintf(v.out, "\n%s\n", headingStyle.Render(title))
}
