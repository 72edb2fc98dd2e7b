package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Category identifies which selection collection a chip belongs to
type Category string

const (
	CategoryLanguage     Category = "language"
	CategoryAvailability Category = "availability"
	CategorySkill        Category = "skill"
	CategoryInterest     Category = "interest"
)

// Chip colors, one per category
var (
	LanguageColor     = lipgloss.Color("#E1BEE7") // lilac
	AvailabilityColor = lipgloss.Color("#FFF9C4") // yellow
	SkillColor        = lipgloss.Color("#BBDEFB") // blue
	InterestColor     = lipgloss.Color("#C8E6C9") // green
	chipForeground    = lipgloss.Color("#212121")
)

// Color returns the background color for chips of this category
func (c Category) Color() lipgloss.Color {
	switch c {
	case CategoryLanguage:
		return LanguageColor
	case CategoryAvailability:
		return AvailabilityColor
	case CategorySkill:
		return SkillColor
	case CategoryInterest:
		return InterestColor
	default:
		return lipgloss.Color("#E0E0E0")
	}
}

// Chip is one removable summary entry.
// Value holds the string item for languages and availability; ID holds the
// reference ID for skills and interests.
type Chip struct {
	Label     string
	Category  Category
	Removable bool
	Value     string
	ID        int
}

// Sink displays chips and reports removals back to the owner of the selection
type Sink interface {
	// Show replaces everything on display with chips. onRemove is called
	// with the chip the user dismissed.
	Show(chips []Chip, onRemove func(Chip))
}

// TerminalSink renders chips as colored badges on a terminal
type TerminalSink struct {
	out      io.Writer
	chips    []Chip
	onRemove func(Chip)
	style    lipgloss.Style
}

// NewTerminalSink creates a sink that writes to out
func NewTerminalSink(out io.Writer) *TerminalSink {
	return &TerminalSink{
		out: out,
		style: lipgloss.NewStyle().
			Foreground(chipForeground).
			Padding(0, 1).
			MarginRight(1),
	}
}

// Show stores the chips and draws them
func (s *TerminalSink) Show(chips []Chip, onRemove func(Chip)) {
	s.chips = append([]Chip(nil), chips...)
	s.onRemove = onRemove
	s.Draw()
}

// Chips returns the chips currently on display
func (s *TerminalSink) Chips() []Chip {
	return append([]Chip(nil), s.chips...)
}

// Dismiss removes the chip at the 1-based position n, the way tapping its close icon would.
// Only that chip is removed from the display; the rest are left as they are.
func (s *TerminalSink) Dismiss(n int) (Chip, error) {
	if n < 1 || n > len(s.chips) {
		return Chip{}, fmt.Errorf("no chip at position %d", n)
	}

	chip := s.chips[n-1]
	if !chip.Removable {
		return Chip{}, fmt.Errorf("chip %q cannot be removed", chip.Label)
	}

	s.chips = append(s.chips[:n-1], s.chips[n:]...)
	if s.onRemove != nil {
		s.onRemove(chip)
	}
	return chip, nil
}

// Draw writes the numbered chip list
func (s *TerminalSink) Draw() {
	if len(s.chips) == 0 {
		fmt.Fprintln(s.out, "  (no selections)")
		return
	}

	var b strings.Builder
	for i, chip := range s.chips {
		label := chip.Label
		if chip.Removable {
			label += " ✕"
		}
		badge := s.style.Background(chip.Category.Color()).Render(label)
		fmt.Fprintf(&b, "  %2d. %s\n", i+1, badge)
	}
	fmt.Fprint(s.out, b.String())
}
