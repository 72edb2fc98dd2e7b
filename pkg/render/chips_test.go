package render

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleChips() []Chip {
	return []Chip{
		{Label: "Inglés", Category: CategoryLanguage, Removable: true, Value: "Inglés"},
		{Label: "Lunes Mañana", Category: CategoryAvailability, Removable: true, Value: "Lunes Mañana"},
		{Label: "Cocina", Category: CategorySkill, Removable: true, ID: 7},
	}
}

func TestTerminalSink_ShowDrawsEveryChip(t *testing.T) {
	var out bytes.Buffer
	sink := NewTerminalSink(&out)

	sink.Show(sampleChips(), nil)

	text := out.String()
	assert.Contains(t, text, "Inglés")
	assert.Contains(t, text, "Lunes Mañana")
	assert.Contains(t, text, "Cocina")
	assert.Contains(t, text, " 3.")
}

func TestTerminalSink_ShowEmpty(t *testing.T) {
	var out bytes.Buffer
	sink := NewTerminalSink(&out)

	sink.Show(nil, nil)

	assert.Contains(t, out.String(), "no selections")
}

func TestTerminalSink_DismissRemovesOnlyThatChip(t *testing.T) {
	var out bytes.Buffer
	sink := NewTerminalSink(&out)

	var removed []Chip
	sink.Show(sampleChips(), func(c Chip) { removed = append(removed, c) })

	chip, err := sink.Dismiss(2)
	require.NoError(t, err)

	assert.Equal(t, "Lunes Mañana", chip.Label)
	assert.Equal(t, []Chip{chip}, removed)

	all := sampleChips()
	want := []Chip{all[0], all[2]}
	if diff := cmp.Diff(want, sink.Chips()); diff != "" {
		t.Errorf("Chips() after dismiss mismatch (-want +got):\n%s", diff)
	}
}

func TestTerminalSink_DismissOutOfRange(t *testing.T) {
	sink := NewTerminalSink(&bytes.Buffer{})
	sink.Show(sampleChips(), nil)

	_, err := sink.Dismiss(0)
	assert.Error(t, err)

	_, err = sink.Dismiss(4)
	assert.Error(t, err)
	if diff := cmp.Diff(sampleChips(), sink.Chips()); diff != "" {
		t.Errorf("Chips() changed after failed dismiss (-want +got):\n%s", diff)
	}
}

func TestTerminalSink_DismissNotRemovable(t *testing.T) {
	sink := NewTerminalSink(&bytes.Buffer{})
	sink.Show([]Chip{{Label: "fixed", Category: CategorySkill}}, nil)

	_, err := sink.Dismiss(1)
	assert.Error(t, err)
}

func TestCategory_Color(t *testing.T) {
	assert.Equal(t, LanguageColor, CategoryLanguage.Color())
	assert.Equal(t, AvailabilityColor, CategoryAvailability.Color())
	assert.Equal(t, SkillColor, CategorySkill.Color())
	assert.Equal(t, InterestColor, CategoryInterest.Color())
}
