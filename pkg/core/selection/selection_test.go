package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_AddIsDuplicateFree(t *testing.T) {
	var s Set[string]

	assert.True(t, s.Add("Inglés"))
	assert.True(t, s.Add("Francés"))
	assert.False(t, s.Add("Inglés"))

	assert.Equal(t, []string{"Inglés", "Francés"}, s.Items())
}

func TestSet_RemoveKeepsOrder(t *testing.T) {
	var s Set[int]
	s.Replace([]int{3, 7, 9})

	assert.True(t, s.Remove(7))
	assert.False(t, s.Remove(42))
	assert.Equal(t, []int{3, 9}, s.Items())
}

func TestSet_ItemsIsACopy(t *testing.T) {
	var s Set[int]
	s.Add(1)

	items := s.Items()
	items[0] = 99

	assert.Equal(t, []int{1}, s.Items())
}

func TestSet_EmptyItemsNotNil(t *testing.T) {
	var s Set[string]
	assert.NotNil(t, s.Items())
	assert.Empty(t, s.Items())
}

func TestState_AddLanguage(t *testing.T) {
	s := New()

	assert.False(t, s.AddLanguage(""))
	assert.True(t, s.AddLanguage("Euskera"))
	assert.False(t, s.AddLanguage("Euskera"))

	assert.Equal(t, []string{"Euskera"}, s.Languages.Items())
}

func TestState_AddAvailability(t *testing.T) {
	tests := []struct {
		name     string
		day      string
		slot     string
		expected bool
	}{
		{"both set", "Lunes", "Mañana", true},
		{"missing day", "", "Mañana", false},
		{"missing slot", "Lunes", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			assert.Equal(t, tt.expected, s.AddAvailability(tt.day, tt.slot))
		})
	}
}

func TestState_AddAvailabilityDuplicate(t *testing.T) {
	s := New()
	s.AddAvailability("Lunes", "Mañana")

	assert.False(t, s.AddAvailability("Lunes", "Mañana"))
	assert.Equal(t, []string{"Lunes Mañana"}, s.Availability.Items())
}

func TestApplyToggles(t *testing.T) {
	var ids Set[int]
	ids.Replace([]int{1, 2})

	ApplyToggles(&ids, []Toggle{
		{ID: 1, Checked: true},  // already present
		{ID: 2, Checked: false}, // removed
		{ID: 3, Checked: true},  // added
		{ID: 4, Checked: false}, // absent, ignored
	})

	assert.Equal(t, []int{1, 3}, ids.Items())
}

func TestState_Reset(t *testing.T) {
	s := New()
	s.AddLanguage("Inglés")
	s.AddAvailability("Martes", "Tarde")
	s.SkillIDs.Add(1)
	s.InterestIDs.Add(2)

	s.Reset()

	assert.Zero(t, s.Languages.Len())
	assert.Zero(t, s.Availability.Len())
	assert.Zero(t, s.SkillIDs.Len())
	assert.Zero(t, s.InterestIDs.Len())
}
