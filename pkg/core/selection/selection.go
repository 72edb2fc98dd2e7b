package selection

import "slices"

// Set is an insertion-ordered, duplicate-free collection
type Set[T comparable] struct {
	items []T
}

// Add appends v if it is not already present. Returns false when v was already in the set.
func (s *Set[T]) Add(v T) bool {
	if s.Contains(v) {
		return false
	}
	s.items = append(s.items, v)
	return true
}

// Remove deletes v from the set. Returns false when v was not present.
func (s *Set[T]) Remove(v T) bool {
	i := slices.Index(s.items, v)
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true
}

func (s *Set[T]) Contains(v T) bool {
	return slices.Contains(s.items, v)
}

func (s *Set[T]) Len() int {
	return len(s.items)
}

// Clear empties the set
func (s *Set[T]) Clear() {
	s.items = nil
}

// Replace clears the set then copies values verbatim, in order. Callers seeding from a
// fetched profile rely on the source already being duplicate-free.
func (s *Set[T]) Replace(values []T) {
	s.items = append([]T(nil), values...)
}

// Items returns a copy of the values in insertion order. Never nil.
func (s *Set[T]) Items() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// State holds the user's current multi-value selections on the profile form
type State struct {
	Languages    Set[string]
	Availability Set[string]
	SkillIDs     Set[int]
	InterestIDs  Set[int]
}

// New returns an empty selection state
func New() *State {
	return &State{}
}

// Reset clears all four collections
func (s *State) Reset() {
	s.Languages.Clear()
	s.Availability.Clear()
	s.SkillIDs.Clear()
	s.InterestIDs.Clear()
}

// AvailabilitySlot composes the "day timeslot" entry stored in the availability collection
func AvailabilitySlot(day, timeSlot string) string {
	return day + " " + timeSlot
}

// AddLanguage appends a non-empty language that is not already selected
func (s *State) AddLanguage(language string) bool {
	if language == "" {
		return false
	}
	return s.Languages.Add(language)
}

// AddAvailability appends "day timeslot" when both parts are non-empty and the entry is new
func (s *State) AddAvailability(day, timeSlot string) bool {
	if day == "" || timeSlot == "" {
		return false
	}
	return s.Availability.Add(AvailabilitySlot(day, timeSlot))
}

// Toggle is a single (id, checked) pair from a multi-select sheet
type Toggle struct {
	ID      int
	Checked bool
}

// ApplyToggles adds checked IDs that are absent and removes unchecked IDs that are present
func ApplyToggles(ids *Set[int], toggles []Toggle) {
	for _, t := range toggles {
		if t.Checked {
			ids.Add(t.ID)
		} else {
			ids.Remove(t.ID)
		}
	}
}
