// Package model contains domain models passed between layers.
package model

import "slices"

// Activity is one extracurricular offering and its roster.
// Participants keep signup order and never hold the same email twice.
type Activity struct {
	Description     string   `json:"description" koanf:"description"`
	Schedule        string   `json:"schedule" koanf:"schedule"`
	MaxParticipants int      `json:"max_participants" koanf:"max_participants"`
	Participants    []string `json:"participants" koanf:"participants"`
}

// Directory maps activity names to activities. Names are matched exactly.
type Directory map[string]Activity

// Has reports whether email is on the roster.
func (a Activity) Has(email string) bool {
	return slices.Contains(a.Participants, email)
}

// Add appends email to the roster. Returns false if it was already present.
func (a *Activity) Add(email string) bool {
	if a.Has(email) {
		return false
	}
	a.Participants = append(a.Participants, email)
	return true
}

// Remove drops email from the roster, keeping the order of the others.
// Returns false if email was not on the roster.
func (a *Activity) Remove(email string) bool {
	i := slices.Index(a.Participants, email)
	if i < 0 {
		return false
	}
	a.Participants = slices.Delete(a.Participants, i, i+1)
	return true
}

// Clone returns a copy that shares no memory with a.
func (a Activity) Clone() Activity {
	c := a
	c.Participants = make([]string, len(a.Participants))
	copy(c.Participants, a.Participants)
	return c
}

// Clone returns a deep copy of the directory.
func (d Directory) Clone() Directory {
	out := make(Directory, len(d))
	for name, a := range d {
		out[name] = a.Clone()
	}
	return out
}

// Names returns the activity names in sorted order.
func (d Directory) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Participants returns the total number of roster entries across all activities.
func (d Directory) Participants() int {
	n := 0
	for _, a := range d {
		n += len(a.Participants)
	}
	return n
}
