package repository

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/activities/internal/domain/model"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func TestDefaultSeed_IsValid(t *testing.T) {
	if err := ValidateSeed(DefaultSeed()); err != nil {
		t.Fatalf("built-in seed is invalid: %v", err)
	}
}

func TestLoadSeedFile(t *testing.T) {
	path := writeSeed(t, `
activities:
  Robotics Lab:
    description: Build and program robots
    schedule: Saturdays, 10:00 AM - 12:00 PM
    max_participants: 8
    participants:
      - ada@mergington.edu
      - alan@mergington.edu
  St. Mary's Choir:
    description: Sing with the school choir
    schedule: Sundays, 9:00 AM
    max_participants: 40
`)

	dir, err := LoadSeedFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dir) != 2 {
		t.Fatalf("expected 2 activities, got %d: %v", len(dir), dir.Names())
	}
	robotics := dir["Robotics Lab"]
	if robotics.MaxParticipants != 8 || robotics.Schedule != "Saturdays, 10:00 AM - 12:00 PM" {
		t.Errorf("unexpected attributes: %+v", robotics)
	}
	if len(robotics.Participants) != 2 || robotics.Participants[0] != "ada@mergington.edu" {
		t.Errorf("participants not kept in order: %v", robotics.Participants)
	}
	choir, ok := dir["St. Mary's Choir"]
	if !ok {
		t.Fatalf("names with dots must survive loading: %v", dir.Names())
	}
	if choir.Participants == nil {
		t.Error("missing participants should load as an empty list")
	}

	store := NewMemoryStore(WithSeed(dir))
	if got := store.List(t.Context()); len(got) != 2 {
		t.Errorf("store should use the loaded seed, got %v", got.Names())
	}
}

func TestLoadSeedFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty catalog", "activities: {}\n"},
		{"zero capacity", "activities:\n  A:\n    description: d\n    schedule: s\n    max_participants: 0\n"},
		{"duplicate participant", "activities:\n  A:\n    max_participants: 3\n    participants: [a@x, a@x]\n"},
		{"malformed yaml", "activities: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSeedFile(writeSeed(t, tt.content))
			if !errors.Is(err, ErrInvalidSeed) {
				t.Errorf("expected ErrInvalidSeed, got %v", err)
			}
		})
	}

	if _, err := LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, ErrInvalidSeed) {
		t.Errorf("expected ErrInvalidSeed for a missing file, got %v", err)
	}
}

func TestValidateSeed_EmptyName(t *testing.T) {
	err := ValidateSeed(model.Directory{"": {MaxParticipants: 1}})
	if !errors.Is(err, ErrInvalidSeed) {
		t.Errorf("expected ErrInvalidSeed, got %v", err)
	}
}
