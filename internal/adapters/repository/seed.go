package repository

import (
	"fmt"
	"slices"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/activities/internal/domain/model"
)

// seedKey is the top-level key of a YAML seed catalog.
const seedKey = "activities"

// seedDelim splits nested koanf keys. Activity names may contain dots,
// so the catalog is read with a delimiter that cannot appear in a path segment.
const seedDelim = "/"

// DefaultSeed returns the built-in activity catalog.
func DefaultSeed() model.Directory {
	return model.Directory{
		"Chess Club": {
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		"Programming Class": {
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
		},
		"Gym Class": {
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
		},
		"Basketball Club": {
			Description:     "Practice drills and play in inter-school basketball games",
			Schedule:        "Mondays and Wednesdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 15,
			Participants:    []string{"liam@mergington.edu"},
		},
		"Tennis Team": {
			Description:     "Train technique and compete in regional tennis matches",
			Schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 10,
			Participants:    []string{"ava@mergington.edu"},
		},
		"Art Workshop": {
			Description:     "Explore drawing, painting, and sculpture",
			Schedule:        "Wednesdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 18,
			Participants:    []string{"mia@mergington.edu"},
		},
		"Drama Club": {
			Description:     "Act, direct, and stage the school's theater productions",
			Schedule:        "Thursdays, 3:30 PM - 5:30 PM",
			MaxParticipants: 25,
			Participants:    []string{"noah@mergington.edu"},
		},
		"Debate Team": {
			Description:     "Build argumentation skills and compete in debate tournaments",
			Schedule:        "Mondays, 3:30 PM - 5:00 PM",
			MaxParticipants: 16,
			Participants:    []string{"isabella@mergington.edu"},
		},
		"Science Club": {
			Description:     "Run hands-on experiments and prepare for science fairs",
			Schedule:        "Fridays, 2:00 PM - 3:30 PM",
			MaxParticipants: 20,
			Participants:    []string{},
		},
	}
}

// LoadSeedFile reads a YAML catalog of the form
//
//	activities:
//	  Chess Club:
//	    description: ...
//	    schedule: ...
//	    max_participants: 12
//	    participants: [michael@mergington.edu]
func LoadSeedFile(path string) (model.Directory, error) {
	k := koanf.New(seedDelim)
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSeed, path, err)
	}

	var catalog map[string]model.Activity
	if err := k.UnmarshalWithConf(seedKey, &catalog, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSeed, path, err)
	}

	dir := model.Directory(catalog).Clone()
	if err := ValidateSeed(dir); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dir, nil
}

// ValidateSeed checks that a catalog satisfies the directory invariants.
func ValidateSeed(dir model.Directory) error {
	if len(dir) == 0 {
		return fmt.Errorf("%w: no activities", ErrInvalidSeed)
	}
	for _, name := range dir.Names() {
		a := dir[name]
		if name == "" {
			return fmt.Errorf("%w: empty activity name", ErrInvalidSeed)
		}
		if a.MaxParticipants < 1 {
			return fmt.Errorf("%w: %q: max_participants must be positive", ErrInvalidSeed, name)
		}
		seen := make([]string, 0, len(a.Participants))
		for _, email := range a.Participants {
			if slices.Contains(seen, email) {
				return fmt.Errorf("%w: %q: duplicate participant %q", ErrInvalidSeed, name, email)
			}
			seen = append(seen, email)
		}
	}
	return nil
}
