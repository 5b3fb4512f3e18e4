package loadtest

import (
	"fmt"
	"slices"

	"github.com/okian/activities/internal/domain/model"
)

// verifyRosters checks that every activity in baseline still has the same
// roster, in the same order.
func verifyRosters(baseline, final model.Directory) error {
	for _, name := range baseline.Names() {
		got, ok := final[name]
		if !ok {
			return fmt.Errorf("%w: %q missing", ErrRosterDrift, name)
		}
		if !slices.Equal(baseline[name].Participants, got.Participants) {
			return fmt.Errorf("%w: %q has %v, want %v", ErrRosterDrift, name, got.Participants, baseline[name].Participants)
		}
	}
	return nil
}
