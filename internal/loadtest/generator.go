package loadtest

import (
	"context"

	"github.com/google/uuid"
	"github.com/okian/activities/internal/domain/model"
	"github.com/okian/activities/pkg/logger"
)

// generateStudents spreads n fresh students over the directory round-robin.
func generateStudents(ctx context.Context, n int, domain string, dir model.Directory) []student {
	names := dir.Names()
	students := make([]student, n)
	for i := range students {
		students[i] = student{
			Email:    "load-" + uuid.NewString() + "@" + domain,
			Activity: names[i%len(names)],
		}
	}
	logger.Get().Info(ctx, "generated students",
		logger.Int("students", n),
		logger.Int("activities", len(names)))
	return students
}
