package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/okian/activities/internal/adapters/repository"
	service "github.com/okian/activities/internal/app"
	"github.com/okian/activities/internal/domain/model"
	"github.com/okian/activities/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func newStartedService(opts ...service.Option) (*service.Service, context.Context) {
	ctx := context.Background()
	svc := service.New(append([]service.Option{service.WithLogger(logger.Nop())}, opts...)...)
	So(svc.Start(ctx), ShouldBeNil)
	return svc, ctx
}

func waitForChanges(svc *service.Service, ctx context.Context, n int) []model.Change {
	deadline := time.Now().Add(2 * time.Second)
	for {
		changes, err := svc.Changes(ctx, 100)
		So(err, ShouldBeNil)
		if len(changes) >= n || time.Now().After(deadline) {
			return changes
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then the directory should be usable before start", func() {
			So(len(svc.List(context.Background())), ShouldEqual, 9)
			So(svc.GetStats()["started"], ShouldEqual, false)
		})

		Convey("When starting and stopping it", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.GetStats()["started"], ShouldEqual, true)

			svc.Stop()
			svc.Stop()

			Convey("Then it should be marked as stopped", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})

			Convey("And it should start again with a fresh feed", func() {
				So(svc.Start(ctx), ShouldBeNil)
				defer svc.Stop()
				_, err := svc.Signup(ctx, "Chess Club", "restart@mergington.edu")
				So(err, ShouldBeNil)
				So(len(waitForChanges(svc, ctx, 1)), ShouldEqual, 1)
			})
		})
	})
}

func TestService_Signup(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc, ctx := newStartedService()
		defer svc.Stop()

		Convey("When signing up a new participant", func() {
			before := len(svc.List(ctx)["Programming Class"].Participants)
			msg, err := svc.Signup(ctx, "Programming Class", "test@mergington.edu")

			Convey("Then the roster should grow by exactly one", func() {
				So(err, ShouldBeNil)
				So(msg, ShouldEqual, "Signed up test@mergington.edu for Programming Class")
				roster := svc.List(ctx)["Programming Class"].Participants
				So(len(roster), ShouldEqual, before+1)
				So(roster, ShouldContain, "test@mergington.edu")
			})
		})

		Convey("When signing up the same participant twice", func() {
			_, err := svc.Signup(ctx, "Chess Club", "duplicate@mergington.edu")
			So(err, ShouldBeNil)
			size := len(svc.List(ctx)["Chess Club"].Participants)
			_, err = svc.Signup(ctx, "Chess Club", "duplicate@mergington.edu")

			Convey("Then the second call should be rejected and change nothing", func() {
				So(errors.Is(err, model.ErrAlreadySignedUp), ShouldBeTrue)
				So(len(svc.List(ctx)["Chess Club"].Participants), ShouldEqual, size)
			})
		})

		Convey("When signing up for an unknown activity", func() {
			_, err := svc.Signup(ctx, "Nonexistent Activity", "test@mergington.edu")

			Convey("Then it should report not found", func() {
				So(errors.Is(err, model.ErrActivityNotFound), ShouldBeTrue)
				So(err.Error(), ShouldStartWith, "directory.signup: ")
			})
		})
	})
}

func TestService_Unregister(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc, ctx := newStartedService()
		defer svc.Stop()

		Convey("When unregistering a participant who signed up", func() {
			email := "unregister_test@mergington.edu"
			_, err := svc.Signup(ctx, "Chess Club", email)
			So(err, ShouldBeNil)
			msg, err := svc.Unregister(ctx, "Chess Club", email)

			Convey("Then they should be off the roster", func() {
				So(err, ShouldBeNil)
				So(msg, ShouldContainSubstring, "Unregistered")
				So(svc.List(ctx)["Chess Club"].Participants, ShouldNotContain, email)
			})
		})

		Convey("When unregistering someone who never signed up", func() {
			_, err := svc.Unregister(ctx, "Chess Club", "notregistered@mergington.edu")

			Convey("Then it should report not registered", func() {
				So(errors.Is(err, model.ErrNotSignedUp), ShouldBeTrue)
			})
		})

		Convey("When unregistering from an unknown activity", func() {
			_, err := svc.Unregister(ctx, "Nonexistent Activity", "test@mergington.edu")

			Convey("Then it should report not found", func() {
				So(errors.Is(err, model.ErrActivityNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestService_Changes(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc, ctx := newStartedService(service.WithHistorySize(10), service.WithFeedWorkerCount(1))
		defer svc.Stop()

		Convey("When participants sign up and leave", func() {
			_, _ = svc.Signup(ctx, "Drama Club", "a@mergington.edu")
			_, _ = svc.Unregister(ctx, "Drama Club", "a@mergington.edu")
			_, _ = svc.Signup(ctx, "Drama Club", "a@mergington.edu") // counted
			_, _ = svc.Signup(ctx, "Drama Club", "a@mergington.edu") // rejected, not recorded

			changes := waitForChanges(svc, ctx, 3)

			Convey("Then the feed should hold successful changes newest first", func() {
				So(len(changes), ShouldEqual, 3)
				So(changes[0].Kind, ShouldEqual, model.ChangeSignup)
				So(changes[1].Kind, ShouldEqual, model.ChangeUnregister)
				So(changes[2].Kind, ShouldEqual, model.ChangeSignup)
				So(changes[0].Activity, ShouldEqual, "Drama Club")
			})
		})

		Convey("When asking for a non-positive limit", func() {
			_, errZero := svc.Changes(ctx, 0)
			_, errNeg := svc.Changes(ctx, -3)

			Convey("Then it should be rejected", func() {
				So(errors.Is(errZero, service.ErrInvalidLimit), ShouldBeTrue)
				So(errors.Is(errNeg, service.ErrInvalidLimit), ShouldBeTrue)
			})
		})

		Convey("When asking for more changes than the history holds", func() {
			for i := range 12 {
				_, err := svc.Signup(ctx, "Science Club", fmt.Sprintf("s%d@mergington.edu", i))
				So(err, ShouldBeNil)
			}
			deadline := time.Now().Add(2 * time.Second)
			for svc.GetStats()["feedProcessed"] != int64(12) && time.Now().Before(deadline) {
				time.Sleep(5 * time.Millisecond)
			}
			changes := waitForChanges(svc, ctx, 10)
			all, err := svc.Changes(ctx, 11)

			Convey("Then the whole history is returned", func() {
				So(err, ShouldBeNil)
				So(changes, ShouldHaveLength, 10)
				So(all, ShouldHaveLength, 10)
				So(all[0].Email, ShouldEqual, "s11@mergington.edu")
			})
		})
	})
}

func TestService_StopDrainsAfterCancel(t *testing.T) {
	Convey("Given changes queued before the feed starts", t, func() {
		svc := service.New(service.WithLogger(logger.Nop()), service.WithHistorySize(50))
		ctx, cancel := context.WithCancel(context.Background())
		for i := range 20 {
			_, err := svc.Signup(ctx, "Basketball Club", fmt.Sprintf("b%d@mergington.edu", i))
			So(err, ShouldBeNil)
		}

		Convey("When the start context is canceled before Stop", func() {
			So(svc.Start(ctx), ShouldBeNil)
			cancel()
			svc.Stop()

			Convey("Then every queued change is still recorded", func() {
				changes, err := svc.Changes(context.Background(), 50)
				So(err, ShouldBeNil)
				So(changes, ShouldHaveLength, 20)
			})
		})
	})
}

func TestService_Reset(t *testing.T) {
	Convey("Given a service built from a custom seed", t, func() {
		seed := model.Directory{
			"Robotics Lab": {Description: "d", Schedule: "s", MaxParticipants: 2, Participants: []string{"ada@mergington.edu"}},
		}
		svc, ctx := newStartedService(service.WithSeed(seed))
		defer svc.Stop()

		Convey("When the roster changes and the service is reset", func() {
			_, _ = svc.Signup(ctx, "Robotics Lab", "alan@mergington.edu")
			_, _ = svc.Signup(ctx, "Robotics Lab", "grace@mergington.edu")
			waitForChanges(svc, ctx, 2)
			svc.Reset(ctx)

			Convey("Then the seed roster should be back", func() {
				So(svc.List(ctx)["Robotics Lab"].Participants, ShouldResemble, []string{"ada@mergington.edu"})
				So(svc.GetStats()["historyLength"], ShouldEqual, 0)
			})
		})
	})

	Convey("Given a service with an injected store", t, func() {
		store := repository.NewMemoryStore()
		svc, ctx := newStartedService(service.WithStore(store))
		defer svc.Stop()

		Convey("When signing up through the service", func() {
			_, err := svc.Signup(ctx, "Tennis Team", "serena@mergington.edu")

			Convey("Then the injected store should see it", func() {
				So(err, ShouldBeNil)
				a, err := store.Get(ctx, "Tennis Team")
				So(err, ShouldBeNil)
				So(a.Participants, ShouldContain, "serena@mergington.edu")
			})
		})
	})
}

func TestService_GetStats(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc, ctx := newStartedService()
		defer svc.Stop()
		_, _ = svc.Signup(ctx, "Science Club", "curie@mergington.edu")

		Convey("When reading stats", func() {
			stats := svc.GetStats()

			Convey("Then they should reflect the directory", func() {
				So(stats["activities"], ShouldEqual, 9)
				So(stats["participants"], ShouldEqual, repository.DefaultSeed().Participants()+1)
				So(stats["feedWorkerCount"], ShouldEqual, 1)
				So(stats, ShouldContainKey, "feedProcessed")
			})
		})
	})
}
