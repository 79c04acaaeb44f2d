package watch

import (
	"time"

	"github.com/go-co-op/gocron/v2"

	ferrors "git.home.luguber.info/inful/graphql2js/internal/foundation/errors"
)

// rescanScheduler signals the watch loop to reconcile on a fixed interval.
// The job only signals; the reconcile itself runs on the loop goroutine.
type rescanScheduler struct {
	scheduler gocron.Scheduler
}

func newRescanScheduler(interval time.Duration, signal func()) (*rescanScheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "create rescan scheduler").Build()
	}
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(signal),
		gocron.WithName("rescan"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "schedule rescan").
			WithContext("interval", interval.String()).Build()
	}
	s.Start()
	return &rescanScheduler{scheduler: s}, nil
}

func (r *rescanScheduler) stop() error {
	return r.scheduler.Shutdown()
}
