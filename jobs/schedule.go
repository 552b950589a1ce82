package jobs

import (
	"time"

	"github.com/robfig/cron/v3"

	"infracore/errkind"
)

// Schedule computes the next matching instant for a cron-like expression,
// grounded on the teacher pack's use of github.com/robfig/cron/v3 in
// rag-loader's LoaderService.scheduleJobs (AddFunc(schedule, ...)):
// generalized off registering callbacks directly with a *cron.Cron onto a
// standalone next-run calculator a Runner in Scheduled mode can drive itself.
type Schedule struct {
	expr string
	sched cron.Schedule
}

// ParseSchedule parses a standard 5-field cron expression ("minute hour dom
// month dow").
func ParseSchedule(expr string) (Schedule, error) {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return Schedule{}, errkind.Wrap(errkind.InvalidArgument, err, "jobs: invalid schedule expression")
	}
	return Schedule{expr: expr, sched: sched}, nil
}

// Next returns the next instant strictly after from that the schedule matches.
func (s Schedule) Next(from time.Time) time.Time { return s.sched.Next(from) }

// IsZero reports whether s was never assigned by ParseSchedule.
func (s Schedule) IsZero() bool { return s.sched == nil }

// String returns the original cron expression.
func (s Schedule) String() string { return s.expr }
