package jobs

import (
	"infracore/errkind"
	"infracore/filer"
)

// ScheduleDefinition is the on-disk shape a Scheduled-mode Runner's
// configuration can be loaded from, instead of hard-coding a cron
// expression at construction time (spec.md §9's "Async lock"/
// EnsureQueueCreatedAsync aside gestures at configuration loaded this way;
// filer.JsonFiler already plays exactly this save/load role for the
// teacher's own config objects).
type ScheduleDefinition struct {
	Name string `json:"name"`
	Expr string `json:"expr"`
}

// LoadScheduleFile reads a JSON ScheduleDefinition from path and parses its
// cron expression into a Schedule.
func LoadScheduleFile(path string) (ScheduleDefinition, Schedule, error) {
	var def ScheduleDefinition
	if err := filer.NewJsonLoader().Load(path, &def); err != nil {
		return ScheduleDefinition{}, Schedule{}, errkind.Wrap(errkind.Serialization, err, "jobs: failed to load schedule file")
	}
	sched, err := ParseSchedule(def.Expr)
	if err != nil {
		return def, Schedule{}, err
	}
	return def, sched, nil
}
