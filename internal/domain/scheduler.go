package domain

import "context"

// ScheduleEntry describes one registered periodic trigger.
type ScheduleEntry struct {
	Name string
	Spec string
}

// ScheduleRegistrar installs and removes the periodic backup trigger. The
// concrete scheduling mechanism (in-process cron, crontab file, systemd
// timer) is swappable behind it. Install is idempotent per name: installing
// an already-registered name replaces the previous entry.
type ScheduleRegistrar interface {
	Install(name, spec string, job func(context.Context) error) error
	Remove(name string)
	Entries() []ScheduleEntry
}
