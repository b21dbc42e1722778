package scheduler

import (
	"context"
	"sort"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/farhanda/snapvault/internal/domain"
)

// CronRegistrar registers named periodic jobs on an in-process cron loop.
// It implements domain.ScheduleRegistrar; Install with an already-registered
// name replaces the previous entry, so repeated installs of the same schedule
// leave exactly one registration.
type CronRegistrar struct {
	cron *cron.Cron

	mu      sync.Mutex
	entries map[string]cronEntry
}

type cronEntry struct {
	id   cron.EntryID
	spec string
}

func New() *CronRegistrar {
	return &CronRegistrar{
		cron:    cron.New(cron.WithSeconds()),
		entries: make(map[string]cronEntry),
	}
}

func (s *CronRegistrar) Install(name, spec string, job func(context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cron.AddFunc(spec, func() {
		_ = job(context.Background())
	})
	if err != nil {
		return err
	}

	if prev, ok := s.entries[name]; ok {
		s.cron.Remove(prev.id)
	}
	s.entries[name] = cronEntry{id: id, spec: spec}
	return nil
}

func (s *CronRegistrar) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.entries[name]; ok {
		s.cron.Remove(prev.id)
		delete(s.entries, name)
	}
}

func (s *CronRegistrar) Entries() []domain.ScheduleEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ScheduleEntry, 0, len(s.entries))
	for name, e := range s.entries {
		out = append(out, domain.ScheduleEntry{Name: name, Spec: e.spec})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *CronRegistrar) Start() {
	s.cron.Start()
}

func (s *CronRegistrar) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
