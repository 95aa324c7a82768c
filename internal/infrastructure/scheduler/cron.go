package scheduler

import (
	"fmt"
	"medreminder/internal/pkg/logger"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler manages cron jobs with seconds precision in a fixed location.
type Scheduler struct {
	cron *cron.Cron
	loc  *time.Location
	log  logger.Logger
	mu   sync.Mutex
}

// NewScheduler creates and starts a cron scheduler evaluating specs in loc.
func NewScheduler(loc *time.Location, log logger.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	c := cron.New(cron.WithSeconds(), cron.WithLocation(loc))
	c.Start()
	log.Info(fmt.Sprintf("Cron scheduler started (location %s).", loc))
	return &Scheduler{
		cron: c,
		loc:  loc,
		log:  log,
	}
}

// Location returns the time zone specs are evaluated in.
func (s *Scheduler) Location() *time.Location {
	return s.loc
}

// AddJob adds a new job to the scheduler.
// spec follows the six-field cron format (e.g., "0 30 9 * * *").
func (s *Scheduler) AddJob(spec string, cmd func()) (cron.EntryID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cron.AddFunc(spec, cmd)
	if err != nil {
		return 0, fmt.Errorf("failed to add cron job %q: %w", spec, err)
	}
	s.log.Debug(fmt.Sprintf("Added cron job with ID %d, spec: %s", id, spec))
	return id, nil
}

// RemoveJob removes a job from the scheduler by its EntryID.
func (s *Scheduler) RemoveJob(id cron.EntryID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cron.Remove(id)
	s.log.Debug(fmt.Sprintf("Removed cron job with ID %d", id))
}

// Stop stops the cron scheduler and waits for running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Cron scheduler stopped.")
}

// GetEntries returns the list of scheduled entries.
func (s *Scheduler) GetEntries() []cron.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron.Entries()
}

// OnceAt returns a spec that matches t (in the scheduler's location) down to
// the second. The spec repeats yearly, so callers remove the job after it runs.
func (s *Scheduler) OnceAt(t time.Time) string {
	t = t.In(s.loc)
	// Seconds Minutes Hours DayOfMonth Month DayOfWeek
	return fmt.Sprintf("%d %d %d %d %d *", t.Second(), t.Minute(), t.Hour(), t.Day(), t.Month())
}

// DailyAt returns a spec that matches hour:minute every day.
func DailyAt(hour, minute int) string {
	return fmt.Sprintf("0 %d %d * * *", minute, hour)
}
