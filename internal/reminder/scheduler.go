package reminder

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Scheduler keeps at most one pending notification timer per task id and
// fires them through the notification port.
//
// Timer callbacks run on their own goroutines, so the pending map is
// guarded by a mutex even though callers drive the scheduler from a single
// thread of control.
type Scheduler struct {
	mu       sync.Mutex
	notifier Notifier
	logger   *log.Logger

	timers map[string]*time.Timer

	authResolved bool
	authorized   bool
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithLogger sets the scheduler's logger.
func WithLogger(logger *log.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// NewScheduler creates a scheduler over the given notification port.
func NewScheduler(notifier Notifier, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		notifier: notifier,
		logger:   log.Default(),
		timers:   make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RequestAuthorization resolves notification permission through the port.
// It must complete before Schedule has any effect; when denied, Schedule
// calls become silent no-ops and the app stays usable without reminders.
func (s *Scheduler) RequestAuthorization(ctx context.Context) (bool, error) {
	granted, err := s.notifier.RequestAuthorization(ctx)

	s.mu.Lock()
	s.authResolved = err == nil
	s.authorized = granted && err == nil
	s.mu.Unlock()

	if err != nil {
		return false, err
	}
	if !granted {
		s.logger.Warn("notification permission denied, reminders disabled")
	}
	return granted, nil
}

// Schedule registers a one-shot notification for the task, replacing any
// pending one for the same id. A fireAt in the past fires immediately.
func (s *Scheduler) Schedule(taskID, taskName string, fireAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authResolved || !s.authorized {
		s.logger.Debug("schedule skipped: notifications not authorized", "task", taskID)
		return
	}

	if timer, ok := s.timers[taskID]; ok {
		timer.Stop()
	}

	delay := time.Until(fireAt)
	if delay < 0 {
		delay = 0
	}

	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		s.fire(taskID, taskName, timer)
	})
	s.timers[taskID] = timer
	s.logger.Debug("reminder scheduled", "task", taskID, "at", fireAt)
}

// Cancel drops any pending notification for the task id. No-op if none.
func (s *Scheduler) Cancel(taskID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.timers[taskID]
	if !ok {
		return
	}
	timer.Stop()
	delete(s.timers, taskID)
	s.logger.Debug("reminder cancelled", "task", taskID)
}

// Pending reports whether a notification is pending for the task id.
func (s *Scheduler) Pending(taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[taskID]
	return ok
}

// PendingCount returns the number of pending notifications.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every pending notification. Used at shutdown.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
}

// fire runs on the timer goroutine when a reminder comes due.
func (s *Scheduler) fire(taskID, taskName string, timer *time.Timer) {
	s.mu.Lock()
	if current, ok := s.timers[taskID]; !ok || current != timer {
		// Cancelled or replaced between the timer firing and us taking
		// the lock.
		s.mu.Unlock()
		return
	}
	delete(s.timers, taskID)
	s.mu.Unlock()

	if err := s.notifier.Notify(taskID, taskName, "Task reminder"); err != nil {
		s.logger.Error("deliver notification", "task", taskID, "err", err)
		return
	}
	s.logger.Info("reminder fired", "task", taskID, "name", taskName)
}
