package reminder

import (
	"context"
	"testing"
	"time"
)

func authorize(t *testing.T, s *Scheduler) {
	t.Helper()
	granted, err := s.RequestAuthorization(context.Background())
	if err != nil {
		t.Fatalf("RequestAuthorization failed: %v", err)
	}
	if !granted {
		t.Fatal("RequestAuthorization: got denied, want granted")
	}
}

// waitForSent polls until the fake notifier has at least n deliveries.
func waitForSent(t *testing.T, m *Memory, n int) []Notification {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if sent := m.Sent(); len(sent) >= n {
			return sent
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d notifications, got %d", n, len(m.Sent()))
	return nil
}

func TestScheduleFiresNotification(t *testing.T) {
	notifier := NewMemory()
	s := NewScheduler(notifier)
	defer s.Stop()
	authorize(t, s)

	s.Schedule("t1", "Buy milk", time.Now().Add(10*time.Millisecond))

	sent := waitForSent(t, notifier, 1)
	if sent[0].TaskID != "t1" || sent[0].Title != "Buy milk" {
		t.Errorf("notification: got %+v", sent[0])
	}
	if s.Pending("t1") {
		t.Error("Pending: got true after firing, want false")
	}
}

func TestSchedulePastTimeFiresImmediately(t *testing.T) {
	notifier := NewMemory()
	s := NewScheduler(notifier)
	defer s.Stop()
	authorize(t, s)

	s.Schedule("t1", "Overdue", time.Now().Add(-time.Hour))

	sent := waitForSent(t, notifier, 1)
	if sent[0].TaskID != "t1" {
		t.Errorf("notification: got %+v", sent[0])
	}
}

func TestScheduleReplacesPending(t *testing.T) {
	notifier := NewMemory()
	s := NewScheduler(notifier)
	defer s.Stop()
	authorize(t, s)

	s.Schedule("t1", "task", time.Now().Add(time.Hour))
	s.Schedule("t1", "task", time.Now().Add(2*time.Hour))

	if got := s.PendingCount(); got != 1 {
		t.Errorf("PendingCount: got %d, want 1 (at most one per id)", got)
	}
}

func TestCancelDropsPending(t *testing.T) {
	notifier := NewMemory()
	s := NewScheduler(notifier)
	defer s.Stop()
	authorize(t, s)

	s.Schedule("t1", "task", time.Now().Add(time.Hour))
	if !s.Pending("t1") {
		t.Fatal("Pending: got false after Schedule, want true")
	}

	s.Cancel("t1")
	if s.Pending("t1") {
		t.Error("Pending: got true after Cancel, want false")
	}

	// Cancelling again is a no-op.
	s.Cancel("t1")
	s.Cancel("never-scheduled")
}

func TestCancelledReminderNeverFires(t *testing.T) {
	notifier := NewMemory()
	s := NewScheduler(notifier)
	defer s.Stop()
	authorize(t, s)

	s.Schedule("t1", "task", time.Now().Add(20*time.Millisecond))
	s.Cancel("t1")

	time.Sleep(100 * time.Millisecond)
	if sent := notifier.Sent(); len(sent) != 0 {
		t.Errorf("notifications after cancel: got %d, want 0", len(sent))
	}
}

func TestDeniedAuthorizationMakesScheduleNoOp(t *testing.T) {
	notifier := NewMemory()
	notifier.Granted = false
	s := NewScheduler(notifier)
	defer s.Stop()

	granted, err := s.RequestAuthorization(context.Background())
	if err != nil {
		t.Fatalf("RequestAuthorization failed: %v", err)
	}
	if granted {
		t.Fatal("RequestAuthorization: got granted, want denied")
	}

	s.Schedule("t1", "task", time.Now().Add(-time.Hour))

	time.Sleep(50 * time.Millisecond)
	if s.PendingCount() != 0 {
		t.Error("PendingCount: got nonzero after denied authorization")
	}
	if sent := notifier.Sent(); len(sent) != 0 {
		t.Errorf("notifications: got %d, want 0", len(sent))
	}
}

func TestScheduleBeforeAuthorizationIsNoOp(t *testing.T) {
	notifier := NewMemory()
	s := NewScheduler(notifier)
	defer s.Stop()

	s.Schedule("t1", "task", time.Now().Add(-time.Hour))

	time.Sleep(50 * time.Millisecond)
	if s.PendingCount() != 0 {
		t.Error("PendingCount: got nonzero before authorization resolved")
	}
}

func TestAuthorizationCancelledContext(t *testing.T) {
	notifier := NewMemory()
	s := NewScheduler(notifier)
	defer s.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	granted, err := s.RequestAuthorization(ctx)
	if err == nil {
		t.Error("RequestAuthorization: got nil error with cancelled context")
	}
	if granted {
		t.Error("RequestAuthorization: got granted with cancelled context")
	}
}

func TestStopCancelsEverything(t *testing.T) {
	notifier := NewMemory()
	s := NewScheduler(notifier)
	authorize(t, s)

	s.Schedule("t1", "a", time.Now().Add(time.Hour))
	s.Schedule("t2", "b", time.Now().Add(time.Hour))
	s.Schedule("t3", "c", time.Now().Add(time.Hour))

	s.Stop()
	if got := s.PendingCount(); got != 0 {
		t.Errorf("PendingCount after Stop: got %d, want 0", got)
	}
}

func TestNotifyErrorDoesNotPanic(t *testing.T) {
	notifier := NewMemory()
	notifier.NotifyErr = context.DeadlineExceeded
	s := NewScheduler(notifier)
	defer s.Stop()
	authorize(t, s)

	s.Schedule("t1", "task", time.Now().Add(-time.Minute))

	// Give the timer goroutine time to run; the error is logged, the
	// pending entry is gone, and nothing blows up.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && s.Pending("t1") {
		time.Sleep(5 * time.Millisecond)
	}
	if s.Pending("t1") {
		t.Error("Pending: still true after failed delivery")
	}
}
