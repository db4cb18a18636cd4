package reminder

import (
	"context"
	"sync"

	"github.com/gen2brain/beeep"
)

// Notifier is the platform notification port. A real implementation talks
// to the host notification service; tests use Memory.
type Notifier interface {
	// RequestAuthorization resolves notification permission. It blocks
	// until the platform grants or denies, or ctx is done.
	RequestAuthorization(ctx context.Context) (bool, error)
	// Notify delivers a one-shot notification keyed by taskID.
	Notify(taskID, title, body string) error
}

// Desktop delivers notifications through the OS notification service.
type Desktop struct {
	// AppName overrides the application name shown on notifications.
	AppName string
}

// NewDesktop returns a Desktop notifier.
func NewDesktop() *Desktop {
	return &Desktop{AppName: "taskdeck"}
}

// RequestAuthorization always grants: desktop notification daemons do not
// gate delivery behind a per-app permission prompt.
func (d *Desktop) RequestAuthorization(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return true, nil
}

// Notify delivers the notification. The taskID is not part of the desktop
// protocol; dedup per id is the scheduler's job.
func (d *Desktop) Notify(taskID, title, body string) error {
	if d.AppName != "" {
		beeep.AppName = d.AppName
	}
	return beeep.Notify(title, body, "")
}

// Notification records a delivered notification in the Memory fake.
type Notification struct {
	TaskID string
	Title  string
	Body   string
}

// Memory is an in-memory Notifier for tests. It grants or denies
// authorization per the Granted field and records every delivery.
type Memory struct {
	mu sync.Mutex

	// Granted is the answer RequestAuthorization returns. Defaults to true
	// via NewMemory.
	Granted bool
	// NotifyErr, when set, is returned by every Notify call.
	NotifyErr error

	sent []Notification
}

// NewMemory returns a Memory notifier that grants authorization.
func NewMemory() *Memory {
	return &Memory{Granted: true}
}

// RequestAuthorization returns the configured grant answer.
func (m *Memory) RequestAuthorization(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return m.Granted, nil
}

// Notify records the notification.
func (m *Memory) Notify(taskID, title, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.NotifyErr != nil {
		return m.NotifyErr
	}
	m.sent = append(m.sent, Notification{TaskID: taskID, Title: title, Body: body})
	return nil
}

// Sent returns a copy of the recorded notifications.
func (m *Memory) Sent() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Notification, len(m.sent))
	copy(out, m.sent)
	return out
}
