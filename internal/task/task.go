package task

import (
	"time"

	"github.com/google/uuid"
)

// Task is a single tracked task.
type Task struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Progress    float64    `json:"progress"`
	IsCompleted bool       `json:"is_completed"`
	Reminder    *time.Time `json:"reminder,omitempty"`
}

// New constructs a task with a fresh id, zero progress, and no completion.
func New(name, description string, reminder *time.Time) Task {
	return Task{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Progress:    0.0,
		IsCompleted: false,
		Reminder:    reminder,
	}
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == ""
}

// SetCompleted sets the completion flag and forces progress to match:
// 1.0 when completed, 0.0 when not. This is the only place progress is
// coupled to the flag; direct Progress edits are not clamped.
func (t *Task) SetCompleted(completed bool) {
	t.IsCompleted = completed
	if completed {
		t.Progress = 1.0
	} else {
		t.Progress = 0.0
	}
}

// ToggleCompleted flips the completion flag, applying the progress coupling.
func (t *Task) ToggleCompleted() {
	t.SetCompleted(!t.IsCompleted)
}

// SetReminder sets or clears the reminder timestamp. The stored pointer is
// a copy, so the caller's value can be reused.
func (t *Task) SetReminder(at *time.Time) {
	if at == nil {
		t.Reminder = nil
		return
	}
	v := *at
	t.Reminder = &v
}

// HasReminder returns true if a reminder timestamp is set.
func (t *Task) HasReminder() bool {
	return t.Reminder != nil
}

// sameReminder compares two optional reminder timestamps.
func sameReminder(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
