package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskdeck/internal/kv"
)

// blobKey is the fixed key the task collection is persisted under.
const blobKey = "tasks"

// schemaVersion is the persisted blob format version.
const schemaVersion = 1

// Scheduler receives reminder scheduling requests from the store.
// Calls are fire-and-forget: the store does not wait for delivery.
type Scheduler interface {
	Schedule(taskID, taskName string, fireAt time.Time)
	Cancel(taskID string)
}

// envelope is the persisted blob structure.
type envelope struct {
	SchemaVersion int    `json:"schema_version"`
	Tasks         []Task `json:"tasks"`
}

// Store owns the ordered task collection and bridges it to durable storage.
// All mutations happen on one logical thread of control; the store itself
// is not safe for concurrent use.
type Store struct {
	db        kv.Store
	scheduler Scheduler
	logger    *log.Logger

	tasks    []Task
	onChange []func()
}

// Option configures a Store.
type Option func(*Store)

// WithScheduler wires a reminder scheduler into the store.
func WithScheduler(s Scheduler) Option {
	return func(st *Store) {
		st.scheduler = s
	}
}

// WithLogger sets the store's logger.
func WithLogger(logger *log.Logger) Option {
	return func(st *Store) {
		st.logger = logger
	}
}

// NewStore creates a store over the given key-value backend.
func NewStore(db kv.Store, opts ...Option) *Store {
	st := &Store{
		db:     db,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// OnChange registers a callback invoked after every in-memory mutation.
// Callbacks fire whether or not the subsequent save succeeds, since the
// in-memory collection stays authoritative either way.
func (s *Store) OnChange(fn func()) {
	s.onChange = append(s.onChange, fn)
}

func (s *Store) notify() {
	for _, fn := range s.onChange {
		fn()
	}
}

// Load replaces the in-memory collection with the persisted blob.
// A missing blob (first run) yields an empty collection and no error.
// A corrupt or schema-invalid blob also yields an empty collection, with
// a recoverable error describing what was wrong. Load never fails hard.
func (s *Store) Load() error {
	s.tasks = nil

	data, err := s.db.Get(blobKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("read tasks blob: %w", err)
	}

	if err := validateBlob(data); err != nil {
		return fmt.Errorf("tasks blob is corrupt: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("parse tasks blob: %w", err)
	}
	if env.SchemaVersion != schemaVersion {
		return fmt.Errorf("tasks blob: unsupported schema version %d", env.SchemaVersion)
	}

	s.tasks = env.Tasks
	return nil
}

// Save serializes the full ordered collection to the blob key.
// A failed save leaves the in-memory collection untouched and authoritative.
func (s *Store) Save() error {
	env := envelope{
		SchemaVersion: schemaVersion,
		Tasks:         s.tasks,
	}
	if env.Tasks == nil {
		env.Tasks = []Task{}
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	data = append(data, '\n')

	if err := s.db.Put(blobKey, data); err != nil {
		return fmt.Errorf("write tasks blob: %w", err)
	}
	return nil
}

// Add creates a new task, appends it to the collection, persists, and
// schedules its reminder if one was supplied. The task is returned even
// when the save fails; the error reports the save outcome.
func (s *Store) Add(name, description string, reminder *time.Time) (Task, error) {
	t := New(name, description, reminder)
	s.tasks = append(s.tasks, t)
	s.notify()

	err := s.Save()

	if t.Reminder != nil && s.scheduler != nil {
		s.scheduler.Schedule(t.ID, t.Name, *t.Reminder)
	}
	return t, err
}

// Delete removes the task at the given position, persists, and cancels any
// pending reminder for its id. An out-of-range index is a silent no-op;
// it indicates a stale caller-side reference, not a store fault.
func (s *Store) Delete(index int) error {
	if index < 0 || index >= len(s.tasks) {
		s.logger.Debug("delete ignored: index out of range", "index", index, "len", len(s.tasks))
		return nil
	}

	t := s.tasks[index]
	s.tasks = append(s.tasks[:index], s.tasks[index+1:]...)
	s.notify()

	err := s.Save()

	if s.scheduler != nil {
		s.scheduler.Cancel(t.ID)
	}
	return err
}

// Update applies the mutator to the task with the given id, persists, and
// reschedules or cancels its reminder if the mutator changed it. An unknown
// id is a silent no-op.
func (s *Store) Update(id string, mutate func(*Task)) error {
	idx := s.indexOf(id)
	if idx < 0 {
		s.logger.Debug("update ignored: unknown task", "id", id)
		return nil
	}

	before := s.tasks[idx].Reminder
	mutate(&s.tasks[idx])
	s.tasks[idx].ID = id // the id is immutable, whatever the mutator did
	after := s.tasks[idx].Reminder
	s.notify()

	err := s.Save()

	if s.scheduler != nil && !sameReminder(before, after) {
		if after == nil {
			s.scheduler.Cancel(id)
		} else {
			s.scheduler.Schedule(id, s.tasks[idx].Name, *after)
		}
	}
	return err
}

// Tasks returns a copy of the ordered collection for display.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get returns the task with the given id, or a zero task if not found.
func (s *Store) Get(id string) (Task, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Task{}, false
	}
	return s.tasks[idx], true
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}
