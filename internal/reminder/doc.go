// Package reminder schedules one-shot local notifications for tasks.
//
// The Scheduler maintains a one-to-one mapping from task id to at most one
// pending notification timer. Scheduling the same id again replaces the
// pending timer; cancelling drops it. Notification delivery goes through
// the Notifier port, with a desktop implementation (beeep) and an
// in-memory fake for tests.
//
// Scheduling is best-effort: authorization must resolve before the first
// Schedule call has any effect, a denied grant turns scheduling into a
// silent no-op, and delivery failures are logged rather than surfaced.
package reminder
