// Package store defines the backend-agnostic gateway to the hosted
// document store. All remote reads and writes go through this interface.
// Commands and core logic never import the Firestore SDK directly.
package store

import (
	"context"
	"errors"

	"taskboard/internal/model"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("not found")

// TaskPatch describes a merge-write: only non-nil fields are written, and
// the backend stamps updatedAt with the server time on every patch.
type TaskPatch struct {
	Status          *model.Status
	Subtasks        *[]model.Subtask
	Notified        *bool
	OverdueNotified *bool
}

// LogWatcher delivers live snapshots of the activity log, newest-first.
// Each call to Next blocks until the log changes (or the watch context
// ends) and returns the full snapshot, which replaces the previous one.
type LogWatcher interface {
	Next() ([]model.ActivityEntry, error)
	Stop()
}

// Store is the remote data gateway. Every operation is scoped to the
// authenticated owner; a task is visible only to the user that created it.
type Store interface {
	// Tasks fetches all of the owner's tasks, ordered by creation time
	// ascending.
	Tasks(ctx context.Context) ([]model.Task, error)

	// NewTaskID hands out a fresh document identifier without a network
	// round trip. The id becomes real on the subsequent CreateTask.
	NewTaskID() string

	// CreateTask writes a full task document under t.ID. The backend
	// stamps createdAt and updatedAt with the server time.
	CreateTask(ctx context.Context, t model.Task) error

	// MergeTask applies a partial update to one task, leaving fields not
	// named by the patch untouched.
	MergeTask(ctx context.Context, id string, p TaskPatch) error

	// BatchMergeTasks merge-writes every given task inside one atomic
	// multi-document commit.
	BatchMergeTasks(ctx context.Context, tasks []model.Task) error

	// DeleteTask removes a task document.
	DeleteTask(ctx context.Context, id string) error

	// AppendLog appends one activity entry with a server-assigned
	// timestamp.
	AppendLog(ctx context.Context, message string) error

	// Logs fetches the owner's activity log, newest-first.
	Logs(ctx context.Context) ([]model.ActivityEntry, error)

	// WatchLogs opens a live subscription on the activity log. The
	// watcher stops when ctx is cancelled or Stop is called.
	WatchLogs(ctx context.Context) (LogWatcher, error)

	// EnsureProfile creates the owner's profile document if it does not
	// exist yet. Used on first federated sign-in.
	EnsureProfile(ctx context.Context, email, displayName string) error
}
