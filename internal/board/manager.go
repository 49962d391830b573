// Package board owns the in-memory task list and the kanban board built
// from it. Every mutation is applied locally first and then written to the
// remote store; a failed remote write leaves local state as the user last
// set it and is reported to the operator console only.
package board

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"taskboard/internal/activity"
	"taskboard/internal/model"
	"taskboard/internal/store"
)

// Validation errors, surfaced to the user before any state changes.
var (
	ErrTitleRequired   = errors.New("title required")
	ErrDueDateRequired = errors.New("due date required")
)

// Manager maintains the authoritative in-memory set of the owner's tasks.
// It is not safe for concurrent use; a single session issues one mutation
// at a time.
type Manager struct {
	store   store.Store
	log     *activity.Logger
	owner   string
	console *log.Logger
	now     func() time.Time
	tasks   []model.Task
}

// NewManager creates a Manager for the given owner.
func NewManager(s store.Store, al *activity.Logger, owner string) *Manager {
	return &Manager{
		store:   s,
		log:     al,
		owner:   owner,
		console: log.New(os.Stderr, "", log.LstdFlags),
		now:     time.Now,
	}
}

// SetClock replaces the clock (for testing).
func (m *Manager) SetClock(now func() time.Time) {
	m.now = now
}

// SetConsole replaces the operator console logger (for testing).
func (m *Manager) SetConsole(console *log.Logger) {
	m.console = console
}

// Load performs the one-time full fetch of the owner's tasks, ordered by
// creation time ascending.
func (m *Manager) Load(ctx context.Context) error {
	tasks, err := m.store.Tasks(ctx)
	if err != nil {
		return err
	}
	m.tasks = tasks
	return nil
}

// Tasks returns a copy of the current task list.
func (m *Manager) Tasks() []model.Task {
	out := make([]model.Task, len(m.tasks))
	copy(out, m.tasks)
	return out
}

// Find returns the task with the given id.
func (m *Manager) Find(id string) (model.Task, bool) {
	for _, t := range m.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// Draft holds the user-supplied fields for a new task.
type Draft struct {
	Title       string
	Description string
	DueDate     string
	Status      model.Status
	Priority    model.Priority
}

// Create validates the draft, applies the new task locally with
// client-side timestamps, then persists it remotely. The client-side
// timestamps approximate the server ones resolved at commit; local state
// is not rolled back if the remote write fails.
func (m *Manager) Create(ctx context.Context, d Draft) (model.Task, error) {
	if strings.TrimSpace(d.Title) == "" {
		return model.Task{}, ErrTitleRequired
	}
	if d.DueDate == "" {
		return model.Task{}, ErrDueDateRequired
	}
	if d.Status == "" {
		d.Status = model.StatusTodo
	}
	if d.Priority == "" {
		d.Priority = model.PriorityMedium
	}

	now := m.now()
	t := model.Task{
		ID:          m.store.NewTaskID(),
		Owner:       m.owner,
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		Status:      d.Status,
		Priority:    d.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.tasks = append(m.tasks, t)

	if err := m.store.CreateTask(ctx, t); err != nil {
		m.console.Printf("error adding task: %v", err)
		return t, nil
	}
	m.log.Logf(ctx, "Created task %q", t.Title)
	return t, nil
}

// UpdateStatus moves a task to another column. No-op if the id is
// unknown.
func (m *Manager) UpdateStatus(ctx context.Context, id string, newStatus model.Status) {
	i := m.index(id)
	if i < 0 {
		return
	}
	previous := m.tasks[i].Status
	m.tasks[i].Status = newStatus
	m.tasks[i].UpdatedAt = m.now()

	m.persistAndLog(ctx, []model.Task{m.tasks[i]},
		"Changed status of task %q from %q to %q",
		m.tasks[i].Title, previous.Label(), newStatus.Label())
}

// Delete removes a task locally first, then issues the remote delete. A
// remote failure after local removal is not reconciled; the task reappears
// only on the next full fetch.
func (m *Manager) Delete(ctx context.Context, id string) {
	i := m.index(id)
	if i < 0 {
		return
	}
	title := m.tasks[i].Title
	m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)

	if err := m.store.DeleteTask(ctx, id); err != nil {
		m.console.Printf("error deleting task: %v", err)
		return
	}
	m.log.Logf(ctx, "Deleted task %q", title)
}

// AddSubtask appends a subtask numbered count+1 within its parent task.
// No-op if the title is empty or the task is unknown.
func (m *Manager) AddSubtask(ctx context.Context, taskID, title string) {
	if strings.TrimSpace(title) == "" {
		return
	}
	i := m.index(taskID)
	if i < 0 {
		return
	}

	now := m.now()
	sub := model.Subtask{
		ID:        len(m.tasks[i].Subtasks) + 1,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.tasks[i].Subtasks = append(m.tasks[i].Subtasks, sub)
	m.tasks[i].UpdatedAt = now

	subtasks := m.tasks[i].Subtasks
	err := m.store.MergeTask(ctx, taskID, store.TaskPatch{Subtasks: &subtasks})
	if err != nil {
		m.console.Printf("error adding subtask: %v", err)
		return
	}
	m.log.Logf(ctx, "Added subtask %q to task %q", sub.Title, m.tasks[i].Title)
}

// ToggleSubtask flips a subtask's completed flag, setting the completion
// timestamp when completing and clearing it when un-completing. No-op if
// either id is unknown.
func (m *Manager) ToggleSubtask(ctx context.Context, taskID string, subtaskID int) {
	i := m.index(taskID)
	if i < 0 {
		return
	}
	j := -1
	for k, s := range m.tasks[i].Subtasks {
		if s.ID == subtaskID {
			j = k
			break
		}
	}
	if j < 0 {
		return
	}

	now := m.now()
	sub := &m.tasks[i].Subtasks[j]
	sub.Completed = !sub.Completed
	sub.UpdatedAt = now
	if sub.Completed {
		done := now
		sub.CompletedAt = &done
	} else {
		sub.CompletedAt = nil
	}
	m.tasks[i].UpdatedAt = now

	subtasks := m.tasks[i].Subtasks
	err := m.store.MergeTask(ctx, taskID, store.TaskPatch{Subtasks: &subtasks})
	if err != nil {
		m.console.Printf("error toggling subtask: %v", err)
		return
	}
	wording := "Marked as incomplete"
	if sub.Completed {
		wording = "Completed"
	}
	m.log.Logf(ctx, "%s subtask %q in task %q", wording, sub.Title, m.tasks[i].Title)
}

// SetNotified records that the due-soon notification fired for a task.
// The flag is one-shot: the monitor never clears it.
func (m *Manager) SetNotified(ctx context.Context, id string, notified bool) {
	i := m.index(id)
	if i < 0 {
		return
	}
	m.tasks[i].Notified = notified
	m.tasks[i].UpdatedAt = m.now()

	err := m.store.MergeTask(ctx, id, store.TaskPatch{Notified: &notified})
	if err != nil {
		m.console.Printf("error updating notified flag: %v", err)
	}
}

// SetOverdueNotified records that the overdue notification fired for a
// task.
func (m *Manager) SetOverdueNotified(ctx context.Context, id string, notified bool) {
	i := m.index(id)
	if i < 0 {
		return
	}
	m.tasks[i].OverdueNotified = notified
	m.tasks[i].UpdatedAt = m.now()

	err := m.store.MergeTask(ctx, id, store.TaskPatch{OverdueNotified: &notified})
	if err != nil {
		m.console.Printf("error updating overdueNotified flag: %v", err)
	}
}

// persistAndLog merge-writes the given tasks in one atomic commit, then
// appends a single activity entry. The entry is skipped when the commit
// fails; local state is kept either way.
func (m *Manager) persistAndLog(ctx context.Context, tasks []model.Task, format string, args ...any) {
	if err := m.store.BatchMergeTasks(ctx, tasks); err != nil {
		m.console.Printf("error updating tasks: %v", err)
		return
	}
	m.log.Logf(ctx, format, args...)
}

func (m *Manager) index(id string) int {
	for i, t := range m.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
