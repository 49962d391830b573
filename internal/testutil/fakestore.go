// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/store"
)

// FakeStore is an in-memory implementation of store.Store for testing.
// Server-assigned timestamps come from the Now field.
type FakeStore struct {
	mu       sync.Mutex
	nextID   int
	docs     map[string]model.Task
	order    []string
	logs     []model.ActivityEntry
	watchers []*fakeLogWatcher

	// Now supplies server-assigned timestamps.
	Now func() time.Time

	// Error injection for testing
	TasksErr       error
	CreateTaskErr  error
	MergeTaskErr   error
	BatchMergeErr  error
	DeleteTaskErr  error
	AppendLogErr   error
	LogsErr        error
	WatchLogsErr   error
	EnsureProfErr  error
	ProfileCreated bool
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		docs: make(map[string]model.Task),
		Now:  time.Now,
	}
}

// SeedTask inserts a task directly, bypassing error injection.
func (f *FakeStore) SeedTask(t model.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[t.ID]; !ok {
		f.order = append(f.order, t.ID)
	}
	f.docs[t.ID] = t
}

// Task returns a stored task by id.
func (f *FakeStore) Task(id string) (model.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.docs[id]
	return t, ok
}

// LogMessages returns the appended activity messages, oldest-first.
func (f *FakeStore) LogMessages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.logs))
	for i := len(f.logs) - 1; i >= 0; i-- {
		out = append(out, f.logs[i].Message)
	}
	return out
}

// Tasks implements store.Store.
func (f *FakeStore) Tasks(ctx context.Context) ([]model.Task, error) {
	if f.TasksErr != nil {
		return nil, f.TasksErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Task, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.docs[id])
	}
	return out, nil
}

// NewTaskID implements store.Store.
func (f *FakeStore) NewTaskID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	return fmt.Sprintf("task-%d", f.nextID)
}

// CreateTask implements store.Store.
func (f *FakeStore) CreateTask(ctx context.Context, t model.Task) error {
	if f.CreateTaskErr != nil {
		return f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, ok := f.docs[t.ID]; !ok {
		f.order = append(f.order, t.ID)
	}
	f.docs[t.ID] = t
	return nil
}

// MergeTask implements store.Store.
func (f *FakeStore) MergeTask(ctx context.Context, id string, p store.TaskPatch) error {
	if f.MergeTaskErr != nil {
		return f.MergeTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.docs[id]
	if !ok {
		return store.ErrNotFound
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Subtasks != nil {
		t.Subtasks = append([]model.Subtask(nil), (*p.Subtasks)...)
	}
	if p.Notified != nil {
		t.Notified = *p.Notified
	}
	if p.OverdueNotified != nil {
		t.OverdueNotified = *p.OverdueNotified
	}
	t.UpdatedAt = f.Now()
	f.docs[id] = t
	return nil
}

// BatchMergeTasks implements store.Store. All writes land or none do.
func (f *FakeStore) BatchMergeTasks(ctx context.Context, tasks []model.Task) error {
	if f.BatchMergeErr != nil {
		return f.BatchMergeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.Now()
	for _, t := range tasks {
		if _, ok := f.docs[t.ID]; !ok {
			f.order = append(f.order, t.ID)
		}
		t.UpdatedAt = now
		f.docs[t.ID] = t
	}
	return nil
}

// DeleteTask implements store.Store.
func (f *FakeStore) DeleteTask(ctx context.Context, id string) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.docs, id)
	for i, oid := range f.order {
		if oid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

// AppendLog implements store.Store. Entries are kept newest-first, and
// every open watcher receives the new snapshot.
func (f *FakeStore) AppendLog(ctx context.Context, message string) error {
	if f.AppendLogErr != nil {
		return f.AppendLogErr
	}
	f.mu.Lock()
	entry := model.ActivityEntry{
		ID:        fmt.Sprintf("log-%d", len(f.logs)+1),
		Message:   message,
		Timestamp: f.Now(),
	}
	f.logs = append([]model.ActivityEntry{entry}, f.logs...)
	snapshot := append([]model.ActivityEntry(nil), f.logs...)
	watchers := append([]*fakeLogWatcher(nil), f.watchers...)
	f.mu.Unlock()

	for _, w := range watchers {
		w.push(snapshot)
	}
	return nil
}

// Logs implements store.Store.
func (f *FakeStore) Logs(ctx context.Context) ([]model.ActivityEntry, error) {
	if f.LogsErr != nil {
		return nil, f.LogsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.ActivityEntry(nil), f.logs...), nil
}

// WatchLogs implements store.Store.
func (f *FakeStore) WatchLogs(ctx context.Context) (store.LogWatcher, error) {
	if f.WatchLogsErr != nil {
		return nil, f.WatchLogsErr
	}
	f.mu.Lock()
	w := &fakeLogWatcher{
		ctx:     ctx,
		ch:      make(chan []model.ActivityEntry, 8),
		stopped: make(chan struct{}),
	}
	f.watchers = append(f.watchers, w)
	snapshot := append([]model.ActivityEntry(nil), f.logs...)
	f.mu.Unlock()

	// Initial snapshot, as a live query delivers on open.
	w.push(snapshot)
	return w, nil
}

// EnsureProfile implements store.Store.
func (f *FakeStore) EnsureProfile(ctx context.Context, email, displayName string) error {
	if f.EnsureProfErr != nil {
		return f.EnsureProfErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ProfileCreated = true
	return nil
}

type fakeLogWatcher struct {
	ctx      context.Context
	ch       chan []model.ActivityEntry
	stopOnce sync.Once
	stopped  chan struct{}
}

func (w *fakeLogWatcher) push(snapshot []model.ActivityEntry) {
	select {
	case w.ch <- snapshot:
	default:
	}
}

func (w *fakeLogWatcher) Next() ([]model.ActivityEntry, error) {
	select {
	case snap := <-w.ch:
		return snap, nil
	case <-w.stopped:
		return nil, context.Canceled
	case <-w.ctx.Done():
		return nil, w.ctx.Err()
	}
}

func (w *fakeLogWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopped) })
}
