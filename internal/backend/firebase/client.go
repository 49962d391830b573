// Package firebase implements the store gateway against Cloud Firestore
// and the identity provider against the Firebase auth endpoints.
package firebase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"golang.org/x/oauth2"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"taskboard/internal/model"
	"taskboard/internal/store"
)

const (
	// Collection names in the backing Firestore project.
	tasksCollection = "tasks"
	logsCollection  = "activityLogs"
	usersCollection = "users"

	// apiTimeout bounds every remote call.
	apiTimeout = 10 * time.Second
)

// Store implements store.Store on a Firestore project, scoped to one
// authenticated owner.
type Store struct {
	client *firestore.Client
	uid    string
}

// NewStore opens a Firestore client authenticated with the user's ID
// token. All queries are scoped to the given uid.
func NewStore(ctx context.Context, projectID, uid string, ts oauth2.TokenSource) (*Store, error) {
	client, err := firestore.NewClient(ctx, projectID, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return &Store{client: client, uid: uid}, nil
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Tasks implements store.Store. Combining the owner filter with a
// server-side OrderBy needs a composite index, so results are sorted
// client-side by creation time ascending.
func (s *Store) Tasks(ctx context.Context) ([]model.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	iter := s.client.Collection(tasksCollection).
		Where("userId", "==", s.uid).
		Documents(ctx)
	defer iter.Stop()

	var tasks []model.Task
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, wrapError(err)
		}
		var t model.Task
		if err := doc.DataTo(&t); err != nil {
			return nil, fmt.Errorf("invalid task document %s: %w", doc.Ref.ID, err)
		}
		t.ID = doc.Ref.ID
		tasks = append(tasks, t)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks, nil
}

// NewTaskID implements store.Store. Firestore document ids are generated
// client-side without a round trip.
func (s *Store) NewTaskID() string {
	return s.client.Collection(tasksCollection).NewDoc().ID
}

// CreateTask implements store.Store.
func (s *Store) CreateTask(ctx context.Context, t model.Task) error {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	doc := taskDoc(t)
	doc["createdAt"] = firestore.ServerTimestamp
	doc["updatedAt"] = firestore.ServerTimestamp

	_, err := s.client.Collection(tasksCollection).Doc(t.ID).Set(ctx, doc)
	return wrapError(err)
}

// MergeTask implements store.Store.
func (s *Store) MergeTask(ctx context.Context, id string, p store.TaskPatch) error {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	doc := map[string]any{"updatedAt": firestore.ServerTimestamp}
	if p.Status != nil {
		doc["status"] = string(*p.Status)
	}
	if p.Subtasks != nil {
		doc["subtasks"] = subtaskDocs(*p.Subtasks)
	}
	if p.Notified != nil {
		doc["notified"] = *p.Notified
	}
	if p.OverdueNotified != nil {
		doc["overdueNotified"] = *p.OverdueNotified
	}

	_, err := s.client.Collection(tasksCollection).Doc(id).Set(ctx, doc, firestore.MergeAll)
	return wrapError(err)
}

// BatchMergeTasks implements store.Store. BulkWriter cannot give the
// atomic multi-document commit the reorder path needs, so this stays on
// WriteBatch.
func (s *Store) BatchMergeTasks(ctx context.Context, tasks []model.Task) error {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	batch := s.client.Batch()
	for _, t := range tasks {
		doc := taskDoc(t)
		doc["createdAt"] = t.CreatedAt
		doc["updatedAt"] = firestore.ServerTimestamp
		batch.Set(s.client.Collection(tasksCollection).Doc(t.ID), doc, firestore.MergeAll)
	}
	_, err := batch.Commit(ctx)
	return wrapError(err)
}

// DeleteTask implements store.Store.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	_, err := s.client.Collection(tasksCollection).Doc(id).Delete(ctx)
	return wrapError(err)
}

// AppendLog implements store.Store.
func (s *Store) AppendLog(ctx context.Context, message string) error {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	_, _, err := s.client.Collection(logsCollection).Add(ctx, map[string]any{
		"userId":    s.uid,
		"message":   message,
		"timestamp": firestore.ServerTimestamp,
	})
	return wrapError(err)
}

// Logs implements store.Store.
func (s *Store) Logs(ctx context.Context) ([]model.ActivityEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	iter := s.logsQuery().Documents(ctx)
	defer iter.Stop()

	var entries []model.ActivityEntry
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, wrapError(err)
		}
		entries = append(entries, logEntry(doc))
	}
	return entries, nil
}

// WatchLogs implements store.Store. The subscription stays open until ctx
// is cancelled or Stop is called; no per-call timeout applies.
func (s *Store) WatchLogs(ctx context.Context) (store.LogWatcher, error) {
	return &logWatcher{it: s.logsQuery().Snapshots(ctx)}, nil
}

// EnsureProfile implements store.Store.
func (s *Store) EnsureProfile(ctx context.Context, email, displayName string) error {
	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	ref := s.client.Collection(usersCollection).Doc(s.uid)
	_, err := ref.Get(ctx)
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return wrapError(err)
	}

	_, err = ref.Set(ctx, map[string]any{
		"email":       email,
		"displayName": displayName,
		"createdAt":   firestore.ServerTimestamp,
	})
	return wrapError(err)
}

func (s *Store) logsQuery() firestore.Query {
	return s.client.Collection(logsCollection).
		Where("userId", "==", s.uid).
		OrderBy("timestamp", firestore.Desc)
}

type logWatcher struct {
	it *firestore.QuerySnapshotIterator
}

func (w *logWatcher) Next() ([]model.ActivityEntry, error) {
	snap, err := w.it.Next()
	if err != nil {
		return nil, wrapError(err)
	}

	var entries []model.ActivityEntry
	docs := snap.Documents
	for {
		doc, err := docs.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, wrapError(err)
		}
		entries = append(entries, logEntry(doc))
	}
	return entries, nil
}

func (w *logWatcher) Stop() {
	w.it.Stop()
}

// taskDoc builds the document fields shared by create and merge writes.
// Timestamps are added by the caller.
func taskDoc(t model.Task) map[string]any {
	return map[string]any{
		"userId":          t.Owner,
		"title":           t.Title,
		"description":     t.Description,
		"dueDate":         t.DueDate,
		"status":          string(t.Status),
		"priority":        string(t.Priority),
		"notified":        t.Notified,
		"overdueNotified": t.OverdueNotified,
		"subtasks":        subtaskDocs(t.Subtasks),
	}
}

// subtaskDocs keeps subtasks as an embedded array with client-side
// timestamps, matching the stored document schema.
func subtaskDocs(subtasks []model.Subtask) []map[string]any {
	out := make([]map[string]any, 0, len(subtasks))
	for _, sub := range subtasks {
		doc := map[string]any{
			"id":          sub.ID,
			"title":       sub.Title,
			"completed":   sub.Completed,
			"createdAt":   sub.CreatedAt,
			"updatedAt":   sub.UpdatedAt,
			"completedAt": nil,
		}
		if sub.CompletedAt != nil {
			doc["completedAt"] = *sub.CompletedAt
		}
		out = append(out, doc)
	}
	return out
}

func logEntry(doc *firestore.DocumentSnapshot) model.ActivityEntry {
	var e model.ActivityEntry
	// Entries with an unresolved server timestamp decode with a zero
	// Timestamp; keep what decodes.
	_ = doc.DataTo(&e)
	e.ID = doc.Ref.ID
	return e
}

// wrapError maps backend errors to user-facing messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.DeadlineExceeded:
		return fmt.Errorf("request timed out")
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("session expired or revoked (run: taskboard login)")
	case codes.NotFound:
		return store.ErrNotFound
	}
	return err
}
