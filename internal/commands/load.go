package commands

import (
	"context"

	"taskboard/internal/activity"
	"taskboard/internal/backend/firebase"
	"taskboard/internal/board"
	"taskboard/internal/store"
)

// loadBoard builds the activity logger and task manager for a session and
// performs the initial full fetch.
func loadBoard(ctx context.Context, sess *firebase.Session, st store.Store) (*board.Manager, *activity.Logger, error) {
	al := activity.NewLogger(st)
	mgr := board.NewManager(st, al, sess.UID)
	if err := mgr.Load(ctx); err != nil {
		return nil, nil, err
	}
	return mgr, al, nil
}
