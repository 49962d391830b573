// Package monitor sweeps the task list for soon-due and overdue tasks and
// raises one-shot local notifications for them.
package monitor

import (
	"context"
	"fmt"
	"time"

	"taskboard/internal/activity"
	"taskboard/internal/board"
)

const (
	// DueSoonWindow is how far ahead of the due date the due-soon
	// notification fires.
	DueSoonWindow = 24 * time.Hour

	// DefaultInterval is how often the sweep re-runs.
	DefaultInterval = time.Hour
)

// Notifier delivers a notification to the local notification surface.
// Delivery is best-effort; a failed or denied notification is ignored.
type Notifier interface {
	Notify(title, body string) error
}

// Monitor runs the periodic due-date sweep.
type Monitor struct {
	mgr      *board.Manager
	log      *activity.Logger
	notifier Notifier
	Interval time.Duration
	now      func() time.Time
}

// New creates a Monitor over the given manager.
func New(mgr *board.Manager, al *activity.Logger, notifier Notifier) *Monitor {
	return &Monitor{
		mgr:      mgr,
		log:      al,
		notifier: notifier,
		Interval: DefaultInterval,
		now:      time.Now,
	}
}

// SetClock replaces the clock (for testing).
func (m *Monitor) SetClock(now func() time.Time) {
	m.now = now
}

// Run sweeps once immediately, then on every tick until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	m.Sweep(ctx)

	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}

// Sweep checks every task's due date against now. A task due within
// DueSoonWindow gets one due-soon notification; an overdue task gets one
// overdue notification. Each flag, once set, suppresses that notification
// kind for the task permanently, so a failed delivery cannot cause repeat
// log spam.
func (m *Monitor) Sweep(ctx context.Context) {
	now := m.now()
	for _, t := range m.mgr.Tasks() {
		due, err := t.Due()
		if err != nil {
			continue
		}
		remaining := due.Sub(now)

		if remaining > 0 && remaining < DueSoonWindow && !t.Notified {
			_ = m.notifier.Notify("Task Due Soon",
				fmt.Sprintf("%s is due on %s", t.Title, due.Format("2006-01-02")))
			m.mgr.SetNotified(ctx, t.ID, true)
			m.log.Logf(ctx, "Notified about task %q due soon", t.Title)
		}

		if remaining < 0 && !t.OverdueNotified {
			_ = m.notifier.Notify("Task Overdue",
				fmt.Sprintf("%s was due on %s", t.Title, due.Format("2006-01-02")))
			m.mgr.SetOverdueNotified(ctx, t.ID, true)
			m.log.Logf(ctx, "Notified about overdue task %q", t.Title)
		}
	}
}
