package monitor_test

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"taskboard/internal/activity"
	"taskboard/internal/board"
	"taskboard/internal/model"
	"taskboard/internal/monitor"
	"taskboard/internal/testutil"
)

// fakeNotifier records notifications and optionally fails delivery.
type fakeNotifier struct {
	titles []string
	bodies []string
	err    error
}

func (n *fakeNotifier) Notify(title, body string) error {
	n.titles = append(n.titles, title)
	n.bodies = append(n.bodies, body)
	return n.err
}

var sweepTime = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

func newMonitor(t *testing.T, st *testutil.FakeStore, notifier monitor.Notifier) *monitor.Monitor {
	t.Helper()
	st.Now = func() time.Time { return sweepTime }
	al := activity.NewLogger(st)
	al.SetConsole(log.New(io.Discard, "", 0))
	mgr := board.NewManager(st, al, "user-1")
	mgr.SetClock(func() time.Time { return sweepTime })
	mgr.SetConsole(log.New(io.Discard, "", 0))
	if err := mgr.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	mon := monitor.New(mgr, al, notifier)
	mon.SetClock(func() time.Time { return sweepTime })
	return mon
}

func seedDue(st *testutil.FakeStore, id, title, due string) {
	st.SeedTask(model.Task{
		ID:       id,
		Owner:    "user-1",
		Title:    title,
		DueDate:  due,
		Status:   model.StatusTodo,
		Priority: model.PriorityMedium,
	})
}

func TestSweep_DueSoon(t *testing.T) {
	st := testutil.NewFakeStore()
	// Midnight of the next day is 12h away, inside the 24h window
	seedDue(st, "a", "Write spec", "2026-01-11")
	notifier := &fakeNotifier{}
	mon := newMonitor(t, st, notifier)

	mon.Sweep(context.Background())

	if len(notifier.titles) != 1 || notifier.titles[0] != "Task Due Soon" {
		t.Fatalf("expected one due-soon notification, got %v", notifier.titles)
	}
	if notifier.bodies[0] != "Write spec is due on 2026-01-11" {
		t.Errorf("unexpected body: %q", notifier.bodies[0])
	}
	stored, _ := st.Task("a")
	if !stored.Notified {
		t.Error("expected notified flag set")
	}
	msgs := st.LogMessages()
	if len(msgs) != 1 || msgs[0] != `Notified about task "Write spec" due soon` {
		t.Errorf("unexpected log messages: %v", msgs)
	}
}

func TestSweep_SecondSweepSilent(t *testing.T) {
	st := testutil.NewFakeStore()
	seedDue(st, "a", "Write spec", "2026-01-11")
	notifier := &fakeNotifier{}
	mon := newMonitor(t, st, notifier)

	mon.Sweep(context.Background())
	mon.Sweep(context.Background())

	if len(notifier.titles) != 1 {
		t.Errorf("expected one notification across sweeps, got %d", len(notifier.titles))
	}
	if msgs := st.LogMessages(); len(msgs) != 1 {
		t.Errorf("expected one log entry across sweeps, got %v", msgs)
	}
}

func TestSweep_Overdue(t *testing.T) {
	st := testutil.NewFakeStore()
	seedDue(st, "a", "Write spec", "2026-01-05")
	notifier := &fakeNotifier{}
	mon := newMonitor(t, st, notifier)

	mon.Sweep(context.Background())

	if len(notifier.titles) != 1 || notifier.titles[0] != "Task Overdue" {
		t.Fatalf("expected one overdue notification, got %v", notifier.titles)
	}
	if notifier.bodies[0] != "Write spec was due on 2026-01-05" {
		t.Errorf("unexpected body: %q", notifier.bodies[0])
	}
	stored, _ := st.Task("a")
	if !stored.OverdueNotified {
		t.Error("expected overdueNotified flag set")
	}
	msgs := st.LogMessages()
	if len(msgs) != 1 || msgs[0] != `Notified about overdue task "Write spec"` {
		t.Errorf("unexpected log messages: %v", msgs)
	}
}

func TestSweep_FarFutureQuiet(t *testing.T) {
	st := testutil.NewFakeStore()
	seedDue(st, "a", "Write spec", "2026-03-01")
	notifier := &fakeNotifier{}
	mon := newMonitor(t, st, notifier)

	mon.Sweep(context.Background())

	if len(notifier.titles) != 0 {
		t.Errorf("expected no notifications, got %v", notifier.titles)
	}
}

func TestSweep_NotifierFailureStillSetsFlag(t *testing.T) {
	st := testutil.NewFakeStore()
	seedDue(st, "a", "Write spec", "2026-01-11")
	notifier := &fakeNotifier{err: errors.New("notification surface unavailable")}
	mon := newMonitor(t, st, notifier)

	mon.Sweep(context.Background())
	mon.Sweep(context.Background())

	// Delivery failed but the flag is set, so no retry and no log spam
	if len(notifier.titles) != 1 {
		t.Errorf("expected one delivery attempt, got %d", len(notifier.titles))
	}
	stored, _ := st.Task("a")
	if !stored.Notified {
		t.Error("expected notified flag set despite delivery failure")
	}
}

func TestSweep_SkipsUnparseableDueDate(t *testing.T) {
	st := testutil.NewFakeStore()
	seedDue(st, "a", "Write spec", "soonish")
	seedDue(st, "b", "Review PR", "2026-01-05")
	notifier := &fakeNotifier{}
	mon := newMonitor(t, st, notifier)

	mon.Sweep(context.Background())

	if len(notifier.titles) != 1 {
		t.Fatalf("expected one notification, got %v", notifier.titles)
	}
	if notifier.bodies[0] != "Review PR was due on 2026-01-05" {
		t.Errorf("unexpected body: %q", notifier.bodies[0])
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	st := testutil.NewFakeStore()
	notifier := &fakeNotifier{}
	mon := newMonitor(t, st, notifier)
	mon.Interval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := mon.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
