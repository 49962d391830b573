package model

import (
	"testing"
	"time"
)

func TestParseStatus_Canonical(t *testing.T) {
	for _, s := range []string{"todo", "in-progress", "completed"} {
		status, err := ParseStatus(s)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", s, err)
		}
		if string(status) != s {
			t.Errorf("expected %q, got %q", s, status)
		}
	}
}

func TestParseStatus_Spellings(t *testing.T) {
	cases := map[string]Status{
		"TODO":        StatusTodo,
		"to-do":       StatusTodo,
		"inprogress":  StatusInProgress,
		"progress":    StatusInProgress,
		"In-Progress": StatusInProgress,
		"done":        StatusCompleted,
		"complete":    StatusCompleted,
		" completed ": StatusCompleted,
	}
	for in, want := range cases {
		got, err := ParseStatus(in)
		if err != nil {
			t.Errorf("unexpected error for %q: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseStatus(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseStatus_Invalid(t *testing.T) {
	_, err := ParseStatus("blocked")
	if err == nil {
		t.Fatal("expected error for unknown status")
	}
	if err.Error() != "invalid status: blocked" {
		t.Errorf("unexpected error message: %q", err.Error())
	}
}

func TestStatusLabel(t *testing.T) {
	cases := map[Status]string{
		StatusTodo:       "Todo",
		StatusInProgress: "In-progress",
		StatusCompleted:  "Completed",
		Status(""):       "",
	}
	for in, want := range cases {
		if got := in.Label(); got != want {
			t.Errorf("Label(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParsePriority_Canonicalizes(t *testing.T) {
	cases := map[string]Priority{
		"high":   PriorityHigh,
		"High":   PriorityHigh,
		"HIGH":   PriorityHigh,
		"medium": PriorityMedium,
		"med":    PriorityMedium,
		"Low":    PriorityLow,
		" low ":  PriorityLow,
	}
	for in, want := range cases {
		got, err := ParsePriority(in)
		if err != nil {
			t.Errorf("unexpected error for %q: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParsePriority(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParsePriority_Invalid(t *testing.T) {
	_, err := ParsePriority("urgent")
	if err == nil {
		t.Fatal("expected error for unknown priority")
	}
	if err.Error() != "invalid priority: urgent" {
		t.Errorf("unexpected error message: %q", err.Error())
	}
}

func TestTaskDue(t *testing.T) {
	task := Task{DueDate: "2026-03-15"}
	due, err := task.Due()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !due.Equal(want) {
		t.Errorf("expected %v, got %v", want, due)
	}
}

func TestTaskDue_Invalid(t *testing.T) {
	task := Task{DueDate: "tomorrow"}
	if _, err := task.Due(); err == nil {
		t.Fatal("expected error for unparseable due date")
	}
}

func TestColumnOrder(t *testing.T) {
	want := []Status{StatusTodo, StatusInProgress, StatusCompleted}
	if len(ColumnOrder) != len(want) {
		t.Fatalf("expected %d columns, got %d", len(want), len(ColumnOrder))
	}
	for i, s := range want {
		if ColumnOrder[i] != s {
			t.Errorf("ColumnOrder[%d] = %q, want %q", i, ColumnOrder[i], s)
		}
	}
}
