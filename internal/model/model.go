// Package model defines the task, subtask and activity log types shared
// across the application.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is a board column. The set is closed: every task is in exactly
// one of the three columns.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// ColumnOrder is the fixed left-to-right column order of the board.
var ColumnOrder = []Status{StatusTodo, StatusInProgress, StatusCompleted}

// ParseStatus parses a status value case-insensitively.
// Accepts the stored form ("in-progress") and a few spellings users type
// ("inprogress", "done").
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "todo", "to-do":
		return StatusTodo, nil
	case "in-progress", "inprogress", "progress":
		return StatusInProgress, nil
	case "completed", "complete", "done":
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("invalid status: %s", s)
}

// Valid reports whether s is one of the three known columns.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Label returns the display form used in activity log messages and column
// headers: the stored value with its first letter upper-cased.
func (s Status) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Priority is a task priority. Stored values are canonically capitalized.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// ParsePriority parses a priority case-insensitively, returning the
// canonical capitalized form. Normalizing here keeps lowercase spellings
// from one call site and capitalized ones from another from diverging in
// the store.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return PriorityHigh, nil
	case "medium", "med":
		return PriorityMedium, nil
	case "low":
		return PriorityLow, nil
	}
	return "", fmt.Errorf("invalid priority: %s", s)
}

// Valid reports whether p is one of the three known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// DueDateLayout is the calendar-date form due dates are stored in.
const DueDateLayout = "2006-01-02"

// Subtask is an item in a task's checklist. Subtasks are embedded in their
// parent task document and numbered locally to it, starting at 1.
type Subtask struct {
	ID          int        `firestore:"id"`
	Title       string     `firestore:"title"`
	Completed   bool       `firestore:"completed"`
	CreatedAt   time.Time  `firestore:"createdAt"`
	UpdatedAt   time.Time  `firestore:"updatedAt"`
	CompletedAt *time.Time `firestore:"completedAt"`
}

// Task is a single card on the board. The document ID is assigned by the
// store and never changes; Owner is the authenticated user that created
// the task and is immutable.
type Task struct {
	ID              string    `firestore:"-"`
	Owner           string    `firestore:"userId"`
	Title           string    `firestore:"title"`
	Description     string    `firestore:"description"`
	DueDate         string    `firestore:"dueDate"`
	Status          Status    `firestore:"status"`
	Priority        Priority  `firestore:"priority"`
	Notified        bool      `firestore:"notified"`
	OverdueNotified bool      `firestore:"overdueNotified"`
	CreatedAt       time.Time `firestore:"createdAt"`
	UpdatedAt       time.Time `firestore:"updatedAt"`
	Subtasks        []Subtask `firestore:"subtasks"`
}

// Due parses the task's calendar due date. The date marks midnight UTC of
// that day, which is how the stored form has always been interpreted.
func (t Task) Due() (time.Time, error) {
	return time.Parse(DueDateLayout, t.DueDate)
}

// ActivityEntry is one line of the append-only audit log. Entries are
// never mutated or deleted by the client.
type ActivityEntry struct {
	ID        string    `firestore:"-"`
	Owner     string    `firestore:"userId"`
	Message   string    `firestore:"message"`
	Timestamp time.Time `firestore:"timestamp"`
}
