// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskboard/internal/model"
)

const (
	// ColumnSeparator is the separator line for board column sections.
	ColumnSeparator = "------------"
)

// ColumnLetters maps each board column to its single-letter reference
// prefix.
var ColumnLetters = map[model.Status]rune{
	model.StatusTodo:       't',
	model.StatusInProgress: 'p',
	model.StatusCompleted:  'c',
}

// FormatColumnHeader formats a board column header with its letter.
func FormatColumnHeader(w io.Writer, status model.Status) {
	fmt.Fprintln(w, ColumnSeparator)
	fmt.Fprintf(w, "%s (%c)\n", strings.ToUpper(string(status)), ColumnLetters[status])
	fmt.Fprintln(w, ColumnSeparator)
}

// FormatTask formats one board card line.
// Format: "{LETTER}{N:<3} [{PRIORITY}] {TITLE}  due {DATE}" with a
// trailing subtask tally when the task has subtasks.
func FormatTask(w io.Writer, num int, t model.Task) {
	letter := ColumnLetters[t.Status]
	line := fmt.Sprintf("%c%-3d [%s] %s  due %s", letter, num, priorityTag(t.Priority), normalizeTitle(t.Title), t.DueDate)
	if n := len(t.Subtasks); n > 0 {
		done := 0
		for _, sub := range t.Subtasks {
			if sub.Completed {
				done++
			}
		}
		line += fmt.Sprintf("  (%d/%d)", done, n)
	}
	fmt.Fprintln(w, line)
}

// FormatTaskDetail formats the full card: description, flags and the
// subtask checklist.
func FormatTaskDetail(w io.Writer, t model.Task) {
	fmt.Fprintf(w, "%s\n", normalizeTitle(t.Title))
	fmt.Fprintf(w, "  status:   %s\n", t.Status.Label())
	fmt.Fprintf(w, "  priority: %s\n", t.Priority)
	fmt.Fprintf(w, "  due:      %s\n", t.DueDate)
	if strings.TrimSpace(t.Description) != "" {
		fmt.Fprintf(w, "  notes:    %s\n", normalizeTitle(t.Description))
	}
	if len(t.Subtasks) > 0 {
		fmt.Fprintln(w, "  subtasks:")
		for _, sub := range t.Subtasks {
			FormatSubtask(w, sub)
		}
	}
}

// FormatSubtask formats one checklist line.
// Format: "    {N:>2}. [x] {TITLE}"
func FormatSubtask(w io.Writer, sub model.Subtask) {
	mark := " "
	if sub.Completed {
		mark = "x"
	}
	fmt.Fprintf(w, "    %2d. [%s] %s\n", sub.ID, mark, normalizeTitle(sub.Title))
}

// FormatLogEntry formats one activity log line.
func FormatLogEntry(w io.Writer, e model.ActivityEntry) {
	stamp := "-"
	if !e.Timestamp.IsZero() {
		stamp = e.Timestamp.Local().Format("2006-01-02 15:04")
	}
	fmt.Fprintf(w, "%s  %s\n", stamp, e.Message)
}

// priorityTag returns the fixed-width priority label.
func priorityTag(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "High"
	case model.PriorityMedium:
		return "Med "
	case model.PriorityLow:
		return "Low "
	default:
		return "?   "
	}
}

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
