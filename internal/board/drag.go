package board

import (
	"context"

	"taskboard/internal/model"
)

// Location identifies a position on the board: a column and a 0-based
// index within that column's visible contents.
type Location struct {
	Column model.Status
	Index  int
}

// DragResult describes a completed drag gesture. Dest is nil when the
// gesture was cancelled.
type DragResult struct {
	TaskID string
	Source Location
	Dest   *Location
}

// Column returns the tasks of one column, in list order.
func Column(tasks []model.Task, status model.Status) []model.Task {
	var out []model.Task
	for _, t := range tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// Columns partitions tasks into the three fixed board columns.
func Columns(tasks []model.Task) map[model.Status][]model.Task {
	cols := make(map[model.Status][]model.Task, len(model.ColumnOrder))
	for _, status := range model.ColumnOrder {
		cols[status] = Column(tasks, status)
	}
	return cols
}

// ApplyDrag consumes a drag gesture over the given visible (possibly
// filtered) task list.
//
// A cancelled gesture changes nothing. Moving across columns changes only
// the moved task's status; the destination index is not honored, the task
// lands wherever the column re-render places it. Moving within a column
// reorders that column's visible tasks and writes the new order back in
// one batch; tasks in other columns keep their prior relative order.
func (m *Manager) ApplyDrag(ctx context.Context, visible []model.Task, d DragResult) {
	if d.Dest == nil {
		return
	}

	if d.Source.Column != d.Dest.Column {
		i := m.index(d.TaskID)
		if i < 0 {
			return
		}
		previous := m.tasks[i].Status
		m.tasks[i].Status = d.Dest.Column
		m.tasks[i].UpdatedAt = m.now()

		m.persistAndLog(ctx, []model.Task{m.tasks[i]},
			"Moved task %q from %q to %q column",
			m.tasks[i].Title, previous.Label(), d.Dest.Column.Label())
		return
	}

	column := Column(visible, d.Source.Column)
	if d.Source.Index < 0 || d.Source.Index >= len(column) {
		return
	}
	// An inconsistent gesture must not reorder some other card.
	if column[d.Source.Index].ID != d.TaskID {
		return
	}
	destIndex := d.Dest.Index
	if destIndex < 0 {
		destIndex = 0
	}
	if destIndex >= len(column) {
		destIndex = len(column) - 1
	}

	moved := column[d.Source.Index]
	column = append(column[:d.Source.Index], column[d.Source.Index+1:]...)
	column = append(column[:destIndex], append([]model.Task{moved}, column[destIndex:]...)...)

	// Rebuild the list: other columns keep their prior relative order,
	// then the reordered column. Tasks of this column hidden by an active
	// filter are kept, trailing in their prior order.
	reordered := make(map[string]bool, len(column))
	for _, t := range column {
		reordered[t.ID] = true
	}
	var rebuilt []model.Task
	var hidden []model.Task
	for _, t := range m.tasks {
		switch {
		case t.Status != d.Source.Column:
			rebuilt = append(rebuilt, t)
		case !reordered[t.ID]:
			hidden = append(hidden, t)
		}
	}
	rebuilt = append(rebuilt, column...)
	rebuilt = append(rebuilt, hidden...)
	m.tasks = rebuilt

	m.persistAndLog(ctx, column, "Reordered tasks in %q column", d.Source.Column.Label())
}
