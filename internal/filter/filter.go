// Package filter derives a view over the task list. It never mutates
// state.
package filter

import (
	"strings"

	"taskboard/internal/model"
)

// Criteria are the three filter inputs. All are ANDed; a zero-value
// criterion matches everything.
type Criteria struct {
	Search   string
	Status   model.Status
	Priority model.Priority
}

// Apply returns the tasks matching all criteria, preserving order. With
// empty criteria the input is returned unchanged in order.
func Apply(tasks []model.Task, c Criteria) []model.Task {
	search := strings.ToLower(c.Search)
	var out []model.Task
	for _, t := range tasks {
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		if c.Status != "" && t.Status != c.Status {
			continue
		}
		if c.Priority != "" && t.Priority != c.Priority {
			continue
		}
		out = append(out, t)
	}
	return out
}
