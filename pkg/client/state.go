package client

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Filter narrows the displayed task set by completion state
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// SortKey is the client-side ordering criterion
type SortKey string

const (
	SortPriority SortKey = "priority"
	SortDate     SortKey = "date"
	SortCreated  SortKey = "created"
)

// App holds the client-side view state: the latest task snapshot from the
// server plus the chosen filter and sort key.
type App struct {
	api    *Client
	Tasks  []Task
	Filter Filter
	Sort   SortKey
}

// NewApp creates an App with the default filter and sort
func NewApp(api *Client) *App {
	return &App{api: api, Filter: FilterAll, Sort: SortPriority}
}

// Refresh reloads the full task list from the server. Every mutation goes
// through this rather than patching the snapshot locally, so the displayed
// state always reflects server truth after the round trip.
func (a *App) Refresh(ctx context.Context) error {
	tasks, err := a.api.ListTasks(ctx)
	if err != nil {
		return err
	}
	a.Tasks = tasks
	return nil
}

// Add creates a task and reloads
func (a *App) Add(ctx context.Context, text, priority, dueDate string) error {
	if _, err := a.api.CreateTask(ctx, text, priority, dueDate); err != nil {
		return err
	}
	return a.Refresh(ctx)
}

// Update applies a partial update and reloads
func (a *App) Update(ctx context.Context, id int64, patch TaskPatch) error {
	if _, err := a.api.UpdateTask(ctx, id, patch); err != nil {
		return err
	}
	return a.Refresh(ctx)
}

// SetCompleted toggles a task's completion state and reloads
func (a *App) SetCompleted(ctx context.Context, id int64, completed bool) error {
	return a.Update(ctx, id, TaskPatch{Completed: &completed})
}

// Remove deletes a task and reloads
func (a *App) Remove(ctx context.Context, id int64) error {
	if err := a.api.DeleteTask(ctx, id); err != nil {
		return err
	}
	return a.Refresh(ctx)
}

// Clear deletes every task and reloads. Callers are expected to confirm
// twice before invoking this; the blast radius is the whole list.
func (a *App) Clear(ctx context.Context) (int64, error) {
	deleted, err := a.api.DeleteAllTasks(ctx)
	if err != nil {
		return 0, err
	}
	return deleted, a.Refresh(ctx)
}

// Visible returns the snapshot with the current filter and sort applied
func (a *App) Visible() []Task {
	return SortTasks(FilterTasks(a.Tasks, a.Filter), a.Sort)
}

// FilterTasks applies a completion filter
func FilterTasks(tasks []Task, filter Filter) []Task {
	out := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		switch filter {
		case FilterActive:
			if task.Completed {
				continue
			}
		case FilterCompleted:
			if !task.Completed {
				continue
			}
		}
		out = append(out, task)
	}
	return out
}

// SortTasks orders tasks by the given key. The sort is stable, ties keep
// incoming order, and completed tasks always sink to the bottom regardless
// of the key.
func SortTasks(tasks []Task, key SortKey) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Completed != out[j].Completed {
			return !out[i].Completed
		}

		switch key {
		case SortDate:
			// Ascending due date, undated tasks after all dated ones.
			di, dj := out[i].DueDate, out[j].DueDate
			if di == nil || dj == nil {
				return di != nil && dj == nil
			}
			return *di < *dj
		case SortCreated:
			// Newest first, missing timestamps last.
			ci, cj := out[i].CreatedAt, out[j].CreatedAt
			if ci == nil || cj == nil {
				return ci != nil && cj == nil
			}
			return *ci > *cj
		default:
			return priorityWeight(out[i].Priority) > priorityWeight(out[j].Priority)
		}
	})

	return out
}

func priorityWeight(priority string) int {
	switch priority {
	case "high":
		return 3
	case "medium":
		return 2
	case "low":
		return 1
	}
	return 0
}

// DueBadge is the rendered classification of a due date
type DueBadge struct {
	Text    string
	Overdue bool
}

// FormatDueDate classifies a due date relative to local midnight "today".
// Nil means no badge at all.
func FormatDueDate(dueDate *string, now time.Time) *DueBadge {
	if dueDate == nil || *dueDate == "" {
		return nil
	}

	due, err := time.ParseInLocation("2006-01-02", *dueDate, now.Location())
	if err != nil {
		return nil
	}

	// Compare calendar dates only; UTC midnights keep the difference exact
	// across DST transitions.
	dy, dm, dd := due.Date()
	ny, nm, nd := now.Date()
	dueDay := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	days := int(dueDay.Sub(today).Hours() / 24)

	switch {
	case days < 0:
		return &DueBadge{Text: "Overdue", Overdue: true}
	case days == 0:
		return &DueBadge{Text: "Today"}
	case days == 1:
		return &DueBadge{Text: "Tomorrow"}
	case days <= 7:
		return &DueBadge{Text: fmt.Sprintf("In %d days", days)}
	default:
		return &DueBadge{Text: due.Format("Jan 2, 2006")}
	}
}
