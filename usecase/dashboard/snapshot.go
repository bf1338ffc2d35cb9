package dashboard

import (
	"time"

	"github.com/fastygo/taskwise/domain"
	"github.com/fastygo/taskwise/usecase/view"
)

// UIState is the transient selection state of one dashboard. It is never
// persisted.
type UIState struct {
	Filter          view.Filter `json:"filter"`
	ViewingID       string      `json:"viewing_id,omitempty"`
	EditingID       string      `json:"editing_id,omitempty"`
	MenuTaskID      string      `json:"menu_task_id,omitempty"`
	PendingDeleteID string      `json:"pending_delete_id,omitempty"`
}

// Menu is the open context menu of one task card.
type Menu struct {
	TaskID        string   `json:"task_id"`
	CompleteLabel string   `json:"complete_label"`
	Actions       []Action `json:"actions"`
}

// Snapshot is everything a renderer needs to draw the dashboard.
type Snapshot struct {
	Greeting       string       `json:"greeting"`
	Today          string       `json:"today"`
	Filter         view.Filter  `json:"filter"`
	Focus          *view.Focus  `json:"focus,omitempty"`
	Tasks          []view.Card  `json:"tasks"`
	Empty          bool         `json:"empty"`
	ActiveCount    int          `json:"active_count"`
	CompletedCount int          `json:"completed_count"`
	Viewing        *view.Detail `json:"viewing,omitempty"`
	Editing        *TaskForm    `json:"editing,omitempty"`
	EditingID      string       `json:"editing_id,omitempty"`
	Menu           *Menu        `json:"menu,omitempty"`
	PendingDelete  *view.Card   `json:"pending_delete,omitempty"`
}

var menuActions = []Action{ActionComplete, ActionView, ActionEdit, ActionPriority, ActionDelete}

// BuildSnapshot projects tasks and state at now. The list shows the active
// tasks that pass the date filter; the focus task ignores the filter.
// Selections pointing at tasks that no longer exist are left out.
func BuildSnapshot(tasks []domain.Task, state UIState, now time.Time) Snapshot {
	filter := state.Filter
	if filter == "" {
		filter = view.FilterAll
	}
	visible := view.ActiveTasks(view.FilterByDate(tasks, filter, now))
	active := len(view.ActiveTasks(tasks))

	snap := Snapshot{
		Greeting:       view.Greeting(now),
		Today:          now.Format("Monday, January 2"),
		Filter:         filter,
		Focus:          view.FocusOf(tasks, now),
		Tasks:          view.Cards(visible, now),
		Empty:          len(visible) == 0,
		ActiveCount:    active,
		CompletedCount: len(tasks) - active,
	}

	if t, ok := find(tasks, state.ViewingID); ok {
		d := view.DetailOf(t, now.Location())
		snap.Viewing = &d
	}
	if t, ok := find(tasks, state.EditingID); ok {
		f := FormFromTask(t)
		snap.Editing = &f
		snap.EditingID = t.ID
	}
	if t, ok := find(tasks, state.MenuTaskID); ok {
		label := "Mark Complete"
		if t.IsCompleted {
			label = "Mark Incomplete"
		}
		snap.Menu = &Menu{TaskID: t.ID, CompleteLabel: label, Actions: menuActions}
	}
	if t, ok := find(tasks, state.PendingDeleteID); ok {
		c := view.NewCard(t, now)
		snap.PendingDelete = &c
	}
	return snap
}

func find(tasks []domain.Task, id string) (domain.Task, bool) {
	if id == "" {
		return domain.Task{}, false
	}
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Task{}, false
}
