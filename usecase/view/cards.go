package view

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/fastygo/taskwise/domain"
)

// Card is one row of the task list.
type Card struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Duration    string          `json:"duration"`
	Deadline    string          `json:"deadline"`
	Priority    domain.Priority `json:"priority"`
	Category    string          `json:"category,omitempty"`
	IsCompleted bool            `json:"is_completed"`
}

func NewCard(t domain.Task, now time.Time) Card {
	return Card{
		ID:          t.ID,
		Name:        t.Name,
		Duration:    FormatDuration(t.DurationMinutes),
		Deadline:    FormatDeadline(t.Deadline, now),
		Priority:    t.Priority.Normalize(),
		Category:    t.Category,
		IsCompleted: t.IsCompleted,
	}
}

func Cards(tasks []domain.Task, now time.Time) []Card {
	out := make([]Card, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewCard(t, now))
	}
	return out
}

// Focus is the highlighted current task.
type Focus struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Duration string `json:"duration"`
	Deadline string `json:"deadline"`
	Priority string `json:"priority"`
}

// FocusOf returns the focus projection, or nil when every task is done.
func FocusOf(tasks []domain.Task, now time.Time) *Focus {
	t, ok := FocusTask(tasks)
	if !ok {
		return nil
	}
	return &Focus{
		ID:       t.ID,
		Name:     t.Name,
		Duration: FormatDuration(t.DurationMinutes),
		Deadline: FormatDeadline(t.Deadline, now),
		Priority: t.Priority.Title(),
	}
}

// Detail is the single-task view.
type Detail struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Deadline    string `json:"deadline"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
	IsCompleted bool   `json:"is_completed"`
	ToggleLabel string `json:"toggle_label"`
}

func DetailOf(t domain.Task, loc *time.Location) Detail {
	d := Detail{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Duration:    FormatDuration(t.DurationMinutes),
		Deadline:    FormatLongDate(t.Deadline, loc),
		Priority:    t.Priority.Title(),
		Category:    "None",
		IsCompleted: t.IsCompleted,
		ToggleLabel: "Mark Complete",
	}
	if strings.TrimSpace(d.Description) == "" {
		d.Description = "No description provided."
	}
	if c := strings.TrimSpace(t.Category); c != "" {
		r, size := utf8.DecodeRuneInString(c)
		d.Category = string(unicode.ToUpper(r)) + c[size:]
	}
	if t.IsCompleted {
		d.ToggleLabel = "Mark Incomplete"
	}
	return d
}

// Stats summarizes a collection for the profile page.
type Stats struct {
	Completed  int    `json:"completed"`
	Active     int    `json:"active"`
	Rate       string `json:"rate"`
	DaysActive int    `json:"days_active"`
}

// StatsOf counts tasks and the whole days since createdAt, at least one.
func StatsOf(tasks []domain.Task, createdAt, now time.Time) Stats {
	completed := len(CompletedTasks(tasks))
	s := Stats{
		Completed: completed,
		Active:    len(tasks) - completed,
		Rate:      Placeholder,
	}
	if len(tasks) > 0 {
		rate := math.Round(float64(completed) / float64(len(tasks)) * 100)
		s.Rate = strconv.Itoa(int(rate)) + "%"
	}
	if createdAt.IsZero() {
		createdAt = now
	}
	s.DaysActive = int(math.Ceil(now.Sub(createdAt).Hours() / 24))
	if s.DaysActive < 1 {
		s.DaysActive = 1
	}
	return s
}
