// Package view derives read-only projections from a task collection.
// Every function is pure: the result depends only on the arguments.
package view

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fastygo/taskwise/domain"
)

// Placeholder is shown wherever a value is absent or unreadable.
const Placeholder = "—"

// Filter selects a date window over the collection.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterToday    Filter = "today"
	FilterThisWeek Filter = "week"
)

// ParseFilter accepts the filter names used by clients, defaulting to all.
func ParseFilter(s string) Filter {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today", "filtertoday":
		return FilterToday
	case "week", "thisweek", "this_week", "filterweek":
		return FilterThisWeek
	default:
		return FilterAll
	}
}

// ActiveTasks keeps tasks that are not completed, in collection order.
func ActiveTasks(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.IsCompleted {
			out = append(out, t)
		}
	}
	return out
}

// CompletedTasks keeps completed tasks, in collection order.
func CompletedTasks(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsCompleted {
			out = append(out, t)
		}
	}
	return out
}

// FocusTask returns the first active task in collection order.
func FocusTask(tasks []domain.Task) (domain.Task, bool) {
	for _, t := range tasks {
		if !t.IsCompleted {
			return t, true
		}
	}
	return domain.Task{}, false
}

// FilterByDate applies filter relative to now. Calendar days are taken in
// now's location. Tasks without a readable deadline only pass FilterAll.
//
// FilterThisWeek keeps deadlines whose midnight lies in [now, now+7 days], so a
// task due today drops out once that midnight has passed.
func FilterByDate(tasks []domain.Task, filter Filter, now time.Time) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	if filter != FilterToday && filter != FilterThisWeek {
		return append(out, tasks...)
	}

	today := startOfDay(now)
	weekEnd := now.AddDate(0, 0, 7)
	for _, t := range tasks {
		deadline, ok := t.DeadlineIn(now.Location())
		if !ok {
			continue
		}
		switch filter {
		case FilterToday:
			if deadline.Equal(today) {
				out = append(out, t)
			}
		case FilterThisWeek:
			if !deadline.Before(now) && !deadline.After(weekEnd) {
				out = append(out, t)
			}
		}
	}
	return out
}

// FormatDuration renders minutes the way task cards show them.
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	h, m := minutes/60, minutes%60
	if m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if h == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", h)
}

// FormatDeadline describes a deadline relative to now: Overdue, Today,
// Tomorrow, "N days" up to a week, then a short month/day date.
func FormatDeadline(deadline string, now time.Time) string {
	d, ok := domain.ParseDate(deadline, now.Location())
	if !ok {
		return Placeholder
	}
	diffDays := int(math.Ceil(d.Sub(now).Hours() / 24))
	switch {
	case diffDays < 0:
		return "Overdue"
	case diffDays == 0:
		return "Today"
	case diffDays == 1:
		return "Tomorrow"
	case diffDays <= 7:
		return fmt.Sprintf("%d days", diffDays)
	default:
		return d.Format("Jan 2")
	}
}

// FormatLongDate renders a deadline as "January 2, 2006", or Placeholder.
func FormatLongDate(deadline string, loc *time.Location) string {
	d, ok := domain.ParseDate(deadline, loc)
	if !ok {
		return Placeholder
	}
	return d.Format("January 2, 2006")
}

// Greeting picks the salutation for the hour of now.
func Greeting(now time.Time) string {
	switch h := now.Hour(); {
	case h < 12:
		return "Good morning"
	case h < 17:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
