package domain

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for task deadlines.
const DateLayout = "2006-01-02"

// Task represents a single entry in one identity's task list.
type Task struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	DurationMinutes int      `json:"duration"`
	Deadline        string   `json:"deadline,omitempty"`
	Priority        Priority `json:"priority"`
	Category        string   `json:"category,omitempty"`
	IsCompleted     bool     `json:"is_completed"`
}

func (t *Task) IsActive() bool {
	return t != nil && !t.IsCompleted
}

// DeadlineIn parses the deadline as midnight of its calendar day in loc.
// The second result is false when the deadline is absent or malformed.
func (t *Task) DeadlineIn(loc *time.Location) (time.Time, bool) {
	if t == nil {
		return time.Time{}, false
	}
	return ParseDate(t.Deadline, loc)
}

// ParseDate parses an ISO calendar date. Full RFC 3339 timestamps are accepted
// and truncated to their date part; anything else longer than a date is rejected.
func ParseDate(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	if len(value) > len(DateLayout) {
		ts, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return time.Time{}, false
		}
		value = ts.Format(DateLayout)
	}
	d, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Draft is the caller-supplied field set used to create a task.
type Draft struct {
	Name            string
	Description     string
	DurationMinutes int
	Deadline        string
	Priority        Priority
	Category        string
	// IsCompleted is ignored by creation; new tasks always start active.
	IsCompleted bool
}

// Patch describes a partial update. Nil fields keep their current value.
type Patch struct {
	Name            *string
	Description     *string
	DurationMinutes *int
	Deadline        *string
	Priority        *Priority
	Category        *string
	IsCompleted     *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil &&
		p.Description == nil &&
		p.DurationMinutes == nil &&
		p.Deadline == nil &&
		p.Priority == nil &&
		p.Category == nil &&
		p.IsCompleted == nil
}

// Apply merges the patch into t and returns the result.
func (p Patch) Apply(t Task) Task {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DurationMinutes != nil {
		t.DurationMinutes = *p.DurationMinutes
	}
	if p.Deadline != nil {
		t.Deadline = *p.Deadline
	}
	if p.Priority != nil {
		t.Priority = p.Priority.Normalize()
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.IsCompleted != nil {
		t.IsCompleted = *p.IsCompleted
	}
	return t
}
