package dashboard

import (
	"strings"

	"github.com/fastygo/taskwise/domain"
	"github.com/fastygo/taskwise/internal/validation"
)

// TaskForm is the user-entered field set for the new and edit task dialogs.
type TaskForm struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Duration    int    `json:"duration" validate:"gte=0"`
	Deadline    string `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Category    string `json:"category" validate:"max=50"`
	Completed   bool   `json:"is_completed"`
}

// FormFromTask prefills the edit dialog.
func FormFromTask(t domain.Task) TaskForm {
	return TaskForm{
		Name:        t.Name,
		Description: t.Description,
		Duration:    t.DurationMinutes,
		Deadline:    t.Deadline,
		Priority:    string(t.Priority.Normalize()),
		Category:    t.Category,
		Completed:   t.IsCompleted,
	}
}

// Normalize trims free text and lowercases the priority in place.
func (f *TaskForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.Deadline = strings.TrimSpace(f.Deadline)
	f.Priority = strings.ToLower(strings.TrimSpace(f.Priority))
	f.Category = strings.TrimSpace(f.Category)
}

// Validate normalizes the form and reports every failing field as a
// *domain.ValidationError.
func (f *TaskForm) Validate() error {
	f.Normalize()
	return validation.Struct(f)
}

func (f TaskForm) ToDraft() domain.Draft {
	return domain.Draft{
		Name:            f.Name,
		Description:     f.Description,
		DurationMinutes: f.Duration,
		Deadline:        f.Deadline,
		Priority:        domain.ParsePriority(f.Priority),
		Category:        f.Category,
	}
}

// ToPatch replaces every editable field, including completion.
func (f TaskForm) ToPatch() domain.Patch {
	priority := domain.ParsePriority(f.Priority)
	return domain.Patch{
		Name:            &f.Name,
		Description:     &f.Description,
		DurationMinutes: &f.Duration,
		Deadline:        &f.Deadline,
		Priority:        &priority,
		Category:        &f.Category,
		IsCompleted:     &f.Completed,
	}
}

// Changes is a partial edit. Nil fields keep the task's current value.
type Changes struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Duration    *int    `json:"duration"`
	Deadline    *string `json:"deadline"`
	Priority    *string `json:"priority"`
	Category    *string `json:"category"`
	Completed   *bool   `json:"is_completed"`
}

func (c Changes) IsEmpty() bool {
	return c.Name == nil && c.Description == nil && c.Duration == nil &&
		c.Deadline == nil && c.Priority == nil && c.Category == nil && c.Completed == nil
}

// Over returns the form the edit dialog would submit after applying c to t.
func (c Changes) Over(t domain.Task) TaskForm {
	f := FormFromTask(t)
	if c.Name != nil {
		f.Name = *c.Name
	}
	if c.Description != nil {
		f.Description = *c.Description
	}
	if c.Duration != nil {
		f.Duration = *c.Duration
	}
	if c.Deadline != nil {
		f.Deadline = *c.Deadline
	}
	if c.Priority != nil {
		f.Priority = *c.Priority
	}
	if c.Category != nil {
		f.Category = *c.Category
	}
	if c.Completed != nil {
		f.Completed = *c.Completed
	}
	return f
}
