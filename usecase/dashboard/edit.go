package dashboard

import (
	"context"

	"github.com/fastygo/taskwise/domain"
)

// Create validates form and creates the task it describes.
func Create(ctx context.Context, tasks TaskService, form TaskForm) (domain.Task, error) {
	if err := form.Validate(); err != nil {
		return domain.Task{}, err
	}
	return tasks.Create(ctx, form.ToDraft())
}

// Edit validates the task that would result from changes and stores it.
// Empty changes leave the task untouched.
func Edit(ctx context.Context, tasks TaskService, id string, changes Changes) (domain.Task, error) {
	current, err := tasks.Get(id)
	if err != nil {
		return domain.Task{}, err
	}
	if changes.IsEmpty() {
		return current, nil
	}
	form := changes.Over(current)
	if err := form.Validate(); err != nil {
		return domain.Task{}, err
	}
	return tasks.Update(ctx, id, form.ToPatch())
}
