// Package dashboard turns user intents into task operations and keeps the
// transient UI state of one dashboard. Rendering is delegated to a Renderer so
// the same controller drives any front end.
package dashboard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskwise/domain"
	"github.com/fastygo/taskwise/usecase/view"
)

// TaskService is the task repository surface the dashboard drives.
type TaskService interface {
	List() []domain.Task
	Get(id string) (domain.Task, error)
	Create(ctx context.Context, draft domain.Draft) (domain.Task, error)
	Update(ctx context.Context, id string, patch domain.Patch) (domain.Task, error)
	ToggleCompletion(ctx context.Context, id string, completed bool) (domain.Task, error)
	CyclePriority(ctx context.Context, id string) (domain.Task, error)
	Delete(ctx context.Context, id string) error
}

// Renderer draws a snapshot. It is called after every state change.
type Renderer interface {
	Render(ctx context.Context, snap Snapshot) error
}

type RendererFunc func(ctx context.Context, snap Snapshot) error

func (f RendererFunc) Render(ctx context.Context, snap Snapshot) error {
	return f(ctx, snap)
}

type Options struct {
	Now    func() time.Time
	Logger *zap.Logger
}

type Controller struct {
	tasks    TaskService
	renderer Renderer
	now      func() time.Time
	logger   *zap.Logger
	actions  *dispatcher

	mu    sync.Mutex
	state UIState
}

func NewController(tasks TaskService, renderer Renderer, opts Options) *Controller {
	if renderer == nil {
		renderer = RendererFunc(func(context.Context, Snapshot) error { return nil })
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	c := &Controller{
		tasks:    tasks,
		renderer: renderer,
		now:      opts.Now,
		logger:   opts.Logger,
		actions:  newDispatcher(),
		state:    UIState{Filter: view.FilterAll},
	}
	c.actions.register(ActionComplete, c.toggleLocked)
	c.actions.register(ActionView, c.openViewLocked)
	c.actions.register(ActionEdit, c.openEditLocked)
	c.actions.register(ActionPriority, c.cyclePriorityLocked)
	c.actions.register(ActionDelete, c.requestDeleteLocked)
	return c
}

// State returns a copy of the current UI state.
func (c *Controller) State() UIState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot builds the current snapshot without rendering it.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return BuildSnapshot(c.tasks.List(), c.state, c.now())
}

// Refresh renders the current state.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renderLocked(ctx)
}

// SubmitNew validates the new-task form and creates the task.
func (c *Controller) SubmitNew(ctx context.Context, form TaskForm) (domain.Task, error) {
	if err := form.Validate(); err != nil {
		return domain.Task{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	created, err := c.tasks.Create(ctx, form.ToDraft())
	if err != nil {
		return domain.Task{}, err
	}
	return created, c.renderLocked(ctx)
}

func (c *Controller) OpenView(ctx context.Context, id string) error {
	return c.run(ctx, func() error { return c.openViewLocked(ctx, id) })
}

func (c *Controller) CloseView(ctx context.Context) error {
	return c.run(ctx, func() error {
		c.state.ViewingID = ""
		return nil
	})
}

func (c *Controller) OpenEdit(ctx context.Context, id string) error {
	return c.run(ctx, func() error { return c.openEditLocked(ctx, id) })
}

func (c *Controller) CancelEdit(ctx context.Context) error {
	return c.run(ctx, func() error {
		c.state.EditingID = ""
		return nil
	})
}

// SubmitEdit validates the edit form and replaces the fields of the task
// being edited.
func (c *Controller) SubmitEdit(ctx context.Context, form TaskForm) (domain.Task, error) {
	if err := form.Validate(); err != nil {
		return domain.Task{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.state.EditingID
	if id == "" {
		return domain.Task{}, domain.WrapError(domain.ErrCodeInvalid, "no task is being edited", domain.ErrInvalidPayload)
	}
	updated, err := c.tasks.Update(ctx, id, form.ToPatch())
	if err != nil {
		return domain.Task{}, err
	}
	c.state.EditingID = ""
	return updated, c.renderLocked(ctx)
}

// ToggleMenu opens the context menu of id, or closes it when it is already
// open for id.
func (c *Controller) ToggleMenu(ctx context.Context, id string) error {
	return c.run(ctx, func() error {
		if c.state.MenuTaskID == id {
			c.state.MenuTaskID = ""
			return nil
		}
		if _, err := c.tasks.Get(id); err != nil {
			return err
		}
		c.state.MenuTaskID = id
		return nil
	})
}

func (c *Controller) CloseMenu(ctx context.Context) error {
	return c.run(ctx, func() error {
		c.state.MenuTaskID = ""
		return nil
	})
}

// MenuAction closes the open menu and runs action on its task.
func (c *Controller) MenuAction(ctx context.Context, action Action) error {
	return c.run(ctx, func() error {
		id := c.state.MenuTaskID
		if id == "" {
			return domain.WrapError(domain.ErrCodeInvalid, "no menu is open", domain.ErrInvalidPayload)
		}
		c.state.MenuTaskID = ""
		return c.actions.dispatch(ctx, action, id)
	})
}

// Toggle flips the completion flag of id.
func (c *Controller) Toggle(ctx context.Context, id string) error {
	return c.run(ctx, func() error { return c.toggleLocked(ctx, id) })
}

func (c *Controller) CyclePriority(ctx context.Context, id string) error {
	return c.run(ctx, func() error { return c.cyclePriorityLocked(ctx, id) })
}

func (c *Controller) SetFilter(ctx context.Context, filter view.Filter) error {
	return c.run(ctx, func() error {
		c.state.Filter = view.ParseFilter(string(filter))
		return nil
	})
}

// RequestDelete asks for confirmation. Nothing is deleted until
// ConfirmDelete(true).
func (c *Controller) RequestDelete(ctx context.Context, id string) error {
	return c.run(ctx, func() error { return c.requestDeleteLocked(ctx, id) })
}

// ConfirmDelete deletes the pending task when confirmed and clears the
// request either way.
func (c *Controller) ConfirmDelete(ctx context.Context, confirmed bool) error {
	return c.run(ctx, func() error {
		id := c.state.PendingDeleteID
		if id == "" {
			return nil
		}
		if confirmed {
			if err := c.tasks.Delete(ctx, id); err != nil {
				return err
			}
			if c.state.ViewingID == id {
				c.state.ViewingID = ""
			}
			if c.state.EditingID == id {
				c.state.EditingID = ""
			}
		}
		c.state.PendingDeleteID = ""
		return nil
	})
}

func (c *Controller) openViewLocked(_ context.Context, id string) error {
	if _, err := c.tasks.Get(id); err != nil {
		return err
	}
	c.state.ViewingID = id
	c.state.MenuTaskID = ""
	return nil
}

func (c *Controller) openEditLocked(_ context.Context, id string) error {
	if _, err := c.tasks.Get(id); err != nil {
		return err
	}
	c.state.EditingID = id
	c.state.ViewingID = ""
	c.state.MenuTaskID = ""
	return nil
}

func (c *Controller) toggleLocked(ctx context.Context, id string) error {
	t, err := c.tasks.Get(id)
	if err != nil {
		return err
	}
	_, err = c.tasks.ToggleCompletion(ctx, id, !t.IsCompleted)
	return err
}

func (c *Controller) cyclePriorityLocked(ctx context.Context, id string) error {
	_, err := c.tasks.CyclePriority(ctx, id)
	return err
}

func (c *Controller) requestDeleteLocked(_ context.Context, id string) error {
	if _, err := c.tasks.Get(id); err != nil {
		return err
	}
	c.state.PendingDeleteID = id
	c.state.MenuTaskID = ""
	return nil
}

// run applies fn under the lock and renders when it succeeds.
func (c *Controller) run(ctx context.Context, fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := fn(); err != nil {
		return err
	}
	return c.renderLocked(ctx)
}

func (c *Controller) renderLocked(ctx context.Context) error {
	snap := BuildSnapshot(c.tasks.List(), c.state, c.now())
	if err := c.renderer.Render(ctx, snap); err != nil {
		c.logger.Warn("render dashboard", zap.Error(err))
		return err
	}
	return nil
}
