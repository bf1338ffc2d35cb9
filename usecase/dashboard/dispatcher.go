package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/fastygo/taskwise/domain"
)

// Action names an entry of a task's context menu.
type Action string

const (
	ActionComplete Action = "complete"
	ActionView     Action = "view"
	ActionEdit     Action = "edit"
	ActionPriority Action = "priority"
	ActionDelete   Action = "delete"
)

// ParseAction accepts the names above, case-sensitive.
func ParseAction(s string) (Action, bool) {
	switch a := Action(s); a {
	case ActionComplete, ActionView, ActionEdit, ActionPriority, ActionDelete:
		return a, true
	}
	return "", false
}

type ActionHandler func(ctx context.Context, taskID string) error

type dispatcher struct {
	handlers map[Action]ActionHandler
	mu       sync.RWMutex
}

func newDispatcher() *dispatcher {
	return &dispatcher{handlers: make(map[Action]ActionHandler)}
}

func (d *dispatcher) register(action Action, handler ActionHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[action] = handler
}

func (d *dispatcher) dispatch(ctx context.Context, action Action, taskID string) error {
	d.mu.RLock()
	handler, ok := d.handlers[action]
	d.mu.RUnlock()
	if !ok {
		return domain.WrapError(domain.ErrCodeInvalid, "unknown menu action", fmt.Errorf("action %q not registered", action))
	}
	return handler(ctx, taskID)
}
