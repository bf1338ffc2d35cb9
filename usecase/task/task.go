package task

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/taskwise/domain"
	"github.com/fastygo/taskwise/repository"
)

// Options carries the host capabilities the use case depends on.
type Options struct {
	NewID  func() string
	Now    func() time.Time
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.NewID == nil {
		o.NewID = newTaskID
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// UseCase owns the in-memory task collection of one identity and is the only
// writer of that identity's partition. Every mutation is saved before it is
// committed in memory, so List and the stored partition never disagree once a
// call returns.
type UseCase struct {
	store    repository.TaskStore
	identity domain.Identity
	opts     Options
	logger   *zap.Logger

	mu    sync.Mutex
	tasks []domain.Task
	used  map[string]struct{}
}

// New loads the identity's partition and returns a use case bound to it.
func New(ctx context.Context, store repository.TaskStore, identity domain.Identity, opts Options) (*UseCase, error) {
	opts = opts.withDefaults()
	tasks, err := store.Load(ctx, identity)
	if err != nil {
		return nil, err
	}

	uc := &UseCase{
		store:    store,
		identity: identity,
		opts:     opts,
		logger:   opts.Logger.With(zap.String("identity", identity.String())),
		tasks:    tasks,
		used:     make(map[string]struct{}, len(tasks)),
	}
	for _, t := range tasks {
		uc.used[t.ID] = struct{}{}
	}
	return uc, nil
}

func (uc *UseCase) Identity() domain.Identity {
	return uc.identity
}

// List returns a copy of the collection in insertion order.
func (uc *UseCase) List() []domain.Task {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return cloneTasks(uc.tasks)
}

func (uc *UseCase) Get(id string) (domain.Task, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if i := uc.indexOf(id); i >= 0 {
		return uc.tasks[i], nil
	}
	return domain.Task{}, domain.ErrTaskNotFound
}

// Create appends a new active task built from the draft.
func (uc *UseCase) Create(ctx context.Context, draft domain.Draft) (domain.Task, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	created := domain.Task{
		ID:              uc.nextID(),
		Name:            draft.Name,
		Description:     draft.Description,
		DurationMinutes: draft.DurationMinutes,
		Deadline:        draft.Deadline,
		Priority:        draft.Priority.Normalize(),
		Category:        draft.Category,
		IsCompleted:     false,
	}

	next := append(cloneTasks(uc.tasks), created)
	if err := uc.commit(ctx, next); err != nil {
		return domain.Task{}, err
	}
	uc.used[created.ID] = struct{}{}
	uc.logger.Debug("task created", zap.String("task_id", created.ID))
	return created, nil
}

// Update merges the non-nil fields of patch into the task.
func (uc *UseCase) Update(ctx context.Context, id string, patch domain.Patch) (domain.Task, error) {
	return uc.mutate(ctx, id, "updated", func(t domain.Task) domain.Task {
		return patch.Apply(t)
	})
}

// ToggleCompletion sets the completion flag of the task.
func (uc *UseCase) ToggleCompletion(ctx context.Context, id string, completed bool) (domain.Task, error) {
	return uc.mutate(ctx, id, "completion toggled", func(t domain.Task) domain.Task {
		t.IsCompleted = completed
		return t
	})
}

// CyclePriority advances the priority to its cyclic successor.
func (uc *UseCase) CyclePriority(ctx context.Context, id string) (domain.Task, error) {
	return uc.mutate(ctx, id, "priority cycled", func(t domain.Task) domain.Task {
		t.Priority = t.Priority.Next()
		return t
	})
}

// Delete removes the task immediately. A missing id leaves everything untouched
// and reports ErrTaskNotFound.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	i := uc.indexOf(id)
	if i < 0 {
		return domain.ErrTaskNotFound
	}
	next := make([]domain.Task, 0, len(uc.tasks)-1)
	next = append(next, uc.tasks[:i]...)
	next = append(next, uc.tasks[i+1:]...)
	if err := uc.commit(ctx, next); err != nil {
		return err
	}
	uc.logger.Debug("task deleted", zap.String("task_id", id))
	return nil
}

// Reload replaces the in-memory collection with the stored partition.
func (uc *UseCase) Reload(ctx context.Context) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	tasks, err := uc.store.Load(ctx, uc.identity)
	if err != nil {
		return err
	}
	uc.tasks = tasks
	for _, t := range tasks {
		uc.used[t.ID] = struct{}{}
	}
	return nil
}

func (uc *UseCase) mutate(ctx context.Context, id, action string, fn func(domain.Task) domain.Task) (domain.Task, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	i := uc.indexOf(id)
	if i < 0 {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	next := cloneTasks(uc.tasks)
	updated := fn(next[i])
	updated.ID = id
	updated.Priority = updated.Priority.Normalize()
	next[i] = updated

	if err := uc.commit(ctx, next); err != nil {
		return domain.Task{}, err
	}
	uc.logger.Debug("task "+action, zap.String("task_id", id))
	return updated, nil
}

// commit persists next and only then swaps it in.
func (uc *UseCase) commit(ctx context.Context, next []domain.Task) error {
	if err := uc.store.Save(ctx, uc.identity, next); err != nil {
		uc.logger.Error("failed to persist tasks", zap.Error(err))
		return err
	}
	uc.tasks = next
	return nil
}

func (uc *UseCase) indexOf(id string) int {
	for i := range uc.tasks {
		if uc.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// nextID draws ids until one has never been seen by this instance.
func (uc *UseCase) nextID() string {
	for {
		id := uc.opts.NewID()
		if id == "" {
			continue
		}
		if _, taken := uc.used[id]; !taken {
			return id
		}
	}
}

func newTaskID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

func cloneTasks(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, len(tasks))
	copy(out, tasks)
	return out
}
