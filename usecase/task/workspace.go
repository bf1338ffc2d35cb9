package task

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/taskwise/domain"
	"github.com/fastygo/taskwise/repository"
)

// Workspace hands out one UseCase per identity, loading each partition on
// first use. Loaded partitions stay in memory until EvictIdle or Forget
// removes them.
type Workspace struct {
	store  repository.TaskStore
	opts   Options
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[domain.Identity]*session
}

type session struct {
	uc       *UseCase
	lastUsed time.Time
}

func NewWorkspace(store repository.TaskStore, opts Options) *Workspace {
	opts = opts.withDefaults()
	return &Workspace{
		store:    store,
		opts:     opts,
		logger:   opts.Logger,
		sessions: make(map[domain.Identity]*session),
	}
}

// For returns the use case bound to identity.
func (w *Workspace) For(ctx context.Context, identity domain.Identity) (*UseCase, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if s, ok := w.sessions[identity]; ok {
		s.lastUsed = w.opts.Now()
		return s.uc, nil
	}
	uc, err := New(ctx, w.store, identity, w.opts)
	if err != nil {
		return nil, err
	}
	w.sessions[identity] = &session{uc: uc, lastUsed: w.opts.Now()}
	w.logger.Debug("task partition loaded", zap.String("identity", identity.String()))
	return uc, nil
}

// EvictIdle unloads partitions not requested for at least idle and returns
// how many were dropped. Every committed mutation is already stored, so the
// next For reloads the same collection. idle must exceed the longest request.
func (w *Workspace) EvictIdle(idle time.Duration) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	cutoff := w.opts.Now().Add(-idle)
	evicted := 0
	for identity, s := range w.sessions {
		if s.lastUsed.After(cutoff) {
			continue
		}
		delete(w.sessions, identity)
		evicted++
	}
	if evicted > 0 {
		w.logger.Debug("idle task partitions unloaded", zap.Int("count", evicted), zap.Int("loaded", len(w.sessions)))
	}
	return evicted
}

// Loaded reports how many partitions are held in memory.
func (w *Workspace) Loaded() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.sessions)
}

// Forget removes the identity's partition from memory and storage.
func (w *Workspace) Forget(ctx context.Context, identity domain.Identity) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.sessions, identity)
	return w.store.Drop(ctx, identity)
}
