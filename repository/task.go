package repository

import (
	"context"

	"github.com/fastygo/taskwise/domain"
)

// TaskStore persists one task collection per identity.
//
// Load never reports an absent or undecodable partition as an error; both read
// as an empty collection. Errors are reserved for backend I/O failures.
type TaskStore interface {
	Load(ctx context.Context, identity domain.Identity) ([]domain.Task, error)
	Save(ctx context.Context, identity domain.Identity, tasks []domain.Task) error
	Drop(ctx context.Context, identity domain.Identity) error
}
