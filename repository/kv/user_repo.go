package kv

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/fastygo/taskwise/domain"
	"github.com/fastygo/taskwise/repository"
)

// userRepository keeps every account in a single JSON array, the same shape
// the browser client stored under its users key.
type userRepository struct {
	kv     repository.KeyValueStore
	key    string
	logger *zap.Logger

	mu sync.Mutex
}

// NewUserRepository returns a UserRepository stored under "<namespace>_users".
func NewUserRepository(kv repository.KeyValueStore, namespace string, logger *zap.Logger) repository.UserRepository {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &userRepository{kv: kv, key: namespace + "_users", logger: logger}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			u := users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	email = normalizeEmail(email)
	for i := range users {
		if normalizeEmail(users[i].Email) == email {
			u := users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if normalizeEmail(u.Email) == normalizeEmail(user.Email) {
			return domain.ErrEmailTaken
		}
	}
	return r.save(ctx, append(users, *user))
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == user.ID {
			users[i] = *user
			return r.save(ctx, users)
		}
	}
	return domain.ErrUserNotFound
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.load(ctx)
	if err != nil {
		return err
	}
	kept := users[:0]
	for _, u := range users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(users) {
		return domain.ErrUserNotFound
	}
	return r.save(ctx, kept)
}

func (r *userRepository) load(ctx context.Context) ([]domain.User, error) {
	raw, found, err := r.kv.Get(ctx, r.key)
	if err != nil {
		return nil, err
	}
	if !found || len(raw) == 0 {
		return nil, nil
	}
	var users []domain.User
	if err := json.Unmarshal(raw, &users); err != nil {
		r.logger.Warn("discarding corrupt user list", zap.String("key", r.key), zap.Error(err))
		return nil, nil
	}
	return users, nil
}

func (r *userRepository) save(ctx context.Context, users []domain.User) error {
	if users == nil {
		users = []domain.User{}
	}
	payload, err := json.Marshal(users)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, r.key, payload)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
