package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/taskwise/domain"
	"github.com/fastygo/taskwise/repository"
)

// DefaultNamespace prefixes every key written by this package.
const DefaultNamespace = "taskwise"

type taskStore struct {
	kv        repository.KeyValueStore
	namespace string
	logger    *zap.Logger
}

// NewTaskStore returns a TaskStore keeping one JSON document per identity.
func NewTaskStore(kv repository.KeyValueStore, namespace string, logger *zap.Logger) repository.TaskStore {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &taskStore{kv: kv, namespace: namespace, logger: logger}
}

// PartitionKey returns the storage key holding the identity's tasks.
func PartitionKey(namespace string, identity domain.Identity) string {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if identity.IsGuest() {
		return namespace + "_tasks_guest"
	}
	return fmt.Sprintf("%s_tasks_%s", namespace, strings.TrimSpace(string(identity)))
}

func (s *taskStore) Load(ctx context.Context, identity domain.Identity) ([]domain.Task, error) {
	key := PartitionKey(s.namespace, identity)
	raw, found, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if !found || len(bytes.TrimSpace(raw)) == 0 {
		return []domain.Task{}, nil
	}

	tasks, err := decodeTasks(raw)
	if err != nil {
		s.logger.Warn("discarding corrupt task partition",
			zap.String("key", key),
			zap.Error(domain.WrapError(domain.ErrCodeStorageCorrupt, domain.ErrStorageCorrupt.Message, err)))
		return []domain.Task{}, nil
	}
	return tasks, nil
}

func (s *taskStore) Save(ctx context.Context, identity domain.Identity, tasks []domain.Task) error {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	payload, err := json.Marshal(tasks)
	if err != nil {
		return err
	}
	key := PartitionKey(s.namespace, identity)
	if err := s.kv.Set(ctx, key, payload); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *taskStore) Drop(ctx context.Context, identity domain.Identity) error {
	return s.kv.Delete(ctx, PartitionKey(s.namespace, identity))
}

// storedTask mirrors domain.Task but tolerates ids written as JSON numbers.
type storedTask struct {
	ID              json.RawMessage `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	DurationMinutes int             `json:"duration"`
	Deadline        string          `json:"deadline"`
	Priority        string          `json:"priority"`
	Category        string          `json:"category"`
	IsCompleted     bool            `json:"is_completed"`
}

func decodeTasks(raw []byte) ([]domain.Task, error) {
	var records []storedTask
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		id, err := decodeID(rec.ID)
		if err != nil {
			return nil, err
		}
		if id == "" {
			// stable across reloads so an unsaved collection still matches storage
			id = fmt.Sprintf("unnamed-%d", i)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		duration := rec.DurationMinutes
		if duration < 0 {
			duration = 0
		}
		tasks = append(tasks, domain.Task{
			ID:              id,
			Name:            rec.Name,
			Description:     rec.Description,
			DurationMinutes: duration,
			Deadline:        rec.Deadline,
			Priority:        domain.ParsePriority(rec.Priority),
			Category:        rec.Category,
			IsCompleted:     rec.IsCompleted,
		})
	}
	return tasks, nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}
