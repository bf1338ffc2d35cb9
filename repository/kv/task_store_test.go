package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/fastygo/taskwise/domain"
	"github.com/fastygo/taskwise/repository/memory"
)

type brokenKV struct {
	*memory.Store
	err error
}

func (b brokenKV) Get(context.Context, string) ([]byte, bool, error) { return nil, false, b.err }

func TestPartitionKey(t *testing.T) {
	cases := []struct {
		namespace string
		identity  domain.Identity
		want      string
	}{
		{"", "42", "taskwise_tasks_42"},
		{"taskwise", domain.GuestIdentity, "taskwise_tasks_guest"},
		{"demo", "  ", "demo_tasks_guest"},
		{"demo", "u-1", "demo_tasks_u-1"},
	}
	for _, tc := range cases {
		if got := PartitionKey(tc.namespace, tc.identity); got != tc.want {
			t.Errorf("PartitionKey(%q, %q)=%q, want %q", tc.namespace, tc.identity, got, tc.want)
		}
	}
}

func TestLoadMissingPartitionIsEmpty(t *testing.T) {
	store := NewTaskStore(memory.New(), "", nil)
	tasks, err := store.Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("Load()=%#v, want empty non-nil slice", tasks)
	}
}

func TestLoadCorruptPartitionIsEmpty(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"{not json", `{"id":"1"}`, `[{"id":{}}]`, `[{"duration":"sixty"}]`} {
		mem := memory.New()
		mem.Set(ctx, PartitionKey("", "u1"), []byte(raw))
		store := NewTaskStore(mem, "", nil)

		tasks, err := store.Load(ctx, "u1")
		if err != nil {
			t.Fatalf("Load(%q) err=%v, want nil", raw, err)
		}
		if len(tasks) != 0 {
			t.Fatalf("Load(%q)=%+v, want empty", raw, tasks)
		}
	}
}

func TestLoadSurfacesBackendErrors(t *testing.T) {
	boom := errors.New("backend down")
	store := NewTaskStore(brokenKV{Store: memory.New(), err: boom}, "", nil)
	if _, err := store.Load(context.Background(), "u1"); !errors.Is(err, boom) {
		t.Fatalf("Load() err=%v, want %v", err, boom)
	}
}

func TestSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	store := NewTaskStore(memory.New(), "", nil)
	in := []domain.Task{
		{ID: "a", Name: "Plan sprint", Description: "board", DurationMinutes: 45, Deadline: "2024-06-10", Priority: domain.PriorityHigh, Category: "work"},
		{ID: "b", Name: "Gym", Priority: domain.PriorityLow, IsCompleted: true},
	}
	if err := store.Save(ctx, "u1", in); err != nil {
		t.Fatalf("Save() err=%v", err)
	}
	out, err := store.Load(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0] != in[0] || out[1] != in[1] {
		t.Fatalf("Load()=%+v, want %+v", out, in)
	}

	other, _ := store.Load(ctx, "u2")
	if len(other) != 0 {
		t.Fatal("partition of u1 visible to u2")
	}
}

func TestLoadDefaultsAndSanitizes(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	raw := `[
		{"id": 1718000000000, "name": "legacy", "duration": 30, "deadline": "2024-06-10", "priority": "high", "is_completed": false},
		{"id": "x", "name": "minimal"},
		{"id": "x", "name": "duplicate id"},
		{"id": "y", "name": "bad values", "priority": "urgent", "duration": -5},
		{"name": "no id"}
	]`
	mem.Set(ctx, PartitionKey("", "u1"), []byte(raw))
	tasks, err := NewTaskStore(mem, "", nil).Load(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 4 {
		t.Fatalf("len=%d, want 4 (duplicate dropped): %+v", len(tasks), tasks)
	}
	if tasks[0].ID != "1718000000000" || tasks[0].Priority != domain.PriorityHigh {
		t.Errorf("legacy record decoded as %+v", tasks[0])
	}
	minimal := tasks[1]
	if minimal.Description != "" || minimal.DurationMinutes != 0 || minimal.Deadline != "" ||
		minimal.Priority != domain.PriorityLow || minimal.IsCompleted {
		t.Errorf("missing fields not defaulted: %+v", minimal)
	}
	if tasks[2].Priority != domain.PriorityLow || tasks[2].DurationMinutes != 0 {
		t.Errorf("invalid values not sanitized: %+v", tasks[2])
	}
	if tasks[3].ID == "" {
		t.Error("record without id was not given one")
	}

	again, _ := NewTaskStore(mem, "", nil).Load(ctx, "u1")
	if again[3].ID != tasks[3].ID {
		t.Error("generated id not stable across loads")
	}
}

func TestDropRemovesPartition(t *testing.T) {
	ctx := context.Background()
	store := NewTaskStore(memory.New(), "", nil)
	store.Save(ctx, "u1", []domain.Task{{ID: "a", Name: "a", Priority: domain.PriorityLow}})

	if err := store.Drop(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	tasks, _ := store.Load(ctx, "u1")
	if len(tasks) != 0 {
		t.Fatalf("Load()=%+v after Drop", tasks)
	}
}
