package kv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fastygo/taskwise/domain"
	"github.com/fastygo/taskwise/repository/memory"
)

func TestUserRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(memory.New(), "", nil)

	user := &domain.User{ID: "u1", Name: "Ada", Email: "ada@example.com", CreatedAt: time.Now()}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create() err=%v", err)
	}
	if err := repo.Create(ctx, &domain.User{ID: "u2", Email: " ADA@example.com "}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("duplicate Create() err=%v, want ErrEmailTaken", err)
	}

	byEmail, err := repo.GetByEmail(ctx, "Ada@Example.com")
	if err != nil || byEmail.ID != "u1" {
		t.Fatalf("GetByEmail()=%+v, %v", byEmail, err)
	}

	byEmail.Name = "Ada Lovelace"
	if err := repo.Update(ctx, byEmail); err != nil {
		t.Fatal(err)
	}
	got, _ := repo.GetByID(ctx, "u1")
	if got.Name != "Ada Lovelace" {
		t.Fatalf("Name=%q after update", got.Name)
	}

	if err := repo.Delete(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.GetByID(ctx, "u1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("GetByID() after delete err=%v", err)
	}
	if err := repo.Delete(ctx, "u1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("second Delete() err=%v", err)
	}
}

func TestUserRepositoryCorruptListReadsEmpty(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	mem.Set(ctx, "taskwise_users", []byte("garbage"))
	repo := NewUserRepository(mem, "", nil)

	if _, err := repo.GetByEmail(ctx, "a@b.c"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("err=%v, want ErrUserNotFound", err)
	}
	if err := repo.Create(ctx, &domain.User{ID: "u1", Email: "a@b.c"}); err != nil {
		t.Fatalf("Create() over corrupt list err=%v", err)
	}
}
