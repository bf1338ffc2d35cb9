package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestStoreRoundTrip(t *testing.T) {
	url := os.Getenv("TASKWISE_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TASKWISE_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatalf("pgxpool.New() err=%v", err)
	}
	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS kv_entries (
		key TEXT PRIMARY KEY, value BYTEA NOT NULL, updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW())`); err != nil {
		t.Fatalf("create table err=%v", err)
	}
	store := NewStore(pool)
	defer store.Close()
	defer store.Clear(ctx)

	if _, found, err := store.Get(ctx, "k"); err != nil || found {
		t.Fatalf("Get(k) found=%v err=%v", found, err)
	}
	store.Set(ctx, "k", []byte("one"))
	store.Set(ctx, "k", []byte("two"))
	v, found, err := store.Get(ctx, "k")
	if err != nil || !found || string(v) != "two" {
		t.Fatalf("Get(k)=%q found=%v err=%v", v, found, err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := store.Get(ctx, "k"); found {
		t.Fatal("k present after Delete")
	}
}
