package memory

import (
	"context"
	"testing"
)

func TestStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := New()

	in := []byte("abc")
	s.Set(ctx, "k", in)
	in[0] = 'x'

	out, found, err := s.Get(ctx, "k")
	if err != nil || !found || string(out) != "abc" {
		t.Fatalf("Get()=%q found=%v err=%v", out, found, err)
	}
	out[0] = 'y'
	again, _, _ := s.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("stored value mutated through returned slice: %q", again)
	}
}

func TestStoreDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.Set(ctx, "a", []byte("1"))
	s.Set(ctx, "b", []byte("2"))

	s.Delete(ctx, "a")
	if _, found, _ := s.Get(ctx, "a"); found {
		t.Fatal("a still present")
	}
	s.Clear(ctx)
	if _, found, _ := s.Get(ctx, "b"); found {
		t.Fatal("b still present after Clear")
	}
}
