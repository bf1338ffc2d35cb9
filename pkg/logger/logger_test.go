package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestWithContextAddsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	base, err := New(Config{Level: "debug", Output: &buf})
	if err != nil {
		t.Fatal(err)
	}

	ctx := ContextWithIdentity(ContextWithRequestID(context.Background(), "req-1"), "guest")
	WithContext(ctx, base).Info("hello")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line %q: %v", buf.String(), err)
	}
	if entry["request_id"] != "req-1" || entry["identity"] != "guest" || entry["msg"] != "hello" {
		t.Fatalf("entry=%v", entry)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(Config{Level: "chatty"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l, _ := New(Config{Level: "warn", Output: &buf})
	l.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info written at warn level: %q", buf.String())
	}
}
