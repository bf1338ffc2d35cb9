package view

import (
	"testing"
	"time"

	"github.com/fastygo/taskwise/domain"
)

func TestDetailOf(t *testing.T) {
	bare := DetailOf(domain.Task{ID: "1", Name: "Bare", Priority: "weird"}, time.UTC)
	want := Detail{
		ID:          "1",
		Name:        "Bare",
		Description: "No description provided.",
		Duration:    "0 min",
		Deadline:    Placeholder,
		Priority:    "Low",
		Category:    "None",
		ToggleLabel: "Mark Complete",
	}
	if bare != want {
		t.Fatalf("DetailOf()=%+v\nwant %+v", bare, want)
	}

	full := DetailOf(domain.Task{
		ID: "2", Name: "Full", Description: "notes", DurationMinutes: 90,
		Deadline: "2024-06-10", Priority: domain.PriorityHigh, Category: "études", IsCompleted: true,
	}, time.UTC)
	if full.Deadline != "June 10, 2024" || full.Priority != "High" || full.Category != "Études" ||
		full.Duration != "1h 30m" || full.ToggleLabel != "Mark Incomplete" || full.Description != "notes" {
		t.Fatalf("DetailOf()=%+v", full)
	}
}

func TestFocusOf(t *testing.T) {
	now := at("2024-06-10 09:00")
	if FocusOf([]domain.Task{{ID: "a", IsCompleted: true}}, now) != nil {
		t.Fatal("FocusOf() should be nil when nothing is active")
	}
	f := FocusOf([]domain.Task{{ID: "a", IsCompleted: true}, {ID: "b", Name: "B", DurationMinutes: 120, Deadline: "2024-06-11", Priority: domain.PriorityMedium}}, now)
	if f == nil || f.ID != "b" || f.Duration != "2 hours" || f.Deadline != "Tomorrow" || f.Priority != "Medium" {
		t.Fatalf("FocusOf()=%+v", f)
	}
}

func TestCards(t *testing.T) {
	now := at("2024-06-10 09:00")
	cards := Cards([]domain.Task{{ID: "a", Name: "A", DurationMinutes: 45, Priority: "", Category: "home"}}, now)
	if len(cards) != 1 {
		t.Fatalf("len=%d", len(cards))
	}
	c := cards[0]
	if c.Duration != "45 min" || c.Deadline != Placeholder || c.Priority != domain.PriorityLow || c.Category != "home" {
		t.Fatalf("card=%+v", c)
	}
}

func TestStatsOf(t *testing.T) {
	now := at("2024-06-10 09:00")
	tasks := []domain.Task{{ID: "a", IsCompleted: true}, {ID: "b"}, {ID: "c"}}

	s := StatsOf(tasks, now.Add(-36*time.Hour), now)
	if s.Completed != 1 || s.Active != 2 || s.Rate != "33%" || s.DaysActive != 2 {
		t.Fatalf("StatsOf()=%+v", s)
	}

	empty := StatsOf(nil, time.Time{}, now)
	if empty.Rate != Placeholder || empty.DaysActive != 1 {
		t.Fatalf("StatsOf(nil)=%+v", empty)
	}
}
