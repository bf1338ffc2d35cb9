package domain

import "strings"

// Priority ranks a task. The order is low < medium < high.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var priorityOrder = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority maps free text onto a priority, falling back to low.
func ParsePriority(s string) Priority {
	return Priority(strings.ToLower(strings.TrimSpace(s))).Normalize()
}

func (p Priority) Valid() bool {
	return p.rank() >= 0
}

// Normalize returns p, or low when p is not one of the known values.
func (p Priority) Normalize() Priority {
	if !p.Valid() {
		return PriorityLow
	}
	return p
}

// Next returns the cyclic successor: low -> medium -> high -> low.
func (p Priority) Next() Priority {
	return priorityOrder[(p.rank()+1)%len(priorityOrder)]
}

// Less reports whether p ranks below other.
func (p Priority) Less(other Priority) bool {
	return p.Normalize().rank() < other.Normalize().rank()
}

// Title returns the capitalized label used in views.
func (p Priority) Title() string {
	p = p.Normalize()
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

func (p Priority) rank() int {
	for i, v := range priorityOrder {
		if v == p {
			return i
		}
	}
	return -1
}
