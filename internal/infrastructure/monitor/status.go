package monitor

import "time"

// Status is the last probe result of the storage backend.
type Status struct {
	Backend   string    `json:"backend"`
	Online    bool      `json:"online"`
	Entries   int       `json:"entries,omitempty"`
	Error     string    `json:"error,omitempty"`
	LastCheck time.Time `json:"last_check"`
}
