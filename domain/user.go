package domain

import (
	"strings"
	"time"
)

// User represents a registered account. Only the ID leaks into task storage,
// where it selects the caller's partition.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity returns the partition identity owned by the user.
func (u *User) Identity() Identity {
	if u == nil {
		return GuestIdentity
	}
	return Identity(u.ID)
}

// Identity selects a task-storage partition. The zero value is the guest partition.
type Identity string

const GuestIdentity Identity = ""

func (i Identity) IsGuest() bool {
	return strings.TrimSpace(string(i)) == ""
}

func (i Identity) String() string {
	if i.IsGuest() {
		return "guest"
	}
	return string(i)
}
