package history

import (
	"time"
)

// Origin tells who authored an entry
type Origin string

const (
	OriginUser  Origin = "user"
	OriginAgent Origin = "agent"
)

// Entry is a single line in the conversation. Entries are immutable once
// appended; the log hands out copies.
type Entry struct {
	ID        string    `json:"id"`
	Seq       uint64    `json:"seq"`
	Content   string    `json:"content"`
	Origin    Origin    `json:"origin"`
	CreatedAt time.Time `json:"created_at"`
}

// IsUser reports whether the entry was authored by the user
func (e Entry) IsUser() bool {
	return e.Origin == OriginUser
}
