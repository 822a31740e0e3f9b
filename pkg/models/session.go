package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Session maps an opaque browser-held token to the logged-in user. Rows are
// ephemeral: logout deletes them and expired rows are swept opportunistically.
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	Token     string    `bun:",pk" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	UserID    int       `json:"user_id"`
	Username  string    `bun:",nullzero" json:"username"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}
