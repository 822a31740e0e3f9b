package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Review is a single user's review of a book. Username is a denormalized copy
// of the author's username, not a foreign key to users.id. At most one review
// exists per (book_isbn, username) pair, enforced by a unique index.
type Review struct {
	bun.BaseModel `bun:"table:reviews,alias:r"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	BookISBN  string    `bun:"book_isbn,nullzero" json:"book_isbn"`
	Username  string    `bun:",nullzero" json:"username"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`

	Book *Book `bun:"rel:belongs-to,join:book_isbn=isbn" json:"-"`
}
