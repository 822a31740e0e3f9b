package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Book is a catalog entry. Rows are bulk-loaded by the import tool and are
// immutable afterward; the ISBN is the primary key.
type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ISBN      string    `bun:"isbn,pk" json:"isbn"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Title     string    `bun:",nullzero" json:"title"`
	Author    string    `bun:",nullzero" json:"author"`
	Year      int       `json:"year"`

	Reviews []*Review `bun:"rel:has-many,join:isbn=book_isbn" json:"reviews,omitempty"`
}
