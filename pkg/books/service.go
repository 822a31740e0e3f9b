package books

import (
	"context"
	"database/sql"
	"strings"

	"github.com/bookhive/bookhive/pkg/errcodes"
	"github.com/bookhive/bookhive/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Service handles catalog operations.
type Service struct {
	db *bun.DB
}

// NewService creates a new books service.
func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// Search performs a case-insensitive substring match against ISBN, title, and
// author. The order is title then isbn so repeated identical queries are
// stable. An empty result is a normal outcome, not an error.
func (s *Service) Search(ctx context.Context, query string) ([]*models.Book, error) {
	pattern := "%" + escapeLike(query) + "%"

	books := []*models.Book{}
	err := s.db.NewSelect().
		Model(&books).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("LOWER(b.isbn) LIKE LOWER(?) ESCAPE '\\'", pattern).
				WhereOr("LOWER(b.title) LIKE LOWER(?) ESCAPE '\\'", pattern).
				WhereOr("LOWER(b.author) LIKE LOWER(?) ESCAPE '\\'", pattern)
		}).
		Order("b.title ASC", "b.isbn ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return books, nil
}

// Retrieve gets a book by exact ISBN with all of its reviews.
func (s *Service) Retrieve(ctx context.Context, isbn string) (*models.Book, error) {
	book := &models.Book{}
	err := s.db.NewSelect().
		Model(book).
		Relation("Reviews", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("r.created_at ASC", "r.id ASC")
		}).
		Where("b.isbn = ?", isbn).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errcodes.NotFound("Book")
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return book, nil
}

// Summary returns the review count and average rating for a book. The
// average is nil when there are no reviews.
func (s *Service) Summary(ctx context.Context, isbn string) (int, *float64, error) {
	var count int
	var avg sql.NullFloat64
	err := s.db.NewSelect().
		Model((*models.Review)(nil)).
		ColumnExpr("COUNT(r.id)").
		ColumnExpr("AVG(r.rating)").
		Where("r.book_isbn = ?", isbn).
		Scan(ctx, &count, &avg)
	if err != nil {
		return 0, nil, errors.WithStack(err)
	}

	if !avg.Valid {
		return count, nil, nil
	}
	return count, &avg.Float64, nil
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
