package reviews

import (
	"context"
	"time"

	"github.com/bookhive/bookhive/pkg/database"
	"github.com/bookhive/bookhive/pkg/errcodes"
	"github.com/bookhive/bookhive/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Service handles review submission.
type Service struct {
	db *bun.DB
}

// NewService creates a new reviews service.
func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// SubmitOptions contains the fields for a new review. Username comes from the
// session, never from the request body.
type SubmitOptions struct {
	ISBN     string
	Username string
	Rating   int
	Comment  string
}

// Submit creates a review, enforcing at most one review per (book, user).
// The existence check gives a friendly conflict on the common path; the
// unique index on (book_isbn, username) is authoritative. When two
// submissions race, the second insert fails and maps to the same conflict
// without mutating state.
func (s *Service) Submit(ctx context.Context, opts SubmitOptions) (*models.Review, error) {
	bookExists, err := s.db.NewSelect().
		Model((*models.Book)(nil)).
		Where("isbn = ?", opts.ISBN).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !bookExists {
		return nil, errcodes.NotFound("Book")
	}

	reviewed, err := s.db.NewSelect().
		Model((*models.Review)(nil)).
		Where("book_isbn = ?", opts.ISBN).
		Where("username = ?", opts.Username).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if reviewed {
		return nil, errcodes.Conflict("You have already reviewed this book.")
	}

	now := time.Now()
	review := &models.Review{
		CreatedAt: now,
		UpdatedAt: now,
		BookISBN:  opts.ISBN,
		Username:  opts.Username,
		Rating:    opts.Rating,
		Comment:   opts.Comment,
	}
	_, err = s.db.NewInsert().Model(review).Exec(ctx)
	if database.IsUniqueViolation(err) {
		return nil, errcodes.Conflict("You have already reviewed this book.")
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return review, nil
}
