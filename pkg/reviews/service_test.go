package reviews

import (
	"context"
	"database/sql"
	"testing"

	"github.com/bookhive/bookhive/pkg/errcodes"
	"github.com/bookhive/bookhive/pkg/migrations"
	"github.com/bookhive/bookhive/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func insertBook(t *testing.T, db *bun.DB, isbn string) {
	t.Helper()

	book := &models.Book{
		ISBN:   isbn,
		Title:  "Dune",
		Author: "Frank Herbert",
		Year:   1965,
	}
	_, err := db.NewInsert().Model(book).Exec(context.Background())
	require.NoError(t, err)
}

func TestServiceSubmit(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	insertBook(t, db, "0441172717")

	review, err := svc.Submit(ctx, SubmitOptions{
		ISBN:     "0441172717",
		Username: "alice",
		Rating:   5,
		Comment:  "A classic.",
	})
	require.NoError(t, err)
	assert.NotZero(t, review.ID)
	assert.Equal(t, "0441172717", review.BookISBN)
	assert.Equal(t, "alice", review.Username)
	assert.Equal(t, 5, review.Rating)
	assert.False(t, review.CreatedAt.IsZero())

	// The stored row carries the timestamps, not just the returned struct.
	stored := &models.Review{}
	err = db.NewSelect().Model(stored).Where("id = ?", review.ID).Scan(ctx)
	require.NoError(t, err)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.False(t, stored.UpdatedAt.IsZero())
}

func TestServiceSubmitUnknownBook(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)

	_, err := svc.Submit(context.Background(), SubmitOptions{
		ISBN:     "0000000000",
		Username: "alice",
		Rating:   3,
	})
	require.Error(t, err)

	codeErr := &errcodes.Error{}
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, 404, codeErr.HTTPCode)
}

func TestServiceSubmitDuplicate(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	insertBook(t, db, "0441172717")

	_, err := svc.Submit(ctx, SubmitOptions{
		ISBN:     "0441172717",
		Username: "alice",
		Rating:   4,
	})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, SubmitOptions{
		ISBN:     "0441172717",
		Username: "alice",
		Rating:   2,
		Comment:  "Changed my mind.",
	})
	require.Error(t, err)

	codeErr := &errcodes.Error{}
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, 409, codeErr.HTTPCode)

	// The first review survives untouched.
	count, err := db.NewSelect().Model((*models.Review)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	review := &models.Review{}
	err = db.NewSelect().Model(review).Where("book_isbn = ?", "0441172717").Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, review.Rating)
}

func TestServiceSubmitDifferentUsers(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	insertBook(t, db, "0441172717")

	_, err := svc.Submit(ctx, SubmitOptions{ISBN: "0441172717", Username: "alice", Rating: 5})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, SubmitOptions{ISBN: "0441172717", Username: "bob", Rating: 2})
	require.NoError(t, err)

	reviews := []*models.Review{}
	err = db.NewSelect().
		Model(&reviews).
		Where("book_isbn = ?", "0441172717").
		Order("created_at ASC", "id ASC").
		Scan(ctx)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "alice", reviews[0].Username)
	assert.Equal(t, "bob", reviews[1].Username)
}
