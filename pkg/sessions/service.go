package sessions

import (
	"context"
	"database/sql"
	"time"

	"github.com/bookhive/bookhive/pkg/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// DefaultTTL is how long a session lives when the config doesn't override it.
const DefaultTTL = 7 * 24 * time.Hour

// Service is the server-side session store: an opaque token maps to the
// logged-in user's id and username. All durable state lives in the database,
// so concurrent requests need no in-process coordination.
type Service struct {
	db  *bun.DB
	ttl time.Duration
}

func NewService(db *bun.DB, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{db: db, ttl: ttl}
}

// Create starts a session for the given user and returns it. The token is an
// opaque random value; it carries no user data itself.
func (s *Service) Create(ctx context.Context, userID int, username string) (*models.Session, error) {
	now := time.Now()
	session := &models.Session{
		Token:     uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
		UserID:    userID,
		Username:  username,
	}

	_, err := s.db.NewInsert().Model(session).Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return session, nil
}

// Get resolves a token to its session. A missing or expired token returns
// (nil, nil); an expired row is deleted on the way out.
func (s *Service) Get(ctx context.Context, token string) (*models.Session, error) {
	session := &models.Session{}
	err := s.db.NewSelect().
		Model(session).
		Where("token = ?", token).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if session.Expired() {
		if err := s.Delete(ctx, token); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return session, nil
}

// Delete removes a session unconditionally. Deleting an absent token is not
// an error, so logout is idempotent.
func (s *Service) Delete(ctx context.Context, token string) error {
	_, err := s.db.NewDelete().
		Model((*models.Session)(nil)).
		Where("token = ?", token).
		Exec(ctx)
	return errors.WithStack(err)
}

// DeleteExpired sweeps expired sessions and returns how many were removed.
func (s *Service) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := s.db.NewDelete().
		Model((*models.Session)(nil)).
		Where("expires_at < ?", time.Now()).
		Exec(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return deleted, nil
}
