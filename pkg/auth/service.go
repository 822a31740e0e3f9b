package auth

import (
	"context"
	"database/sql"
	"time"

	"github.com/bookhive/bookhive/pkg/database"
	"github.com/bookhive/bookhive/pkg/errcodes"
	"github.com/bookhive/bookhive/pkg/models"
	"github.com/bookhive/bookhive/pkg/sessions"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// invalidCredentials is returned for both an unknown username and a wrong
// password so responses can't be used to enumerate usernames.
const invalidCredentials = "Invalid username or password"

// Service handles registration, login, and logout.
type Service struct {
	db             *bun.DB
	sessionService *sessions.Service
	hasher         Hasher
}

// NewService creates a new auth service. A nil hasher falls back to bcrypt.
func NewService(db *bun.DB, sessionService *sessions.Service, hasher Hasher) *Service {
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	return &Service{
		db:             db,
		sessionService: sessionService,
		hasher:         hasher,
	}
}

// Register creates a user and logs them straight in. The username existence
// check is a fast path for a friendly error; the unique index on
// users.username is what actually guarantees uniqueness, and a violation from
// a concurrent registration maps to the same conflict.
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, *models.Session, error) {
	exists, err := s.db.NewSelect().
		Model((*models.User)(nil)).
		Where("username = ?", username).
		Exists(ctx)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	if exists {
		return nil, nil, errcodes.Conflict("Username already taken. Choose another one.")
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	user := &models.User{
		CreatedAt:    now,
		UpdatedAt:    now,
		Username:     username,
		PasswordHash: hashed,
	}
	_, err = s.db.NewInsert().Model(user).Exec(ctx)
	if database.IsUniqueViolation(err) {
		return nil, nil, errcodes.Conflict("Username already taken. Choose another one.")
	}
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	session, err := s.sessionService.Create(ctx, user.ID, user.Username)
	if err != nil {
		return nil, nil, err
	}

	return user, session, nil
}

// Authenticate validates credentials and returns the user if valid. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Where("username = ?", username).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errcodes.Unauthorized(invalidCredentials)
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if !s.hasher.Compare(password, user.PasswordHash) {
		return nil, errcodes.Unauthorized(invalidCredentials)
	}

	return user, nil
}

// Login authenticates and starts a session.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, *models.Session, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, nil, err
	}

	session, err := s.sessionService.Create(ctx, user.ID, user.Username)
	if err != nil {
		return nil, nil, err
	}

	return user, session, nil
}

// Logout ends the session for the given token. Idempotent: an unknown or
// already-removed token is not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessionService.Delete(ctx, token)
}
