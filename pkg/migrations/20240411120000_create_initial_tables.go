package migrations

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// serialPKColumn returns the auto-incrementing integer primary key column for
// the given dialect. SQLite's AUTOINCREMENT is not valid Postgres DDL.
func serialPKColumn(name dialect.Name) string {
	if name == dialect.PG {
		return "INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		serialPK := serialPKColumn(db.Dialect().Name())

		_, err := db.Exec(fmt.Sprintf(`
			CREATE TABLE users (
				id %s,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				username TEXT NOT NULL,
				password_hash TEXT NOT NULL
			)
`, serialPK))
		if err != nil {
			return errors.WithStack(err)
		}
		// Usernames are unique as stored (case-sensitive exact match).
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_users_username ON users (username)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE books (
				isbn TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				title TEXT NOT NULL,
				author TEXT NOT NULL,
				year INTEGER NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(fmt.Sprintf(`
			CREATE TABLE reviews (
				id %s,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				book_isbn TEXT REFERENCES books (isbn) NOT NULL,
				username TEXT NOT NULL,
				rating INTEGER NOT NULL,
				comment TEXT
			)
`, serialPK))
		if err != nil {
			return errors.WithStack(err)
		}
		// The authoritative one-review-per-user-per-book guard. The service
		// does a fast-path existence check, but this index is what wins under
		// concurrent duplicate submissions.
		_, err = db.Exec(`CREATE UNIQUE INDEX ux_reviews_book_isbn_username ON reviews (book_isbn, username)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_reviews_book_isbn ON reviews (book_isbn)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE sessions (
				token TEXT PRIMARY KEY,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				expires_at TIMESTAMPTZ NOT NULL,
				user_id INTEGER NOT NULL,
				username TEXT NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_sessions_expires_at ON sessions (expires_at)`)
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec("DROP TABLE IF EXISTS sessions")
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec("DROP TABLE IF EXISTS reviews")
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec("DROP TABLE IF EXISTS books")
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec("DROP TABLE IF EXISTS users")
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
