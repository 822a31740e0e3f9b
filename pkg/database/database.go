package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"strings"
	"time"

	"github.com/bookhive/bookhive/pkg/config"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type key int

const ctxKey key = 0

func WithLogging(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey, true)
}

type logQueryHook struct {
	log logger.Logger
}

func (*logQueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (qh *logQueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	enabled, ok := ctx.Value(ctxKey).(bool)
	if !ok || !enabled {
		return
	}

	qh.log.Debug(event.Query)
}

// New opens the database named by cfg.DatabaseURL. Postgres DSNs
// (postgres:// or postgresql://) use the pgdriver; anything else is treated
// as a SQLite file path (or ":memory:").
func New(cfg *config.Config) (*bun.DB, error) {
	var db *bun.DB
	var err error

	if isPostgresDSN(cfg.DatabaseURL) {
		db = newPostgres(cfg)
	} else {
		db, err = newSQLite(cfg)
		if err != nil {
			return nil, err
		}
	}

	// print out all queries in debug mode
	if cfg.DatabaseDebug {
		db.AddQueryHook(&logQueryHook{logger.NewWithLevel("debug")})
	}

	// Retry up to a few times to ensure that the database can connect.
	for i := 0; i < cfg.DatabaseConnectRetryCount; i++ {
		_, err = db.Exec("SELECT 1")
		if err != nil {
			time.Sleep(cfg.DatabaseConnectRetryDelay)
			continue
		}
		// We've successfully connected.
		break
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if !isPostgresDSN(cfg.DatabaseURL) {
		if err := applySQLitePragmas(db, cfg); err != nil {
			return nil, err
		}
	}

	return db, nil
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func newPostgres(cfg *config.Config) *bun.DB {
	connector := pgdriver.NewConnector(pgdriver.WithDSN(cfg.DatabaseURL))
	sqldb := sql.OpenDB(connector)
	return bun.NewDB(sqldb, pgdialect.New())
}

func newSQLite(cfg *config.Config) (*bun.DB, error) {
	// Get the underlying SQLite driver and create a connector with retry logic.
	drv := sqliteshim.Driver()
	drvCtx, ok := drv.(interface {
		OpenConnector(name string) (driver.Connector, error)
	})
	if !ok {
		return nil, errors.New("sqlite driver does not support OpenConnector")
	}
	connector, err := drvCtx.OpenConnector(cfg.DatabaseURL)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Wrap the connector with retry logic for SQLITE_BUSY errors.
	retryConnector := newRetryConnector(connector, cfg.DatabaseMaxRetries)
	sqldb := sql.OpenDB(retryConnector)

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// applySQLitePragmas configures SQLite for concurrent request handling. WAL
// mode allows concurrent reads during writes; busy_timeout makes SQLite wait
// before returning SQLITE_BUSY under short-term lock contention.
func applySQLitePragmas(db *bun.DB, cfg *config.Config) error {
	_, err := db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		return errors.Wrap(err, "failed to enable WAL mode")
	}

	_, err = db.Exec("PRAGMA busy_timeout=?", cfg.DatabaseBusyTimeout.Milliseconds())
	if err != nil {
		return errors.Wrap(err, "failed to set busy_timeout")
	}

	return nil
}
