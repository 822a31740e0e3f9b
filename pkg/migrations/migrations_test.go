package migrations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func TestSerialPKColumn(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "INTEGER PRIMARY KEY AUTOINCREMENT", serialPKColumn(dialect.SQLite))
	assert.Equal(t, "INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY", serialPKColumn(dialect.PG))
	assert.NotContains(t, serialPKColumn(dialect.PG), "AUTOINCREMENT")
}

func TestBringUpToDate(t *testing.T) {
	t.Parallel()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		db.Close()
	})

	ctx := context.Background()

	group, err := BringUpToDate(ctx, db)
	require.NoError(t, err)
	assert.NotZero(t, group.ID)

	for _, table := range []string{"users", "books", "reviews", "sessions"} {
		count, err := db.NewSelect().Table(table).Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	}

	// A second run is a no-op.
	group, err = BringUpToDate(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, group.ID)
}
