package sqlite3_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/professorevery/campusfeed/db/sqlite3"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()

	db, err := sqlite3.NewDB(ctx, "file:"+filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		err := db.Close()
		require.NoError(t, err)
	})

	err = sqlite3.MigrateUp(ctx, db)
	require.NoError(t, err)

	return db
}
