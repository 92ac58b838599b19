package common

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseHelpers(t *testing.T) {
	db := TestDB(t)
	ctx := context.Background()

	insert := func(q Querier, slug string) error {
		_, err := q.ExecContext(ctx, `INSERT INTO posts (title, slug, content, excerpt) VALUES ('t', $1, 'c', 'e')`, slug)
		return err
	}

	t.Run("migrations are idempotent", func(t *testing.T) {
		assert.NoError(t, Migrate(db))
	})

	t.Run("unique violation is detected by constraint", func(t *testing.T) {
		require.NoError(t, insert(db, "taken"))

		err := insert(db, "taken")
		assert.True(t, UniqueViolation(err, "posts_slug_key"))
		assert.False(t, UniqueViolation(err, "other_key"))
		assert.False(t, UniqueViolation(errors.New("plain"), "posts_slug_key"))
	})

	t.Run("failed transaction is rolled back", func(t *testing.T) {
		boom := errors.New("boom")

		err := WithTx(ctx, db, func(tx *sql.Tx) error {
			if err := insert(tx, "rolled-back"); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		var n int
		require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE slug = 'rolled-back'`).Scan(&n))
		assert.Zero(t, n)
	})

	t.Run("successful transaction is committed", func(t *testing.T) {
		require.NoError(t, WithTx(ctx, db, func(tx *sql.Tx) error {
			return insert(tx, "committed")
		}))

		var n int
		require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE slug = 'committed'`).Scan(&n))
		assert.Equal(t, 1, n)
	})
}
