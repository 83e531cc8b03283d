package dbmetrics

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTx struct {
	DBExecutor
}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

type fakeDB struct{}

func (fakeDB) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}
func (fakeDB) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}
func (fakeDB) QueryRowContext(context.Context, string, ...interface{}) *sql.Row { return nil }

func TestOperation(t *testing.T) {
	tests := map[string]string{
		"SELECT id FROM slots":              "select",
		"  insert into bookings (id)":       "insert",
		"UPDATE slots SET is_booked = $1":   "update",
		"DELETE FROM slots WHERE id = $1":   "delete",
		"WITH x AS (SELECT 1) SELECT * ...": "with",
		"VACUUM":                            "other",
		"":                                  "other",
	}

	for query, want := range tests {
		assert.Equal(t, want, operation(query), query)
	}
}

func TestGetExecutor(t *testing.T) {
	db := fakeDB{}
	ctx := context.Background()

	assert.False(t, IsInTransaction(ctx))
	assert.Equal(t, DBExecutor(db), GetExecutor(ctx, db))

	tx := fakeTx{}
	txCtx := WithTx(ctx, tx)

	assert.True(t, IsInTransaction(txCtx))
	assert.Equal(t, DBExecutor(tx), GetExecutor(txCtx, db))
}
