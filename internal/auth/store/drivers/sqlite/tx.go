package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/authstate/internal/auth/store"
)

type txStore struct {
	tx *sql.Tx
	q  *queries
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{
		tx: tx,
		q:  newQueries(tx),
	}
}

// Users inside a transaction run every statement on the same tx, so nested
// multi-statement writes join it instead of opening another.
func (t *txStore) Users() store.Users {
	return &usersRepo{q: t.q, tx: func(_ context.Context, fn func(store.Tx) error) error {
		return fn(t)
	}}
}
