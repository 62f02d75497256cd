package sqlite

import (
	"context"
	"database/sql"
	"time"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type queries struct {
	db dbtx
}

func newQueries(db dbtx) *queries {
	return &queries{db: db}
}

type userRow struct {
	ID            string
	Username      string
	PreferredName string
	PasswordHash  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const getUserByUsername = `
SELECT id, username, preferred_name, password_hash, created_at, updated_at
FROM users WHERE username = ?`

func (q *queries) GetUserByUsername(ctx context.Context, username string) (userRow, error) {
	var r userRow
	err := q.db.QueryRowContext(ctx, getUserByUsername, username).Scan(
		&r.ID, &r.Username, &r.PreferredName, &r.PasswordHash, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

const createUser = `
INSERT INTO users (id, username, preferred_name, password_hash, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`

func (q *queries) CreateUser(ctx context.Context, r userRow) error {
	_, err := q.db.ExecContext(ctx, createUser,
		r.ID, r.Username, r.PreferredName, r.PasswordHash, r.CreatedAt, r.UpdatedAt)
	return err
}

const touchUser = `UPDATE users SET updated_at = ? WHERE id = ?`

func (q *queries) TouchUser(ctx context.Context, id string, at time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, touchUser, at, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteUserRoles = `DELETE FROM user_roles WHERE user_id = ?`

func (q *queries) DeleteUserRoles(ctx context.Context, userID string) error {
	_, err := q.db.ExecContext(ctx, deleteUserRoles, userID)
	return err
}

const insertUserRole = `INSERT INTO user_roles (user_id, role, position) VALUES (?, ?, ?)`

func (q *queries) InsertUserRole(ctx context.Context, userID, role string, position int) error {
	_, err := q.db.ExecContext(ctx, insertUserRole, userID, role, position)
	return err
}

const listUserRoles = `SELECT role FROM user_roles WHERE user_id = ? ORDER BY position`

func (q *queries) ListUserRoles(ctx context.Context, userID string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listUserRoles, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

const deleteUser = `DELETE FROM users WHERE id = ?`

func (q *queries) DeleteUser(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteUser, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const countUsers = `SELECT COUNT(*) FROM users`

func (q *queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countUsers).Scan(&n)
	return n, err
}
