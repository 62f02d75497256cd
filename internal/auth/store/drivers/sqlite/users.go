package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/authstate/internal/auth/domain"
	"github.com/aussiebroadwan/authstate/internal/auth/store"
)

type usersRepo struct {
	q  *queries
	tx func(ctx context.Context, fn func(store.Tx) error) error
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row, err := r.q.GetUserByUsername(ctx, username)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	roles, err := r.q.ListUserRoles(ctx, row.ID)
	if err != nil {
		return domain.User{}, err
	}

	return mapUser(row, roles), nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}

	return r.tx(ctx, func(tx store.Tx) error {
		q := tx.(*txStore).q
		if err := q.CreateUser(ctx, userRow{
			ID:            u.ID,
			Username:      u.Username,
			PreferredName: u.PreferredName,
			PasswordHash:  u.PasswordHash,
			CreatedAt:     u.CreatedAt,
			UpdatedAt:     u.UpdatedAt,
		}); err != nil {
			return mapConflict(err)
		}
		return insertRoles(ctx, q, u.ID, u.Roles)
	})
}

func (r *usersRepo) SetUserRoles(ctx context.Context, userID string, roles domain.Roles) error {
	return r.tx(ctx, func(tx store.Tx) error {
		q := tx.(*txStore).q

		n, err := q.TouchUser(ctx, userID, time.Now().UTC())
		if err != nil {
			return err
		}
		if n == 0 {
			return store.ErrNotFound
		}

		if err := q.DeleteUserRoles(ctx, userID); err != nil {
			return err
		}
		return insertRoles(ctx, q, userID, roles)
	})
}

func (r *usersRepo) ListUserRoles(ctx context.Context, userID string) (domain.Roles, error) {
	roles, err := r.q.ListUserRoles(ctx, userID)
	if err != nil {
		return nil, err
	}
	return domain.Roles(roles), nil
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	n, err := r.q.DeleteUser(ctx, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	count, err := r.q.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func insertRoles(ctx context.Context, q *queries, userID string, roles domain.Roles) error {
	seen := make(map[string]struct{}, len(roles))
	pos := 0
	for _, role := range roles {
		if _, dup := seen[role]; dup {
			continue
		}
		seen[role] = struct{}{}

		if err := q.InsertUserRole(ctx, userID, role, pos); err != nil {
			return err
		}
		pos++
	}
	return nil
}

func mapUser(row userRow, roles []string) domain.User {
	return domain.User{
		ID:            row.ID,
		Username:      row.Username,
		PreferredName: row.PreferredName,
		PasswordHash:  row.PasswordHash,
		Roles:         domain.Roles(roles),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
