package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/geocoder89/recipehub/internal/domain/user"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.scanOne(r.db.QueryRowContext(
		ctx,
		`SELECT id, email, name, picture, created_at
         FROM users
         WHERE email = ?`,
		email,
	))
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	return r.scanOne(r.db.QueryRowContext(
		ctx,
		`SELECT id, email, name, picture, created_at
         FROM users
         WHERE id = ?`,
		id,
	))
}

func (r *UsersRepo) Create(ctx context.Context, email, name, picture string) (user.User, error) {
	now := time.Now().UTC()

	res, err := r.db.ExecContext(
		ctx,
		`INSERT INTO users (email, name, picture, created_at) VALUES (?, ?, ?, ?)`,
		email, name, picture, now,
	)

	if err != nil {
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()

	if err != nil {
		return user.User{}, fmt.Errorf("user insert id: %w", err)
	}

	return user.User{
		ID:        id,
		Email:     email,
		Name:      name,
		Picture:   picture,
		CreatedAt: now,
	}, nil
}

// UpdateProfile refreshes name/picture only. Email and created_at never
// change after the row exists.
func (r *UsersRepo) UpdateProfile(ctx context.Context, id int64, name, picture string) error {
	res, err := r.db.ExecContext(
		ctx,
		`UPDATE users SET name = ?, picture = ? WHERE id = ?`,
		name, picture, id,
	)

	if err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}

	affected, err := res.RowsAffected()

	if err != nil {
		return err
	}

	if affected == 0 {
		return user.ErrNotFound
	}

	return nil
}

func (r *UsersRepo) scanOne(row *sql.Row) (user.User, error) {
	var u user.User
	var name, picture sql.NullString

	err := row.Scan(&u.ID, &u.Email, &name, &picture, &u.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	u.Name = name.String
	u.Picture = picture.String

	return u, nil
}
