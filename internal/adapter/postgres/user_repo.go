package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"weightbattle/internal/domain"
)

// uniqueViolation is the PostgreSQL error code for duplicate keys.
const uniqueViolation = "23505"

// Create inserts a new participant, mapping duplicate names to ErrUserExists.
func (d *DB) Create(ctx context.Context, name string, startWeight float64) (*domain.User, error) {
	var u domain.User
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO users(name, start_weight, created_at) VALUES($1, $2, $3) RETURNING id, name, start_weight, created_at;",
		name, startWeight, time.Now().UTC(),
	).Scan(&u.ID, &u.Name, &u.StartWeight, &u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}
	return &u, nil
}

// GetByID returns a participant by id.
func (d *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := d.sql.QueryRowContext(ctx,
		"SELECT id, name, start_weight, created_at FROM users WHERE id=$1;", id,
	).Scan(&u.ID, &u.Name, &u.StartWeight, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Update replaces a participant's name and start weight.
func (d *DB) Update(ctx context.Context, id int64, name string, startWeight float64) (*domain.User, error) {
	var u domain.User
	err := d.sql.QueryRowContext(ctx,
		"UPDATE users SET name=$2, start_weight=$3 WHERE id=$1 RETURNING id, name, start_weight, created_at;",
		id, name, startWeight,
	).Scan(&u.ID, &u.Name, &u.StartWeight, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}
	return &u, nil
}

// List returns all participants ordered by name.
func (d *DB) List(ctx context.Context) ([]domain.User, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, name, start_weight, created_at FROM users ORDER BY name;")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.StartWeight, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Count returns the number of participants.
func (d *DB) Count(ctx context.Context) (int, error) {
	var n int
	err := d.sql.QueryRowContext(ctx, "SELECT COUNT(1) FROM users;").Scan(&n)
	return n, err
}
