package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"weightbattle/internal/domain"
)

// Upsert writes the weigh-in for (userID, weekStart). The unique constraint
// on the pair makes the write atomic; the replaced row is read first so the
// caller can audit the change.
func (d *DB) Upsert(ctx context.Context, userID int64, weekStart string, weight float64, createdAt time.Time) (*domain.WeighIn, *domain.WeighIn, error) {
	replaced, err := d.Get(ctx, userID, weekStart)
	if err != nil {
		return nil, nil, err
	}

	var wi domain.WeighIn
	err = d.sql.QueryRowContext(ctx,
		`INSERT INTO weigh_ins(user_id, week_start, weight, created_at) VALUES($1, $2, $3, $4)
		 ON CONFLICT (user_id, week_start) DO UPDATE SET weight=EXCLUDED.weight, created_at=EXCLUDED.created_at
		 RETURNING id, user_id, week_start, weight, created_at;`,
		userID, weekStart, weight, createdAt.UTC(),
	).Scan(&wi.ID, &wi.UserID, &wi.WeekStart, &wi.Weight, &wi.CreatedAt)
	if err != nil {
		return nil, nil, err
	}
	return &wi, replaced, nil
}

// Get returns the weigh-in for (userID, weekStart), or nil if none.
func (d *DB) Get(ctx context.Context, userID int64, weekStart string) (*domain.WeighIn, error) {
	var wi domain.WeighIn
	err := d.sql.QueryRowContext(ctx,
		"SELECT id, user_id, week_start, weight, created_at FROM weigh_ins WHERE user_id=$1 AND week_start=$2;",
		userID, weekStart,
	).Scan(&wi.ID, &wi.UserID, &wi.WeekStart, &wi.Weight, &wi.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &wi, nil
}

// ListByUser returns a user's weigh-ins ordered by week ascending.
func (d *DB) ListByUser(ctx context.Context, userID int64) ([]domain.WeighIn, error) {
	return d.listWeighIns(ctx,
		"SELECT id, user_id, week_start, weight, created_at FROM weigh_ins WHERE user_id=$1 ORDER BY week_start;",
		userID)
}

// ListByWeek returns all weigh-ins for the given week.
func (d *DB) ListByWeek(ctx context.Context, weekStart string) ([]domain.WeighIn, error) {
	return d.listWeighIns(ctx,
		"SELECT id, user_id, week_start, weight, created_at FROM weigh_ins WHERE week_start=$1 ORDER BY user_id;",
		weekStart)
}

func (d *DB) listWeighIns(ctx context.Context, query string, arg any) ([]domain.WeighIn, error) {
	rows, err := d.sql.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.WeighIn, 0)
	for rows.Next() {
		var wi domain.WeighIn
		if err := rows.Scan(&wi.ID, &wi.UserID, &wi.WeekStart, &wi.Weight, &wi.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, wi)
	}
	return out, rows.Err()
}

// Weeks returns every distinct week start with data, ascending.
func (d *DB) Weeks(ctx context.Context) ([]string, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT DISTINCT week_start FROM weigh_ins ORDER BY week_start;")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var week string
		if err := rows.Scan(&week); err != nil {
			return nil, err
		}
		out = append(out, week)
	}
	return out, rows.Err()
}
