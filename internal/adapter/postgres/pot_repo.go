package postgres

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"weightbattle/internal/domain"
)

// PotRepo implements pot persistence. The week start is the primary key, so
// re-resolving a week can never duplicate a contribution.
type PotRepo struct {
	db *DB
}

// NewPotRepo creates the pot repository view of the store.
func NewPotRepo(db *DB) *PotRepo {
	return &PotRepo{db: db}
}

// Upsert writes the single contribution for a week.
func (r *PotRepo) Upsert(ctx context.Context, weekStart string, userID int64, amount decimal.Decimal, createdAt time.Time) error {
	_, err := r.db.sql.ExecContext(ctx,
		`INSERT INTO pot_contributions(week_start, user_id, amount, created_at) VALUES($1, $2, $3, $4)
		 ON CONFLICT (week_start) DO UPDATE SET user_id=EXCLUDED.user_id, amount=EXCLUDED.amount, created_at=EXCLUDED.created_at;`,
		weekStart, userID, amount, createdAt.UTC())
	return err
}

// Delete removes a week's contribution if present.
func (r *PotRepo) Delete(ctx context.Context, weekStart string) error {
	_, err := r.db.sql.ExecContext(ctx, "DELETE FROM pot_contributions WHERE week_start=$1;", weekStart)
	return err
}

// List returns all contributions ordered by week descending.
func (r *PotRepo) List(ctx context.Context) ([]domain.PotContribution, error) {
	rows, err := r.db.sql.QueryContext(ctx,
		"SELECT week_start, user_id, amount, created_at FROM pot_contributions ORDER BY week_start DESC;")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.PotContribution, 0)
	for rows.Next() {
		var c domain.PotContribution
		if err := rows.Scan(&c.WeekStart, &c.UserID, &c.Amount, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
