package txrepo

import (
	"context"
	"database/sql"
)

// Repo exposes the single aggregation the dashboard needs; transaction rows
// are written by the payment flow, not by this service.
type Repo interface {
	SumCompleted(ctx context.Context) (float64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) SumCompleted(ctx context.Context) (float64, error) {
	const q = `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE status = 'completed'`
	var sum float64
	err := r.db.QueryRowContext(ctx, q).Scan(&sum)
	return sum, err
}
