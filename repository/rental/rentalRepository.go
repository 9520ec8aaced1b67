// repository/rental/repo.go
package rental

import (
	"context"
	"database/sql"
	"errors"

	"github.com/krishaprecyll/CampusSHARE/model"
)

type Repo interface {
	ListJoined(ctx context.Context) ([]model.Rental, error)
	ByID(ctx context.Context, id string) (*model.Rental, error)
	UpdateStatus(ctx context.Context, id string, status model.RentalStatus) (int64, error)
	CountActive(ctx context.Context) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const joinedCols = `
	r.id, r.item_id, r.renter_id, r.status, r.start_date, r.end_date,
	r.created_at, i.name AS item_name, u.full_name AS renter_name`

const joinedFrom = `
	FROM rentals r
	JOIN items i ON i.id = r.item_id
	JOIN users u ON u.id = r.renter_id`

func (r *repo) ListJoined(ctx context.Context) ([]model.Rental, error) {
	const q = `SELECT ` + joinedCols + joinedFrom + ` ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Rental
	for rows.Next() {
		var rt model.Rental
		if err := rows.Scan(
			&rt.ID, &rt.ItemID, &rt.RenterID, &rt.Status, &rt.StartDate,
			&rt.EndDate, &rt.CreatedAt, &rt.ItemName, &rt.RenterName,
		); err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

func (r *repo) ByID(ctx context.Context, id string) (*model.Rental, error) {
	const q = `SELECT ` + joinedCols + joinedFrom + ` WHERE r.id = $1`
	rt := &model.Rental{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&rt.ID, &rt.ItemID, &rt.RenterID, &rt.Status, &rt.StartDate,
		&rt.EndDate, &rt.CreatedAt, &rt.ItemName, &rt.RenterName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

// UpdateStatus returns rows affected so the caller can distinguish a
// confirmed write from one that silently matched nothing.
func (r *repo) UpdateStatus(ctx context.Context, id string, status model.RentalStatus) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE rentals SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rentals WHERE status = 'active'`).Scan(&n)
	return n, err
}
