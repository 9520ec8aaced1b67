package itemrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/krishaprecyll/CampusSHARE/model"
)

type Repo interface {
	List(ctx context.Context) ([]model.Item, error)
	ListAvailable(ctx context.Context, category string) ([]model.Item, error)
	ByID(ctx context.Context, id string) (*model.Item, error)
	Delete(ctx context.Context, id string) (int64, error)
	SetAvailable(ctx context.Context, id string, available bool) error
	CountAll(ctx context.Context) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const itemCols = `
	id, name, description, category, image_url, condition, available,
	rental_fee, rental_duration_days, deposit_amount, owner_id, created_at`

func (r *repo) List(ctx context.Context) ([]model.Item, error) {
	const q = `SELECT ` + itemCols + ` FROM items ORDER BY created_at DESC`
	return r.list(ctx, q)
}

// ListAvailable backs the public catalog; an empty category means no predicate.
func (r *repo) ListAvailable(ctx context.Context, category string) ([]model.Item, error) {
	if category == "" {
		const q = `SELECT ` + itemCols + ` FROM items WHERE available ORDER BY created_at DESC`
		return r.list(ctx, q)
	}
	const q = `SELECT ` + itemCols + ` FROM items WHERE available AND category = $1 ORDER BY created_at DESC`
	return r.list(ctx, q, category)
}

func (r *repo) list(ctx context.Context, q string, args ...any) ([]model.Item, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(
			&it.ID, &it.Name, &it.Description, &it.Category, &it.ImageURL,
			&it.Condition, &it.Available, &it.RentalFee, &it.RentalDurationDays,
			&it.DepositAmount, &it.OwnerID, &it.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *repo) ByID(ctx context.Context, id string) (*model.Item, error) {
	it := &model.Item{}
	err := r.db.QueryRowContext(ctx, `SELECT `+itemCols+` FROM items WHERE id = $1`, id).Scan(
		&it.ID, &it.Name, &it.Description, &it.Category, &it.ImageURL,
		&it.Condition, &it.Available, &it.RentalFee, &it.RentalDurationDays,
		&it.DepositAmount, &it.OwnerID, &it.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

// Delete reports how many rows were removed so callers can tell a confirmed
// delete from a no-op.
func (r *repo) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repo) SetAvailable(ctx context.Context, id string, available bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE items SET available = $2 WHERE id = $1`, id, available)
	return err
}

func (r *repo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n)
	return n, err
}
