package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/krishaprecyll/CampusSHARE/model"
)

// Repo owns auth_identities, the credential records of the auth subsystem.
// Profile rows live in repository/user and are keyed by identity id.
type Repo interface {
	Create(ctx context.Context, id *model.Identity) error
	Delete(ctx context.Context, id string) error
	ByEmail(ctx context.Context, email string) (*model.Identity, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Create(ctx context.Context, ident *model.Identity) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO auth_identities(id, email, password_hash)
		VALUES ($1, lower($2), $3)
		RETURNING created_at`,
		ident.ID, ident.Email, ident.PasswordHash,
	).Scan(&ident.CreatedAt)
}

// Delete is the compensating action of the registration saga.
func (r *repo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM auth_identities WHERE id = $1`, id)
	return err
}

func (r *repo) ByEmail(ctx context.Context, email string) (*model.Identity, error) {
	ident := &model.Identity{}
	err := r.db.QueryRowContext(ctx, `
        SELECT id, email, password_hash, created_at
        FROM auth_identities
        WHERE lower(email) = lower($1)`,
		email,
	).Scan(&ident.ID, &ident.Email, &ident.PasswordHash, &ident.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ident, nil
}
