package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/krishaprecyll/CampusSHARE/model"
)

type Repo interface {
	Insert(ctx context.Context, u *model.User) error
	ByID(ctx context.Context, id string) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdatePartial(ctx context.Context, id string, req model.ProfileUpdateReq) error
	CountAll(ctx context.Context) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const profileCols = `
	id, email, full_name, university_id, phone, address, campus_building,
	profile_picture_url, emergency_contact_name, emergency_contact_phone,
	bio, role, verified, id_verification_status, created_at`

func (r *repo) Insert(ctx context.Context, u *model.User) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO users(
			id, email, full_name, university_id, phone, address,
			campus_building, emergency_contact_name, emergency_contact_phone,
			role, verified, id_verification_status)
		VALUES ($1, lower($2), $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at`,
		u.ID, u.Email, u.FullName, u.UniversityID, u.Phone, u.Address,
		u.CampusBuilding, u.EmergencyContactName, u.EmergencyContactPhone,
		u.Role, u.Verified, u.IDVerificationStatus,
	).Scan(&u.CreatedAt)
}

func (r *repo) ByID(ctx context.Context, id string) (*model.User, error) {
	return r.one(ctx, `SELECT `+profileCols+` FROM users WHERE id = $1`, id)
}

func (r *repo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.one(ctx, `SELECT `+profileCols+` FROM users WHERE lower(email) = lower($1)`, email)
}

// one returns (nil, nil) when no row matches, mirroring a maybe-single read.
func (r *repo) one(ctx context.Context, q string, arg any) (*model.User, error) {
	u := &model.User{}
	err := r.db.QueryRowContext(ctx, q, arg).Scan(
		&u.ID, &u.Email, &u.FullName, &u.UniversityID, &u.Phone, &u.Address,
		&u.CampusBuilding, &u.ProfilePictureURL, &u.EmergencyContactName,
		&u.EmergencyContactPhone, &u.Bio, &u.Role, &u.Verified,
		&u.IDVerificationStatus, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *repo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+profileCols+`
		FROM users
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.FullName, &u.UniversityID, &u.Phone, &u.Address,
			&u.CampusBuilding, &u.ProfilePictureURL, &u.EmergencyContactName,
			&u.EmergencyContactPhone, &u.Bio, &u.Role, &u.Verified,
			&u.IDVerificationStatus, &u.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdatePartial merges the non-nil fields of req into the profile row.
func (r *repo) UpdatePartial(ctx context.Context, id string, req model.ProfileUpdateReq) error {
	set := make([]string, 0, 8)
	args := make([]any, 0, 9)

	add := func(col string, v *string) {
		if v != nil {
			args = append(args, *v)
			set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
		}
	}
	add("full_name", req.FullName)
	add("phone", req.Phone)
	add("address", req.Address)
	add("campus_building", req.CampusBuilding)
	add("profile_picture_url", req.ProfilePictureURL)
	add("emergency_contact_name", req.EmergencyContactName)
	add("emergency_contact_phone", req.EmergencyContactPhone)
	add("bio", req.Bio)

	if len(set) == 0 {
		return nil
	}

	args = append(args, id)
	q := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", joinSet(set), len(args))
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}

func joinSet(parts []string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += ", " + p
	}
	return out
}

func (r *repo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
