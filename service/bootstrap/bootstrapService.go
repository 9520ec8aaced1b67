package bootstrap

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/krishaprecyll/CampusSHARE/model"
	authrepo "github.com/krishaprecyll/CampusSHARE/repository/auth"
	userrepo "github.com/krishaprecyll/CampusSHARE/repository/user"
	"github.com/krishaprecyll/CampusSHARE/util/hash"
)

// Result is the bootstrap outcome reported to both entry points (HTTP
// endpoint and CLI).
type Result struct {
	Created bool   `json:"-"`
	Message string `json:"message"`
	Email   string `json:"email"`
	UserID  string `json:"userId,omitempty"`
}

type Service interface {
	// Run provisions the admin account once. Calling it again reports
	// "already exists". Two concurrent calls race to the identity insert;
	// the store's uniqueness constraint decides the loser, which sees a
	// duplicate error.
	Run(ctx context.Context) (*Result, error)
}

type service struct {
	ar       authrepo.Repo
	ur       userrepo.Repo
	email    string
	password string
	log      *slog.Logger
}

// New takes the admin credentials from configuration; they are injected at
// deploy time and never live in source.
func New(ar authrepo.Repo, ur userrepo.Repo, email, password string, log *slog.Logger) Service {
	return &service{ar: ar, ur: ur, email: email, password: password, log: log}
}

func (s *service) Run(ctx context.Context) (*Result, error) {
	existing, err := s.ur.ByEmail(ctx, s.email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &Result{Message: "Admin user already exists", Email: s.email}, nil
	}

	hashed, err := hash.HashPassword(s.password)
	if err != nil {
		return nil, err
	}

	ident := &model.Identity{
		ID:           uuid.NewString(),
		Email:        s.email,
		PasswordHash: hashed,
	}
	if err := s.ar.Create(ctx, ident); err != nil {
		return nil, err
	}

	admin := &model.User{
		ID:                   ident.ID,
		Email:                ident.Email,
		FullName:             "Administrator",
		UniversityID:         "ADMIN001",
		Role:                 model.RoleAdmin,
		Verified:             true,
		IDVerificationStatus: model.VerificationApproved,
	}
	if err := s.ur.Insert(ctx, admin); err != nil {
		// Same saga shape as registration: no identity without a profile.
		if cerr := s.ar.Delete(ctx, ident.ID); cerr != nil {
			s.log.Error("bootstrap compensation failed, orphaned identity",
				"identity_id", ident.ID, "err", cerr)
		}
		return nil, err
	}

	s.log.Info("admin account provisioned", "email", s.email, "user_id", ident.ID)
	return &Result{
		Created: true,
		Message: "Admin user created successfully",
		Email:   s.email,
		UserID:  ident.ID,
	}, nil
}
