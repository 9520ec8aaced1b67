package authsvc

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/krishaprecyll/CampusSHARE/model"
	authrepo "github.com/krishaprecyll/CampusSHARE/repository/auth"
	userrepo "github.com/krishaprecyll/CampusSHARE/repository/user"
	"github.com/krishaprecyll/CampusSHARE/service/session"
	"github.com/krishaprecyll/CampusSHARE/util/hash"
	jwtutil "github.com/krishaprecyll/CampusSHARE/util/jwt"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrBadInput     = errors.New("bad input")
	ErrInvalidCreds = errors.New("invalid credentials")
	ErrNoSession    = errors.New("no active session")
)

const tokenTTLHours = 24

type Service interface {
	// Register runs the two-step account saga: create the auth identity,
	// then insert the profile row. A failed profile insert is compensated
	// by deleting the identity.
	Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error)
	Login(ctx context.Context, req model.LoginReq) (*model.User, string, error)
	// Logout is fire-and-forget: it only broadcasts the sign-out event.
	Logout(ctx context.Context, userID string)
	Profile(ctx context.Context, userID string) (*model.User, error)
	// UpdateProfile merges the supplied fields and re-fetches to resync.
	UpdateProfile(ctx context.Context, userID string, req model.ProfileUpdateReq) (*model.User, error)
}

type service struct {
	ar     authrepo.Repo
	ur     userrepo.Repo
	broker *session.Broker
	secret string
	log    *slog.Logger
}

func New(ar authrepo.Repo, ur userrepo.Repo, broker *session.Broker, secret string, log *slog.Logger) Service {
	return &service{ar: ar, ur: ur, broker: broker, secret: secret, log: log}
}

func (s *service) Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error) {
	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	ident := &model.Identity{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hashed,
	}
	if err := s.ar.Create(ctx, ident); err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			return nil, "", derr
		}
		return nil, "", err
	}

	u := &model.User{
		ID:                    ident.ID,
		Email:                 ident.Email,
		FullName:              req.FullName,
		UniversityID:          req.UniversityID,
		Phone:                 optional(req.Phone),
		Address:               optional(req.Address),
		CampusBuilding:        optional(req.CampusBuilding),
		EmergencyContactName:  optional(req.EmergencyContactName),
		EmergencyContactPhone: optional(req.EmergencyContactPhone),
		Role:                  model.RoleStudent,
		Verified:              false,
		IDVerificationStatus:  model.VerificationPending,
	}
	if err := s.ur.Insert(ctx, u); err != nil {
		// Compensate: remove the identity so no orphan is left behind. If
		// the compensation itself fails we can only log the orphan.
		if cerr := s.ar.Delete(ctx, ident.ID); cerr != nil {
			s.log.Error("register compensation failed, orphaned identity",
				"identity_id", ident.ID, "err", cerr)
		}
		if derr := mapDuplicateErr(err); derr != nil {
			return nil, "", derr
		}
		return nil, "", err
	}

	token, err := jwtutil.Issue(s.secret, u.ID, string(u.Role), tokenTTLHours)
	if err != nil {
		return nil, "", err
	}
	s.broker.Publish(session.Event{Kind: session.SignedIn, UserID: u.ID})

	// Re-fetch so the caller sees the stored row, defaults included.
	if stored, err := s.ur.ByID(ctx, u.ID); err == nil && stored != nil {
		u = stored
	}
	return u, token, nil
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.User, string, error) {
	ident, err := s.ar.ByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", err
	}
	if ident == nil || !hash.Check(ident.PasswordHash, req.Password) {
		return nil, "", ErrInvalidCreds
	}

	u, err := s.ur.ByID(ctx, ident.ID)
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		// Orphaned identity with no profile: a known gap of the two-step
		// registration. Treat as bad credentials rather than half a session.
		s.log.Warn("identity without profile", "identity_id", ident.ID)
		return nil, "", ErrInvalidCreds
	}

	token, err := jwtutil.Issue(s.secret, u.ID, string(u.Role), tokenTTLHours)
	if err != nil {
		return nil, "", err
	}
	s.broker.Publish(session.Event{Kind: session.SignedIn, UserID: u.ID})
	return u, token, nil
}

func (s *service) Logout(ctx context.Context, userID string) {
	s.broker.Publish(session.Event{Kind: session.SignedOut, UserID: userID})
}

func (s *service) Profile(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.ur.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNoSession
	}
	return u, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req model.ProfileUpdateReq) (*model.User, error) {
	cur, err := s.ur.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, ErrNoSession
	}

	if err := s.ur.UpdatePartial(ctx, userID, req); err != nil {
		return nil, err
	}

	// Broadcast so cached session state re-reads the row.
	s.broker.Publish(session.Event{Kind: session.SignedIn, UserID: userID})

	u, err := s.ur.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNoSession
	}
	return u, nil
}

func optional(v string) *string {
	if v = strings.TrimSpace(v); v == "" {
		return nil
	}
	return &v
}

func mapDuplicateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		cn := strings.ToLower(pgErr.ConstraintName)
		msg := strings.ToLower(pgErr.Message)

		if strings.Contains(cn, "email") || strings.Contains(msg, "email") {
			return ErrEmailTaken
		}
		return ErrBadInput
	}
	return nil
}
