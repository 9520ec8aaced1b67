package adminsvc

import (
	"context"
	"errors"
	"log/slog"

	"github.com/krishaprecyll/CampusSHARE/model"
	authrepo "github.com/krishaprecyll/CampusSHARE/repository/auth"
	userrepo "github.com/krishaprecyll/CampusSHARE/repository/user"
	"github.com/krishaprecyll/CampusSHARE/service/session"
	"github.com/krishaprecyll/CampusSHARE/util/hash"
	jwtutil "github.com/krishaprecyll/CampusSHARE/util/jwt"
)

var (
	ErrInvalidCreds = errors.New("invalid credentials")
	ErrNotAdmin     = errors.New("admin access required")
)

const tokenTTLHours = 12

type Service interface {
	// Login accepts a principal only when the stored role is admin; any
	// other verified principal is forcibly signed out and rejected.
	Login(ctx context.Context, req model.LoginReq) (*model.User, string, error)
	Logout(ctx context.Context, userID string)
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
	if u == nil || u.Role != model.RoleAdmin {
		// Credentials were valid, so force the sign-out before rejecting;
		// the principal must never remain in an admin session.
		s.broker.Publish(session.Event{Kind: session.SignedOut, UserID: ident.ID})
		return nil, "", ErrNotAdmin
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
