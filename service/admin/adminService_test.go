package adminsvc_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/krishaprecyll/CampusSHARE/model"
	adminsvc "github.com/krishaprecyll/CampusSHARE/service/admin"
	"github.com/krishaprecyll/CampusSHARE/service/session"
	"github.com/krishaprecyll/CampusSHARE/util/hash"
)

type identMock struct {
	byEmailFn func(ctx context.Context, email string) (*model.Identity, error)
}

func (m *identMock) Create(ctx context.Context, ident *model.Identity) error { return nil }
func (m *identMock) Delete(ctx context.Context, id string) error             { return nil }
func (m *identMock) ByEmail(ctx context.Context, email string) (*model.Identity, error) {
	if m.byEmailFn == nil {
		return nil, nil
	}
	return m.byEmailFn(ctx, email)
}

type profileMock struct {
	byIDFn func(ctx context.Context, id string) (*model.User, error)
}

func (m *profileMock) Insert(ctx context.Context, u *model.User) error { return nil }
func (m *profileMock) ByID(ctx context.Context, id string) (*model.User, error) {
	if m.byIDFn == nil {
		return nil, nil
	}
	return m.byIDFn(ctx, id)
}
func (m *profileMock) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}
func (m *profileMock) List(ctx context.Context) ([]model.User, error) { return nil, nil }
func (m *profileMock) UpdatePartial(ctx context.Context, id string, req model.ProfileUpdateReq) error {
	return nil
}
func (m *profileMock) CountAll(ctx context.Context) (int64, error) { return 0, nil }

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func identWithPassword(t *testing.T, id, pw string) *identMock {
	t.Helper()
	hashed, err := hash.HashPassword(pw)
	require.NoError(t, err)
	return &identMock{
		byEmailFn: func(ctx context.Context, email string) (*model.Identity, error) {
			return &model.Identity{ID: id, Email: email, PasswordHash: hashed}, nil
		},
	}
}

func TestLogin_Admin(t *testing.T) {
	ctx := context.Background()
	broker := session.NewBroker()

	im := identWithPassword(t, "a-1", "hunter22")
	pm := &profileMock{
		byIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Email: "ops@campus.edu", Role: model.RoleAdmin}, nil
		},
	}
	svc := adminsvc.New(im, pm, broker, "test-secret", discard())

	u, tok, err := svc.Login(ctx, model.LoginReq{Email: "ops@campus.edu", Password: "hunter22"})
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	require.Equal(t, model.RoleAdmin, u.Role)
}

// A principal whose stored role is not admin must be rejected and forcibly
// signed out, even with valid credentials.
func TestLogin_RoleGate(t *testing.T) {
	ctx := context.Background()
	broker := session.NewBroker()
	events, cancel := broker.Subscribe()
	defer cancel()

	im := identWithPassword(t, "s-9", "hunter22")
	pm := &profileMock{
		byIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Role: model.RoleStudent}, nil
		},
	}
	svc := adminsvc.New(im, pm, broker, "test-secret", discard())

	u, tok, err := svc.Login(ctx, model.LoginReq{Email: "student@campus.edu", Password: "hunter22"})
	require.ErrorIs(t, err, adminsvc.ErrNotAdmin)
	require.Nil(t, u)
	require.Empty(t, tok)

	select {
	case ev := <-events:
		require.Equal(t, session.SignedOut, ev.Kind)
		require.Equal(t, "s-9", ev.UserID)
	default:
		t.Fatal("expected a forced sign-out event")
	}
}

func TestLogin_MissingProfile(t *testing.T) {
	ctx := context.Background()
	im := identWithPassword(t, "ghost", "hunter22")
	svc := adminsvc.New(im, &profileMock{}, session.NewBroker(), "test-secret", discard())

	_, _, err := svc.Login(ctx, model.LoginReq{Email: "ghost@campus.edu", Password: "hunter22"})
	require.ErrorIs(t, err, adminsvc.ErrNotAdmin)
}

func TestLogin_BadPassword(t *testing.T) {
	ctx := context.Background()
	im := identWithPassword(t, "a-1", "hunter22")
	svc := adminsvc.New(im, &profileMock{}, session.NewBroker(), "test-secret", discard())

	_, _, err := svc.Login(ctx, model.LoginReq{Email: "ops@campus.edu", Password: "nope"})
	require.ErrorIs(t, err, adminsvc.ErrInvalidCreds)
}
