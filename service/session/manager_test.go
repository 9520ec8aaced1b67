package session

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/krishaprecyll/CampusSHARE/model"
)

type profilesMock struct {
	byIDFn func(ctx context.Context, id string) (*model.User, error)
	calls  atomic.Int32
}

func (m *profilesMock) ByID(ctx context.Context, id string) (*model.User, error) {
	m.calls.Add(1)
	if m.byIDFn == nil {
		return nil, nil
	}
	return m.byIDFn(ctx, id)
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func student(id string) *model.User {
	return &model.User{ID: id, Email: id + "@campus.edu", Role: model.RoleStudent}
}

func TestResolve_BeforeInit(t *testing.T) {
	m := NewManager(&profilesMock{}, NewBroker(), discard())
	if _, err := m.Resolve(context.Background(), "u-1"); err != ErrNotReady {
		t.Fatalf("got %v, want ErrNotReady", err)
	}
}

func TestResolve_CachesPrincipal(t *testing.T) {
	ctx := context.Background()
	pm := &profilesMock{
		byIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return student(id), nil
		},
	}
	m := NewManager(pm, NewBroker(), discard())
	m.Init(ctx)
	defer m.Close()

	for i := 0; i < 3; i++ {
		u, err := m.Resolve(ctx, "u-1")
		if err != nil {
			t.Fatal(err)
		}
		if u.ID != "u-1" {
			t.Fatalf("resolved wrong principal: %s", u.ID)
		}
	}
	if n := pm.calls.Load(); n != 1 {
		t.Fatalf("profile fetched %d times, want 1 (cached)", n)
	}
}

func TestResolve_UnknownSubject(t *testing.T) {
	ctx := context.Background()
	m := NewManager(&profilesMock{}, NewBroker(), discard())
	m.Init(ctx)
	defer m.Close()

	if _, err := m.Resolve(ctx, "ghost"); err != ErrUnauthenticated {
		t.Fatalf("got %v, want ErrUnauthenticated", err)
	}
}

// The role gate checks the stored role, not the token claim, and a failed
// gate both evicts and announces the sign-out.
func TestResolve_RoleGate(t *testing.T) {
	ctx := context.Background()
	broker := NewBroker()
	events, cancel := broker.Subscribe()
	defer cancel()

	pm := &profilesMock{
		byIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return student(id), nil
		},
	}
	m := NewManager(pm, broker, discard()).RequireRole(model.RoleAdmin)
	m.Init(ctx)
	defer m.Close()

	if _, err := m.Resolve(ctx, "u-1"); err != ErrForbidden {
		t.Fatalf("got %v, want ErrForbidden", err)
	}

	select {
	case ev := <-events:
		if ev.Kind != SignedOut || ev.UserID != "u-1" {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("expected a forced sign-out event")
	}
}

func TestSignedOutEvent_EvictsCache(t *testing.T) {
	ctx := context.Background()
	broker := NewBroker()
	pm := &profilesMock{
		byIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return student(id), nil
		},
	}
	m := NewManager(pm, broker, discard())
	m.Init(ctx)
	defer m.Close()

	if _, err := m.Resolve(ctx, "u-1"); err != nil {
		t.Fatal(err)
	}
	broker.Publish(Event{Kind: SignedOut, UserID: "u-1"})

	// The watch loop is async; wait for the eviction to land.
	deadline := time.Now().Add(2 * time.Second)
	for {
		before := pm.calls.Load()
		if _, err := m.Resolve(ctx, "u-1"); err != nil {
			t.Fatal(err)
		}
		if pm.calls.Load() > before {
			return // re-fetch observed, cache was evicted
		}
		if time.Now().After(deadline) {
			t.Fatal("sign-out event never evicted the cached principal")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSignedInEvent_RechecksRole(t *testing.T) {
	ctx := context.Background()
	broker := NewBroker()
	pm := &profilesMock{
		byIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return student(id), nil
		},
	}
	m := NewManager(pm, broker, discard()).RequireRole(model.RoleAdmin)
	m.Init(ctx)
	defer m.Close()

	broker.Publish(Event{Kind: SignedIn, UserID: "u-1"})

	deadline := time.Now().Add(2 * time.Second)
	for pm.calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("sign-in event never triggered a profile re-check")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Non-admin stays out of the cache, so resolving hits the gate again.
	if _, err := m.Resolve(ctx, "u-1"); err != ErrForbidden {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestClose_DropsReadiness(t *testing.T) {
	ctx := context.Background()
	m := NewManager(&profilesMock{}, NewBroker(), discard())
	m.Init(ctx)
	m.Close()

	if _, err := m.Resolve(ctx, "u-1"); err != ErrNotReady {
		t.Fatalf("got %v, want ErrNotReady after Close", err)
	}
}
