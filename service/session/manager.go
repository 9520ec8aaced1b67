// Package session resolves authenticated principals for request handling.
//
// A Manager is constructed, optionally given a role gate, and then Init'd;
// resolving before Init is an error. Every resolve re-reads the stored role
// server-side: the token's role claim is never trusted on its own.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/krishaprecyll/CampusSHARE/model"
)

var (
	ErrNotReady        = errors.New("session manager not initialized")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// Profiles is the slice of the user repository the manager needs.
type Profiles interface {
	ByID(ctx context.Context, id string) (*model.User, error)
}

type Manager struct {
	profiles    Profiles
	broker      *Broker
	log         *slog.Logger
	requireRole model.Role

	mu    sync.RWMutex
	ready bool
	cache map[string]*model.User
	unsub func()
}

func NewManager(profiles Profiles, broker *Broker, log *slog.Logger) *Manager {
	return &Manager{
		profiles: profiles,
		broker:   broker,
		log:      log,
		cache:    make(map[string]*model.User),
	}
}

// RequireRole gates every resolve on the stored role. Must be called before
// Init.
func (m *Manager) RequireRole(role model.Role) *Manager {
	m.requireRole = role
	return m
}

// Init subscribes to auth events and marks the manager ready. The event loop
// runs until Close; a failed profile re-check on SIGNED_IN downgrades the
// principal silently (logged only).
func (m *Manager) Init(ctx context.Context) {
	m.mu.Lock()
	if m.ready {
		m.mu.Unlock()
		return
	}
	ch, cancel := m.broker.Subscribe()
	m.unsub = cancel
	m.ready = true
	m.mu.Unlock()

	go m.watch(ctx, ch)
}

func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unsub != nil {
		m.unsub()
		m.unsub = nil
	}
	m.ready = false
	m.cache = make(map[string]*model.User)
}

func (m *Manager) watch(ctx context.Context, ch <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			switch ev.Kind {
			case SignedOut:
				m.evict(ev.UserID)
			case SignedIn:
				// Repeat the role check against the store; a stale or
				// non-conforming principal must not stay cached.
				u, err := m.profiles.ByID(ctx, ev.UserID)
				if err != nil {
					m.log.Warn("session recheck failed", "user_id", ev.UserID, "err", err)
					m.evict(ev.UserID)
					continue
				}
				if u == nil || !m.roleOK(u) {
					m.evict(ev.UserID)
					continue
				}
				m.store(u)
			}
		}
	}
}

// Resolve maps a verified token subject to its principal, enforcing the role
// gate. A failed gate evicts the cached principal and publishes a sign-out.
func (m *Manager) Resolve(ctx context.Context, userID string) (*model.User, error) {
	m.mu.RLock()
	if !m.ready {
		m.mu.RUnlock()
		return nil, ErrNotReady
	}
	cached := m.cache[userID]
	m.mu.RUnlock()

	u := cached
	if u == nil {
		var err error
		u, err = m.profiles.ByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, ErrUnauthenticated
		}
	}

	if !m.roleOK(u) {
		m.evict(userID)
		m.broker.Publish(Event{Kind: SignedOut, UserID: userID})
		return nil, ErrForbidden
	}

	if cached == nil {
		m.store(u)
	}
	return u, nil
}

func (m *Manager) roleOK(u *model.User) bool {
	return m.requireRole == "" || u.Role == m.requireRole
}

func (m *Manager) store(u *model.User) {
	m.mu.Lock()
	m.cache[u.ID] = u
	m.mu.Unlock()
}

func (m *Manager) evict(userID string) {
	m.mu.Lock()
	delete(m.cache, userID)
	m.mu.Unlock()
}
