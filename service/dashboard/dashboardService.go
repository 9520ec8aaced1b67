// Package dashboard backs the admin list views. Each view is loaded with one
// ordered read and then served from an in-memory snapshot; text filtering is
// a pure function of the query and the last-fetched snapshot, so clearing a
// query restores the full list without touching the store.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/krishaprecyll/CampusSHARE/model"
)

type ErrCode string

const (
	ErrNotFound  ErrCode = "NOT_FOUND"
	ErrBadStatus ErrCode = "BAD_STATUS"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Commit reports how a mutation landed. Confirmed means the store reported
// the row changed; an unconfirmed write triggers a follow-up read and
// Reconciled says the snapshot was corrected from it.
type Commit struct {
	Confirmed  bool `json:"confirmed"`
	Reconciled bool `json:"reconciled"`
}

type UserReader interface {
	List(ctx context.Context) ([]model.User, error)
}

type ItemStore interface {
	List(ctx context.Context) ([]model.Item, error)
	Delete(ctx context.Context, id string) (int64, error)
	SetAvailable(ctx context.Context, id string, available bool) error
}

type RentalStore interface {
	ListJoined(ctx context.Context) ([]model.Rental, error)
	ByID(ctx context.Context, id string) (*model.Rental, error)
	UpdateStatus(ctx context.Context, id string, status model.RentalStatus) (int64, error)
}

type Service interface {
	// Users returns the user view filtered by query. The snapshot is loaded
	// on first use and re-read only when refresh is set.
	Users(ctx context.Context, query string, refresh bool) ([]model.User, error)
	Items(ctx context.Context, query string, refresh bool) ([]model.Item, error)
	Rentals(ctx context.Context, query string, refresh bool) ([]model.Rental, error)

	// DeleteItem removes the row remotely and drops it from the snapshot
	// only after confirmed success.
	DeleteItem(ctx context.Context, id string) error

	// SetRentalStatus updates the single status column and patches the
	// snapshot; an unconfirmed write is reconciled with a follow-up read.
	SetRentalStatus(ctx context.Context, id string, status model.RentalStatus) (Commit, error)
}

type service struct {
	users   UserReader
	items   ItemStore
	rentals RentalStore
	log     *slog.Logger

	mu            sync.RWMutex
	userRows      []model.User
	itemRows      []model.Item
	rentalRows    []model.Rental
	usersLoaded   bool
	itemsLoaded   bool
	rentalsLoaded bool
}

func New(users UserReader, items ItemStore, rentals RentalStore, log *slog.Logger) Service {
	return &service{users: users, items: items, rentals: rentals, log: log}
}

func (s *service) Users(ctx context.Context, query string, refresh bool) ([]model.User, error) {
	s.mu.RLock()
	loaded := s.usersLoaded
	s.mu.RUnlock()

	if refresh || !loaded {
		rows, err := s.users.List(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.userRows = rows
		s.usersLoaded = true
		s.mu.Unlock()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterUsers(s.userRows, query), nil
}

func (s *service) Items(ctx context.Context, query string, refresh bool) ([]model.Item, error) {
	s.mu.RLock()
	loaded := s.itemsLoaded
	s.mu.RUnlock()

	if refresh || !loaded {
		rows, err := s.items.List(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.itemRows = rows
		s.itemsLoaded = true
		s.mu.Unlock()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterItems(s.itemRows, query), nil
}

func (s *service) Rentals(ctx context.Context, query string, refresh bool) ([]model.Rental, error) {
	s.mu.RLock()
	loaded := s.rentalsLoaded
	s.mu.RUnlock()

	if refresh || !loaded {
		rows, err := s.rentals.ListJoined(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.rentalRows = rows
		s.rentalsLoaded = true
		s.mu.Unlock()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterRentals(s.rentalRows, query), nil
}

func (s *service) DeleteItem(ctx context.Context, id string) error {
	aff, err := s.items.Delete(ctx, id)
	if err != nil {
		return err
	}
	if aff == 0 {
		return makeErr(ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.itemRows {
		if it.ID == id {
			s.itemRows = append(s.itemRows[:i], s.itemRows[i+1:]...)
			break
		}
	}
	return nil
}

func (s *service) SetRentalStatus(ctx context.Context, id string, status model.RentalStatus) (Commit, error) {
	if !model.ValidRentalStatus(status) {
		return Commit{}, makeErr(ErrBadStatus)
	}

	aff, err := s.rentals.UpdateStatus(ctx, id, status)
	if err != nil {
		return Commit{}, err
	}

	if aff == 0 {
		// The store accepted the write but matched nothing; reconcile the
		// snapshot from a follow-up read instead of assuming it committed.
		return s.reconcileRental(ctx, id)
	}

	var prev model.RentalStatus
	var itemID string
	s.mu.Lock()
	for i := range s.rentalRows {
		if s.rentalRows[i].ID == id {
			prev = s.rentalRows[i].Status
			itemID = s.rentalRows[i].ItemID
			s.rentalRows[i].Status = status
			break
		}
	}
	s.mu.Unlock()

	s.syncItemAvailability(ctx, itemID, prev, status)
	return Commit{Confirmed: true}, nil
}

// syncItemAvailability flips the item's available flag when a rental moves
// to or from active. Not atomic with the status write; failures are logged.
func (s *service) syncItemAvailability(ctx context.Context, itemID string, prev, next model.RentalStatus) {
	if itemID == "" || prev == next {
		return
	}
	var err error
	switch {
	case next == model.RentalActive:
		err = s.items.SetAvailable(ctx, itemID, false)
	case prev == model.RentalActive:
		err = s.items.SetAvailable(ctx, itemID, true)
	default:
		return
	}
	if err != nil {
		s.log.Warn("item availability sync failed", "item_id", itemID, "err", err)
	}
}

func (s *service) reconcileRental(ctx context.Context, id string) (Commit, error) {
	actual, err := s.rentals.ByID(ctx, id)
	if err != nil {
		return Commit{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if actual == nil {
		for i, rt := range s.rentalRows {
			if rt.ID == id {
				s.rentalRows = append(s.rentalRows[:i], s.rentalRows[i+1:]...)
				break
			}
		}
		return Commit{Reconciled: true}, makeErr(ErrNotFound)
	}
	for i := range s.rentalRows {
		if s.rentalRows[i].ID == id {
			s.rentalRows[i] = *actual
			break
		}
	}
	return Commit{Reconciled: true}, nil
}

// Pure filters. Matching is case-insensitive substring over the same one or
// two columns the views display.

func filterUsers(rows []model.User, query string) []model.User {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.User, 0, len(rows))
	for _, u := range rows {
		if q == "" ||
			strings.Contains(strings.ToLower(u.Email), q) ||
			strings.Contains(strings.ToLower(u.FullName), q) {
			out = append(out, u)
		}
	}
	return out
}

func filterItems(rows []model.Item, query string) []model.Item {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Item, 0, len(rows))
	for _, it := range rows {
		if q == "" ||
			strings.Contains(strings.ToLower(it.Name), q) ||
			strings.Contains(strings.ToLower(it.Category), q) {
			out = append(out, it)
		}
	}
	return out
}

func filterRentals(rows []model.Rental, query string) []model.Rental {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.Rental, 0, len(rows))
	for _, rt := range rows {
		if q == "" ||
			strings.Contains(strings.ToLower(rt.ItemName), q) ||
			strings.Contains(strings.ToLower(rt.RenterName), q) {
			out = append(out, rt)
		}
	}
	return out
}
