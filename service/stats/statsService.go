package statssvc

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type Overview struct {
	TotalUsers    int64   `json:"total_users"`
	TotalItems    int64   `json:"total_items"`
	ActiveRentals int64   `json:"active_rentals"`
	TotalRevenue  float64 `json:"total_revenue"`
}

type UserCounter interface {
	CountAll(ctx context.Context) (int64, error)
}

type ItemCounter interface {
	CountAll(ctx context.Context) (int64, error)
}

type RentalCounter interface {
	CountActive(ctx context.Context) (int64, error)
}

type RevenueReader interface {
	SumCompleted(ctx context.Context) (float64, error)
}

type Service interface {
	Overview(ctx context.Context) (*Overview, error)
}

type service struct {
	users   UserCounter
	items   ItemCounter
	rentals RentalCounter
	tx      RevenueReader
}

func New(users UserCounter, items ItemCounter, rentals RentalCounter, tx RevenueReader) Service {
	return &service{users: users, items: items, rentals: rentals, tx: tx}
}

// Overview issues the four reads concurrently and joins on all of them.
func (s *service) Overview(ctx context.Context) (*Overview, error) {
	var out Overview
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.users.CountAll(ctx)
		out.TotalUsers = n
		return err
	})
	g.Go(func() error {
		n, err := s.items.CountAll(ctx)
		out.TotalItems = n
		return err
	})
	g.Go(func() error {
		n, err := s.rentals.CountActive(ctx)
		out.ActiveRentals = n
		return err
	})
	g.Go(func() error {
		sum, err := s.tx.SumCompleted(ctx)
		out.TotalRevenue = sum
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
