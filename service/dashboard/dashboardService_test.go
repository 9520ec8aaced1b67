// service/dashboard/dashboard_service_test.go
package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/krishaprecyll/CampusSHARE/model"
)

type userReaderMock struct {
	listFn func(ctx context.Context) ([]model.User, error)
	calls  int
}

func (m *userReaderMock) List(ctx context.Context) ([]model.User, error) {
	m.calls++
	return m.listFn(ctx)
}

type itemStoreMock struct {
	listFn    func(ctx context.Context) ([]model.Item, error)
	deleteFn  func(ctx context.Context, id string) (int64, error)
	setFn     func(ctx context.Context, id string, available bool) error
	listCalls int
}

func (m *itemStoreMock) List(ctx context.Context) ([]model.Item, error) {
	m.listCalls++
	return m.listFn(ctx)
}
func (m *itemStoreMock) Delete(ctx context.Context, id string) (int64, error) {
	if m.deleteFn == nil {
		return 1, nil
	}
	return m.deleteFn(ctx, id)
}
func (m *itemStoreMock) SetAvailable(ctx context.Context, id string, available bool) error {
	if m.setFn == nil {
		return nil
	}
	return m.setFn(ctx, id, available)
}

type rentalStoreMock struct {
	listFn    func(ctx context.Context) ([]model.Rental, error)
	byIDFn    func(ctx context.Context, id string) (*model.Rental, error)
	updateFn  func(ctx context.Context, id string, status model.RentalStatus) (int64, error)
	listCalls int
}

func (m *rentalStoreMock) ListJoined(ctx context.Context) ([]model.Rental, error) {
	m.listCalls++
	return m.listFn(ctx)
}
func (m *rentalStoreMock) ByID(ctx context.Context, id string) (*model.Rental, error) {
	if m.byIDFn == nil {
		return nil, nil
	}
	return m.byIDFn(ctx, id)
}
func (m *rentalStoreMock) UpdateStatus(ctx context.Context, id string, status model.RentalStatus) (int64, error) {
	if m.updateFn == nil {
		return 1, nil
	}
	return m.updateFn(ctx, id, status)
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newService(um *userReaderMock, im *itemStoreMock, rm *rentalStoreMock) Service {
	if um == nil {
		um = &userReaderMock{listFn: func(ctx context.Context) ([]model.User, error) { return nil, nil }}
	}
	if im == nil {
		im = &itemStoreMock{listFn: func(ctx context.Context) ([]model.Item, error) { return nil, nil }}
	}
	if rm == nil {
		rm = &rentalStoreMock{listFn: func(ctx context.Context) ([]model.Rental, error) { return nil, nil }}
	}
	return New(um, im, rm, discard())
}

func TestUsers_FilterIsPureAndCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	um := &userReaderMock{
		listFn: func(ctx context.Context) ([]model.User, error) {
			return []model.User{
				{ID: "1", Email: "ana@campus.edu", FullName: "Ana Reyes"},
				{ID: "2", Email: "ben@campus.edu", FullName: "Ben Santos"},
			}, nil
		},
	}
	svc := newService(um, nil, nil)

	all, err := svc.Users(ctx, "", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d users, want 2", len(all))
	}

	got, err := svc.Users(ctx, "ANA", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("case-insensitive filter failed: %+v", got)
	}

	// Clearing the query restores the full list with no re-fetch.
	cleared, err := svc.Users(ctx, "", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(cleared) != 2 {
		t.Fatalf("cleared query: got %d users, want 2", len(cleared))
	}
	if um.calls != 1 {
		t.Fatalf("snapshot refetched %d times, want 1", um.calls)
	}
}

func TestUsers_RefreshRefetches(t *testing.T) {
	ctx := context.Background()
	um := &userReaderMock{
		listFn: func(ctx context.Context) ([]model.User, error) { return nil, nil },
	}
	svc := newService(um, nil, nil)

	if _, err := svc.Users(ctx, "", false); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Users(ctx, "", true); err != nil {
		t.Fatal(err)
	}
	if um.calls != 2 {
		t.Fatalf("got %d fetches, want 2", um.calls)
	}
}

func TestSetRentalStatus_PatchesOnlyTargetRow(t *testing.T) {
	ctx := context.Background()
	im := &itemStoreMock{
		listFn: func(ctx context.Context) ([]model.Item, error) {
			return []model.Item{
				{ID: "i1", Name: "Projector", Available: true},
				{ID: "i2", Name: "Tripod", Available: true},
			}, nil
		},
	}
	rm := &rentalStoreMock{
		listFn: func(ctx context.Context) ([]model.Rental, error) {
			return []model.Rental{
				{ID: "r1", ItemID: "i1", Status: model.RentalPending, ItemName: "Projector", RenterName: "Ana Reyes"},
				{ID: "r2", ItemID: "i2", Status: model.RentalPending, ItemName: "Tripod", RenterName: "Ben Santos"},
			}, nil
		},
	}
	svc := newService(nil, im, rm)

	if _, err := svc.Rentals(ctx, "", false); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Items(ctx, "", false); err != nil {
		t.Fatal(err)
	}

	commit, err := svc.SetRentalStatus(ctx, "r1", model.RentalActive)
	if err != nil {
		t.Fatal(err)
	}
	if !commit.Confirmed {
		t.Fatal("expected confirmed commit")
	}

	rows, err := svc.Rentals(ctx, "", false)
	if err != nil {
		t.Fatal(err)
	}
	if rm.listCalls != 1 {
		t.Fatalf("status change must not reload the snapshot, got %d fetches", rm.listCalls)
	}
	for _, r := range rows {
		switch r.ID {
		case "r1":
			if r.Status != model.RentalActive {
				t.Fatalf("r1 status = %s, want active", r.Status)
			}
		case "r2":
			if r.Status != model.RentalPending {
				t.Fatalf("r2 status = %s, want pending (untouched)", r.Status)
			}
		}
	}

	// Deleting an unrelated item must not alter r1's displayed status.
	if err := svc.DeleteItem(ctx, "i2"); err != nil {
		t.Fatal(err)
	}
	rows, _ = svc.Rentals(ctx, "", false)
	for _, r := range rows {
		if r.ID == "r1" && r.Status != model.RentalActive {
			t.Fatalf("r1 status changed to %s after unrelated delete", r.Status)
		}
	}
}

func TestSetRentalStatus_UnknownStatus(t *testing.T) {
	svc := newService(nil, nil, nil)
	_, err := svc.SetRentalStatus(context.Background(), "r1", model.RentalStatus("shredded"))
	if Code(err) != ErrBadStatus {
		t.Fatalf("got %v, want BAD_STATUS", err)
	}
}

func TestSetRentalStatus_UnconfirmedWriteReconciles(t *testing.T) {
	ctx := context.Background()
	rm := &rentalStoreMock{
		listFn: func(ctx context.Context) ([]model.Rental, error) {
			return []model.Rental{{ID: "r1", Status: model.RentalPending}}, nil
		},
		updateFn: func(ctx context.Context, id string, status model.RentalStatus) (int64, error) {
			return 0, nil // write "succeeds" but matches nothing
		},
		byIDFn: func(ctx context.Context, id string) (*model.Rental, error) {
			return nil, nil // row is gone
		},
	}
	svc := newService(nil, nil, rm)

	if _, err := svc.Rentals(ctx, "", false); err != nil {
		t.Fatal(err)
	}

	commit, err := svc.SetRentalStatus(ctx, "r1", model.RentalActive)
	if Code(err) != ErrNotFound {
		t.Fatalf("got %v, want NOT_FOUND", err)
	}
	if commit.Confirmed || !commit.Reconciled {
		t.Fatalf("commit = %+v, want reconciled and unconfirmed", commit)
	}

	rows, _ := svc.Rentals(ctx, "", false)
	if len(rows) != 0 {
		t.Fatalf("vanished row still in snapshot: %+v", rows)
	}
}

func TestDeleteItem_RemovesFromSnapshotOnlyOnSuccess(t *testing.T) {
	ctx := context.Background()
	im := &itemStoreMock{
		listFn: func(ctx context.Context) ([]model.Item, error) {
			return []model.Item{{ID: "i1", Name: "Projector"}}, nil
		},
		deleteFn: func(ctx context.Context, id string) (int64, error) {
			return 0, errors.New("connection reset")
		},
	}
	svc := newService(nil, im, nil)

	if _, err := svc.Items(ctx, "", false); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteItem(ctx, "i1"); err == nil {
		t.Fatal("expected delete error")
	}

	rows, _ := svc.Items(ctx, "", false)
	if len(rows) != 1 {
		t.Fatal("failed delete must leave the snapshot untouched")
	}
}

func TestRentals_FilterMatchesItemOrRenter(t *testing.T) {
	ctx := context.Background()
	rm := &rentalStoreMock{
		listFn: func(ctx context.Context) ([]model.Rental, error) {
			return []model.Rental{
				{ID: "r1", ItemName: "Projector", RenterName: "Ana Reyes"},
				{ID: "r2", ItemName: "Tripod", RenterName: "Ben Santos"},
			}, nil
		},
	}
	svc := newService(nil, nil, rm)

	got, err := svc.Rentals(ctx, "santos", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "r2" {
		t.Fatalf("renter-name filter failed: %+v", got)
	}

	got, _ = svc.Rentals(ctx, "proj", false)
	if len(got) != 1 || got[0].ID != "r1" {
		t.Fatalf("item-name filter failed: %+v", got)
	}
}
