// model/rental.go
package model

import "time"

type RentalStatus string

const (
	RentalPending   RentalStatus = "pending"
	RentalActive    RentalStatus = "active"
	RentalCompleted RentalStatus = "completed"
	RentalCancelled RentalStatus = "cancelled"
)

// ValidRentalStatus reports whether s is one of the known statuses. Operators
// may move a rental between any two of them; there is no transition graph.
func ValidRentalStatus(s RentalStatus) bool {
	switch s {
	case RentalPending, RentalActive, RentalCompleted, RentalCancelled:
		return true
	}
	return false
}

type Rental struct {
	ID        string       `json:"id"`
	ItemID    string       `json:"item_id"`
	RenterID  string       `json:"renter_id"`
	Status    RentalStatus `json:"status"`
	StartDate time.Time    `json:"start_date"`
	EndDate   time.Time    `json:"end_date"`
	CreatedAt time.Time    `json:"created_at"`

	// Joined columns for the dashboard listing.
	ItemName   string `json:"item_name,omitempty"`
	RenterName string `json:"renter_name,omitempty"`
}
