// model/item.go
package model

import "time"

type Item struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	Category           string    `json:"category"`
	ImageURL           *string   `json:"image_url,omitempty"`
	Condition          string    `json:"condition"`
	Available          bool      `json:"available"`
	RentalFee          float64   `json:"rental_fee"`
	RentalDurationDays int       `json:"rental_duration_days"`
	DepositAmount      float64   `json:"deposit_amount"`
	OwnerID            string    `json:"owner_id"`
	CreatedAt          time.Time `json:"created_at"`
}
