package admin

type SetRentalStatusReq struct {
	Status string `json:"status" validate:"required,rental_status"`
}
