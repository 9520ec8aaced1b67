// model/transaction.go
package model

import "time"

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction is read only for revenue aggregation; its lifecycle is owned by
// the payment flow, not this service.
type Transaction struct {
	ID        string            `json:"id"`
	Amount    float64           `json:"amount"`
	Status    TransactionStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}
