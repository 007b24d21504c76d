package model

import "time"

// Payment statuses. Initiated rows are created before the payer is
// redirected to Khalti; the verify callback moves them to the status the
// provider reports on lookup.
const (
	PaymentInitiated = "initiated"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
	PaymentExpired   = "expired"
)

// Payment represents a row in the `payments` table. Pidx is the payment
// reference Khalti hands back on initiate and carries through the return
// redirect. Amounts are in paisa, matching the provider's unit.
type Payment struct {
	ID              uint64    `json:"id"`
	UserID          *uint64   `json:"user_id,omitempty"`
	Pidx            string    `json:"pidx"`
	AmountPaisa     uint64    `json:"amount_paisa"`
	Status          string    `json:"status"`
	PurchaseOrderID string    `json:"purchase_order_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
