// Package queue carries payment events between the verify endpoint and
// the background consumer over RabbitMQ.
package queue

// PaymentCompletedQueue is the durable queue payment events travel on.
const PaymentCompletedQueue = "payment.completed"

// PaymentCompletedEvent is published after the Khalti lookup reports a
// payment as completed. It is informational: the payment row is already
// updated before the event goes out, so a lost event never loses money.
type PaymentCompletedEvent struct {
	PaymentID       uint64 `json:"payment_id"`
	UserID          uint64 `json:"user_id,omitempty"`
	Pidx            string `json:"pidx"`
	PurchaseOrderID string `json:"purchase_order_id"`
	AmountPaisa     uint64 `json:"amount_paisa"`
	CompletedAt     string `json:"completed_at"`
}
