package models

// Payment attempt statuses. These live on the attempt record only and
// are never auto-synced with the order status; checkout reads the
// order, reconciliation reads the attempt.
const (
	PaymentStatusCreated   = "created"
	PaymentStatusCompleted = "payment_completed"
	PaymentStatusFailed    = "payment_failed"
)

// PaymentAttempt records one gateway payment attempt against an order.
// A failed attempt is terminal; retrying means creating a new attempt
// for the same order id.
type PaymentAttempt struct {
	BaseModel
	UserEmail      string  `gorm:"index" json:"user_email"`
	OrderID        string  `gorm:"index" json:"order_id"`
	GatewayOrderID string  `gorm:"index" json:"gateway_order_id"`
	GatewayPayment string  `json:"gateway_payment_id"`
	Signature      string  `json:"-"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	Receipt        string  `json:"receipt"`
	Status         string  `gorm:"default:created" json:"status"`
	FailureReason  string  `json:"failure_reason,omitempty"`
}
