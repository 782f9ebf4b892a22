// Package orders defines the closed set of order statuses and the
// transitions between them. Payment attempts carry their own status
// (see models.PaymentAttempt); the two are reported side by side and
// never synced automatically.
package orders

import "errors"

// Order statuses. The pending_payment and address_added entries are
// pre-checkout sub-states used by the payment flow.
const (
	StatusPending        = "pending"
	StatusPendingPayment = "pending_payment"
	StatusAddressAdded   = "address_added"
	StatusPaymentMade    = "payment_made"
	StatusProcessing     = "processing"
	StatusShipped        = "shipped"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
)

// ErrInvalidTransition is returned when a requested status change is
// not in the transition table.
var ErrInvalidTransition = errors.New("invalid order status transition")

// ErrUnknownStatus is returned for statuses outside the closed set.
var ErrUnknownStatus = errors.New("unknown order status")

var transitions = map[string][]string{
	StatusPending:        {StatusProcessing, StatusPaymentMade, StatusCancelled},
	StatusPendingPayment: {StatusPaymentMade, StatusCancelled},
	StatusAddressAdded:   {StatusPaymentMade, StatusCancelled},
	StatusPaymentMade:    {StatusProcessing},
	StatusProcessing:     {StatusShipped, StatusCancelled},
	StatusShipped:        {StatusDelivered},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

// Known reports whether the status belongs to the closed set.
func Known(status string) bool {
	_, ok := transitions[status]
	return ok
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates a status change and returns the new status.
// payment_made is reserved for the payment flow: it is only reachable
// after a successful signature verification, never by an admin edit.
func Transition(from, to string) (string, error) {
	if !Known(from) || !Known(to) {
		return "", ErrUnknownStatus
	}
	if !CanTransition(from, to) {
		return "", ErrInvalidTransition
	}
	return to, nil
}

// PreCheckout reports whether the status is one an order may be
// created in: pending, or one of the payment flow's pre-checkout
// sub-states. Fulfilment and terminal statuses are only reachable
// through transitions.
func PreCheckout(status string) bool {
	switch status {
	case StatusPending, StatusPendingPayment, StatusAddressAdded:
		return true
	}
	return false
}

// AwaitingPayment reports whether an order in this status may accept a
// payment attempt.
func AwaitingPayment(status string) bool {
	return CanTransition(status, StatusPaymentMade)
}

// Terminal reports whether no further transitions exist.
func Terminal(status string) bool {
	return Known(status) && len(transitions[status]) == 0
}
