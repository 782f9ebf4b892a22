package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFulfilmentPath(t *testing.T) {
	path := []string{StatusPending, StatusProcessing, StatusShipped, StatusDelivered}

	for i := 0; i+1 < len(path); i++ {
		got, err := Transition(path[i], path[i+1])
		assert.NoError(t, err)
		assert.Equal(t, path[i+1], got)
	}
}

func TestCancellation(t *testing.T) {
	cancellable := []string{StatusPending, StatusProcessing, StatusPendingPayment, StatusAddressAdded}
	for _, from := range cancellable {
		assert.True(t, CanTransition(from, StatusCancelled), "expected %s -> cancelled", from)
	}

	notCancellable := []string{StatusPaymentMade, StatusShipped, StatusDelivered, StatusCancelled}
	for _, from := range notCancellable {
		assert.False(t, CanTransition(from, StatusCancelled), "unexpected %s -> cancelled", from)
	}
}

func TestPaymentMadeReachability(t *testing.T) {
	payable := []string{StatusPending, StatusPendingPayment, StatusAddressAdded}
	for _, from := range payable {
		assert.True(t, AwaitingPayment(from), "expected %s to accept payment", from)
	}

	for _, from := range []string{StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, StatusPaymentMade} {
		assert.False(t, AwaitingPayment(from), "unexpected payment from %s", from)
	}
}

func TestInvalidTransitions(t *testing.T) {
	tests := []struct {
		from, to string
	}{
		{StatusPending, StatusShipped},
		{StatusPending, StatusDelivered},
		{StatusShipped, StatusProcessing},
		{StatusDelivered, StatusPending},
		{StatusCancelled, StatusProcessing},
	}

	for _, tt := range tests {
		_, err := Transition(tt.from, tt.to)
		assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", tt.from, tt.to)
	}
}

func TestUnknownStatus(t *testing.T) {
	_, err := Transition("pending", "refunded")
	assert.ErrorIs(t, err, ErrUnknownStatus)

	_, err = Transition("payment_completed", "processing")
	assert.ErrorIs(t, err, ErrUnknownStatus, "payment attempt statuses are not order statuses")

	assert.False(t, Known("payment_failed"))
}

func TestPreCheckoutStatuses(t *testing.T) {
	for _, status := range []string{StatusPending, StatusPendingPayment, StatusAddressAdded} {
		assert.True(t, PreCheckout(status), "expected %s to be creatable", status)
	}

	// Fulfilment and terminal statuses are only reachable via transitions.
	for _, status := range []string{StatusPaymentMade, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled, "refunded"} {
		assert.False(t, PreCheckout(status), "unexpected creatable status %s", status)
	}
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, Terminal(StatusDelivered))
	assert.True(t, Terminal(StatusCancelled))
	assert.False(t, Terminal(StatusPending))
	assert.False(t, Terminal("refunded"))
}
