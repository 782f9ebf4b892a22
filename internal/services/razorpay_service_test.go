package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func signPayment(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaymentSignature(t *testing.T) {
	const secret = "test_key_secret"
	sig := signPayment("order_abc", "pay_123", secret)

	assert.True(t, VerifyPaymentSignature("order_abc", "pay_123", sig, secret))
}

func TestVerifyPaymentSignatureRejects(t *testing.T) {
	const secret = "test_key_secret"
	sig := signPayment("order_abc", "pay_123", secret)

	tests := []struct {
		name      string
		orderID   string
		paymentID string
		sig       string
		key       string
	}{
		{"wrong secret", "order_abc", "pay_123", sig, "other_secret"},
		{"wrong order", "order_xyz", "pay_123", sig, secret},
		{"wrong payment", "order_abc", "pay_999", sig, secret},
		{"truncated signature", "order_abc", "pay_123", sig[:16], secret},
		{"empty signature", "order_abc", "pay_123", "", secret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, VerifyPaymentSignature(tt.orderID, tt.paymentID, tt.sig, tt.key))
		})
	}
}

func TestRazorpayServiceEnabled(t *testing.T) {
	assert.False(t, NewRazorpayService("", "").Enabled())
	assert.False(t, NewRazorpayService("key", "").Enabled())
	assert.True(t, NewRazorpayService("key", "secret").Enabled())
}
