package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var razorpayHTTPClient = &http.Client{Timeout: 15 * time.Second}

const razorpayBaseURL = "https://api.razorpay.com/v1"

// RazorpayService wraps the Razorpay orders API and local signature
// verification.
type RazorpayService struct {
	keyID     string
	keySecret string
	baseURL   string
}

// NewRazorpayService constructs a RazorpayService from API credentials.
func NewRazorpayService(keyID, keySecret string) *RazorpayService {
	return &RazorpayService{keyID: keyID, keySecret: keySecret, baseURL: razorpayBaseURL}
}

// Enabled reports whether gateway credentials are configured.
func (s *RazorpayService) Enabled() bool {
	return s.keyID != "" && s.keySecret != ""
}

// RazorpayOrder is the subset of the gateway order response we use.
type RazorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// CreateOrder registers an order with the gateway. The amount is in the
// currency's smallest unit (paise for INR).
func (s *RazorpayService) CreateOrder(amount int64, currency, receipt string) (*RazorpayOrder, error) {
	if !s.Enabled() {
		return nil, errors.New("razorpay is not configured")
	}

	payload, err := json.Marshal(map[string]any{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("razorpay order marshal: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("razorpay order request build: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(s.keyID, s.keySecret)

	resp, err := razorpayHTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("razorpay order request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("razorpay order failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var order RazorpayOrder
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("razorpay order unmarshal: %w", err)
	}
	if order.ID == "" {
		return nil, errors.New("razorpay order: empty order id")
	}

	return &order, nil
}

// VerifySignature checks a payment signature: HMAC-SHA256 over
// "<gatewayOrderID>|<paymentID>" with the key secret, hex encoded,
// compared against the signature the client echoed back.
func (s *RazorpayService) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	return VerifyPaymentSignature(gatewayOrderID, paymentID, signature, s.keySecret)
}

// VerifyPaymentSignature is the secret-parameterized form of
// RazorpayService.VerifySignature.
func VerifyPaymentSignature(gatewayOrderID, paymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
