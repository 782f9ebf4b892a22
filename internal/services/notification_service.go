package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/smartwave/internal/models"
)

var webhookHTTPClient = &http.Client{Timeout: 10 * time.Second}

// NotificationService persists admin-to-user notifications and mirrors
// operational events to an optional admin webhook.
type NotificationService struct {
	db         *gorm.DB
	webhookURL string
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(db *gorm.DB, webhookURL string) *NotificationService {
	return &NotificationService{db: db, webhookURL: webhookURL}
}

// Notify stores a notification for one user.
func (s *NotificationService) Notify(userID uuid.UUID, senderID *uuid.UUID, title, body string) error {
	n := models.Notification{
		UserID:   userID,
		SenderID: senderID,
		Title:    title,
		Body:     body,
	}
	if err := s.db.Create(&n).Error; err != nil {
		return fmt.Errorf("notification create: %w", err)
	}
	return nil
}

// Broadcast stores a copy of the notification for every user and
// returns the number of recipients.
func (s *NotificationService) Broadcast(senderID *uuid.UUID, title, body string) (int, error) {
	var users []models.User
	if err := s.db.Select("id").Find(&users).Error; err != nil {
		return 0, fmt.Errorf("notification recipients: %w", err)
	}

	notifications := make([]models.Notification, 0, len(users))
	for _, u := range users {
		notifications = append(notifications, models.Notification{
			UserID:   u.ID,
			SenderID: senderID,
			Title:    title,
			Body:     body,
		})
	}

	if len(notifications) == 0 {
		return 0, nil
	}

	if err := s.db.Create(&notifications).Error; err != nil {
		return 0, fmt.Errorf("notification broadcast: %w", err)
	}
	return len(notifications), nil
}

// webhookEvent is the payload posted to the admin webhook.
type webhookEvent struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data"`
	At    string         `json:"at"`
}

// postWebhook delivers an event to the admin webhook. Missing
// configuration is not an error; delivery failures are logged only.
func (s *NotificationService) postWebhook(event string, data map[string]any) {
	if s.webhookURL == "" {
		return
	}

	body, err := json.Marshal(webhookEvent{
		Event: event,
		Data:  data,
		At:    time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("[Notify] webhook marshal failed: %v", err)
		return
	}

	resp, err := webhookHTTPClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Notify] webhook post failed: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[Notify] webhook returned status %d", resp.StatusCode)
	}
}

// NotifyOrderPlaced mirrors a new order to the admin webhook.
func (s *NotificationService) NotifyOrderPlaced(userEmail string, order models.Order) {
	s.postWebhook("order.placed", map[string]any{
		"order_id": order.ID,
		"user":     userEmail,
		"total":    order.Total,
		"items":    len(order.Items),
	})
}

// NotifyPaymentCaptured mirrors a verified payment to the admin webhook.
func (s *NotificationService) NotifyPaymentCaptured(userEmail, orderID string, amount float64) {
	s.postWebhook("payment.captured", map[string]any{
		"order_id": orderID,
		"user":     userEmail,
		"amount":   amount,
	})
}

// NotifyMembershipDecided mirrors a pass membership decision to the
// admin webhook.
func (s *NotificationService) NotifyMembershipDecided(membershipID uuid.UUID, status string) {
	s.postWebhook("membership.decided", map[string]any{
		"membership_id": membershipID.String(),
		"status":        status,
	})
}
