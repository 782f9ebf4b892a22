package models

import (
	"time"

	"github.com/google/uuid"
)

// Membership statuses. A membership starts pending and is decided
// exactly once.
const (
	MembershipPending  = "pending"
	MembershipApproved = "approved"
	MembershipRejected = "rejected"
)

// Pass is an access or event credential owned by exactly one admin.
type Pass struct {
	BaseModel
	AdminID     uuid.UUID  `gorm:"type:uuid;index" json:"admin_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Venue       string     `json:"venue"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
}

// PassMembership is a user's join request against a pass.
type PassMembership struct {
	BaseModel
	PassID    uuid.UUID  `gorm:"type:uuid;index:idx_pass_user,unique" json:"pass_id"`
	UserID    uuid.UUID  `gorm:"type:uuid;index:idx_pass_user,unique" json:"user_id"`
	Pass      *Pass      `json:"pass,omitempty"`
	User      *User      `json:"user,omitempty"`
	Status    string     `gorm:"default:pending" json:"status"`
	DecidedAt *time.Time `json:"decided_at"`
	DecidedBy *uuid.UUID `gorm:"type:uuid" json:"decided_by"`
}
