package models

import "github.com/lib/pq"

// Product is a purchasable card product in the store.
type Product struct {
	BaseModel
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Type        string         `json:"type"`
	Colors      pq.StringArray `gorm:"type:text[]" json:"colors"`
	Image       string         `json:"image"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
}
