package models

// CartItem is one product line in a cart or wishlist. The two share a
// shape; only the column they live in differs. JSON tags follow the
// stored document contract, not the API column convention.
type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Type      string  `json:"type"`
	Quantity  int     `json:"quantity"`
	Color     string  `json:"color,omitempty"`
	Image     string  `json:"image,omitempty"`
}

// Order is an immutable snapshot of purchased items. Total is fixed at
// creation time and never recomputed.
type Order struct {
	ID              string                 `json:"id"`
	Date            string                 `json:"date"`
	Status          string                 `json:"status"`
	Total           float64                `json:"total"`
	Items           []CartItem             `json:"items"`
	ShippingAddress map[string]interface{} `json:"shippingAddress,omitempty"`
}

// UserPreferences holds a user's store state: wishlist, cart and order
// history as whole-document JSONB columns. Writes replace a column in
// full (last writer wins), matching the document-store origin of this
// data.
type UserPreferences struct {
	BaseModel
	UserEmail string     `gorm:"uniqueIndex" json:"user_email"`
	Wishlist  []CartItem `gorm:"serializer:json;type:jsonb" json:"wishlist"`
	Cart      []CartItem `gorm:"serializer:json;type:jsonb" json:"cart"`
	Orders    []Order    `gorm:"serializer:json;type:jsonb" json:"orders"`
}
