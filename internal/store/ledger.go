// Package store implements the cart and wishlist ledger: quantity-merge
// adds, idempotent removes, and the cart-to-order checkout step. All
// operations are copy-on-write over the stored item slices; persistence
// belongs to the caller.
package store

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/example/smartwave/internal/models"
)

// ErrEmptyCart is returned by Checkout when there is nothing to buy.
var ErrEmptyCart = errors.New("cart is empty")

// sameLine reports whether two items are the same product line. Color
// participates in identity only when the incoming item carries one.
func sameLine(existing, item models.CartItem) bool {
	if item.Color != "" {
		return existing.ProductID == item.ProductID && existing.Color == item.Color
	}
	return existing.ProductID == item.ProductID
}

// AddItem merges an item into the cart. An existing line for the same
// product gains the item's quantity; otherwise the item is appended.
// A missing or non-positive quantity counts as 1.
func AddItem(cart []models.CartItem, item models.CartItem) []models.CartItem {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	next := make([]models.CartItem, len(cart))
	copy(next, cart)

	for i := range next {
		if sameLine(next[i], item) {
			next[i].Quantity += item.Quantity
			return next
		}
	}

	return append(next, item)
}

// RemoveItem drops every line matching the product id. Removing an
// absent product is not an error.
func RemoveItem(cart []models.CartItem, productID string) []models.CartItem {
	next := make([]models.CartItem, 0, len(cart))
	for _, it := range cart {
		if it.ProductID != productID {
			next = append(next, it)
		}
	}
	return next
}

// UpdateQuantity overwrites the quantity at index. Quantities below 1
// and out-of-range indexes leave the cart untouched.
func UpdateQuantity(cart []models.CartItem, index, quantity int) []models.CartItem {
	if quantity < 1 || index < 0 || index >= len(cart) {
		return cart
	}

	next := make([]models.CartItem, len(cart))
	copy(next, cart)
	next[index].Quantity = quantity
	return next
}

// removeLine drops the line matching the item's full identity
// (product id plus color when set).
func removeLine(items []models.CartItem, item models.CartItem) []models.CartItem {
	next := make([]models.CartItem, 0, len(items))
	for _, it := range items {
		if !sameLine(it, item) {
			next = append(next, it)
		}
	}
	return next
}

// MoveWishlistItemToCart merges a wishlist item into the cart and drops
// it from the wishlist. Callers must persist the cart before the
// wishlist so a failed cart write never loses the wishlist entry.
func MoveWishlistItemToCart(wishlist, cart []models.CartItem, item models.CartItem) (newWishlist, newCart []models.CartItem) {
	return removeLine(wishlist, item), AddItem(cart, item)
}

// Total sums price times quantity over the items, rounded to cents.
func Total(items []models.CartItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return math.Round(total*100) / 100
}

// NewOrderID builds an order id from the current time: "ORD-" plus the
// unix-millisecond timestamp in base36.
func NewOrderID() string {
	return "ORD-" + strconv.FormatInt(time.Now().UnixMilli(), 36)
}

// Checkout turns a cart into a pending order. The total is fixed here
// and never recomputed. shippingJSON may carry a shipping address;
// malformed JSON is ignored rather than rejected. The caller clears the
// cart and appends the order in a single preferences update.
func Checkout(cart []models.CartItem, shippingJSON []byte) (models.Order, error) {
	if len(cart) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	items := make([]models.CartItem, len(cart))
	copy(items, cart)

	order := models.Order{
		ID:     NewOrderID(),
		Date:   time.Now().UTC().Format(time.RFC3339),
		Status: "pending",
		Total:  Total(items),
		Items:  items,
	}

	if len(shippingJSON) > 0 {
		var addr map[string]interface{}
		if err := json.Unmarshal(shippingJSON, &addr); err == nil {
			order.ShippingAddress = addr
		}
	}

	return order, nil
}
