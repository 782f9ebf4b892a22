package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/smartwave/internal/models"
)

func item(id string, price float64, qty int) models.CartItem {
	return models.CartItem{ProductID: id, Name: "card " + id, Price: price, Type: "physical", Quantity: qty}
}

func TestAddItemNewProduct(t *testing.T) {
	cart := []models.CartItem{item("p1", 10, 2)}

	next := AddItem(cart, item("p2", 25, 3))

	require.Len(t, next, 2)
	assert.Equal(t, 3, next[1].Quantity)
	assert.Len(t, cart, 1, "input cart must not be mutated")
}

func TestAddItemMergesQuantity(t *testing.T) {
	cart := []models.CartItem{item("p1", 10, 2)}

	next := AddItem(cart, item("p1", 10, 3))

	require.Len(t, next, 1)
	assert.Equal(t, 5, next[0].Quantity)
	assert.Equal(t, 2, cart[0].Quantity, "input cart must not be mutated")
}

func TestAddItemDefaultsQuantityToOne(t *testing.T) {
	next := AddItem(nil, item("p1", 10, 0))
	require.Len(t, next, 1)
	assert.Equal(t, 1, next[0].Quantity)

	next = AddItem(next, item("p1", 10, -4))
	require.Len(t, next, 1)
	assert.Equal(t, 2, next[0].Quantity)
}

func TestAddItemColorIsPartOfIdentity(t *testing.T) {
	black := item("p1", 10, 1)
	black.Color = "black"
	silver := item("p1", 10, 1)
	silver.Color = "silver"

	cart := AddItem(nil, black)
	cart = AddItem(cart, silver)
	require.Len(t, cart, 2)

	cart = AddItem(cart, black)
	require.Len(t, cart, 2)
	assert.Equal(t, 2, cart[0].Quantity)
	assert.Equal(t, 1, cart[1].Quantity)
}

func TestAddItemWithoutColorMatchesByProductOnly(t *testing.T) {
	black := item("p1", 10, 1)
	black.Color = "black"

	cart := AddItem(nil, black)
	cart = AddItem(cart, item("p1", 10, 2))

	require.Len(t, cart, 1)
	assert.Equal(t, 3, cart[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	cart := []models.CartItem{item("p1", 10, 1), item("p2", 20, 1)}

	next := RemoveItem(cart, "p1")
	require.Len(t, next, 1)
	assert.Equal(t, "p2", next[0].ProductID)

	// Idempotent: removing an absent product changes nothing.
	next = RemoveItem(next, "p1")
	assert.Len(t, next, 1)
}

func TestUpdateQuantity(t *testing.T) {
	cart := []models.CartItem{item("p1", 10, 1), item("p2", 20, 2)}

	next := UpdateQuantity(cart, 1, 7)
	assert.Equal(t, 7, next[1].Quantity)
	assert.Equal(t, 2, cart[1].Quantity, "input cart must not be mutated")

	// Below 1 and out-of-range are no-ops.
	assert.Equal(t, cart, UpdateQuantity(cart, 0, 0))
	assert.Equal(t, cart, UpdateQuantity(cart, -1, 3))
	assert.Equal(t, cart, UpdateQuantity(cart, 2, 3))
}

func TestMoveWishlistItemToCart(t *testing.T) {
	want := item("p1", 10, 1)
	want.Color = "gold"
	other := item("p2", 20, 1)

	wishlist := []models.CartItem{want, other}
	cart := []models.CartItem{item("p3", 5, 1)}

	newWishlist, newCart := MoveWishlistItemToCart(wishlist, cart, want)

	require.Len(t, newWishlist, 1)
	assert.Equal(t, "p2", newWishlist[0].ProductID)
	require.Len(t, newCart, 2)
	assert.Equal(t, "p1", newCart[1].ProductID)
	assert.Equal(t, "gold", newCart[1].Color)
}

func TestCheckoutEmptyCart(t *testing.T) {
	_, err := Checkout(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = Checkout([]models.CartItem{}, nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutBuildsPendingOrder(t *testing.T) {
	cart := []models.CartItem{item("p1", 10, 2)}

	order, err := Checkout(cart, nil)
	require.NoError(t, err)

	assert.Equal(t, 20.0, order.Total)
	assert.Equal(t, "pending", order.Status)
	assert.True(t, strings.HasPrefix(order.ID, "ORD-"))
	assert.NotEmpty(t, order.Date)
	require.Len(t, order.Items, 1)
	assert.Nil(t, order.ShippingAddress)
}

func TestCheckoutTotalRoundsToCents(t *testing.T) {
	cart := []models.CartItem{
		item("p1", 19.99, 3),
		item("p2", 0.1, 2),
	}

	order, err := Checkout(cart, nil)
	require.NoError(t, err)
	assert.Equal(t, 60.17, order.Total)
}

func TestCheckoutShippingAddress(t *testing.T) {
	cart := []models.CartItem{item("p1", 10, 1)}

	order, err := Checkout(cart, []byte(`{"city":"Pune","zip":"411001"}`))
	require.NoError(t, err)
	assert.Equal(t, "Pune", order.ShippingAddress["city"])

	// Malformed shipping JSON is ignored, not an error.
	order, err = Checkout(cart, []byte(`{"city":`))
	require.NoError(t, err)
	assert.Nil(t, order.ShippingAddress)
}

func TestTotal(t *testing.T) {
	assert.Equal(t, 0.0, Total(nil))
	assert.Equal(t, 50.0, Total([]models.CartItem{item("p1", 10, 2), item("p2", 30, 1)}))
}
